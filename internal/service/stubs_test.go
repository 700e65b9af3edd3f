package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/mail"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn          func(context.Context, *models.User) error
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	updateInterestsFn func(context.Context, uint, []string) error
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) UpdateInterests(ctx context.Context, id uint, domains []string) error {
	return s.updateInterestsFn(ctx, id, domains)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:  func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", email)
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", username)
		},
		updateInterestsFn: func(_ context.Context, _ uint, _ []string) error { return nil },
	}
}

// articleRepoStub is a stub for repository.ArticleRepository.
type articleRepoStub struct {
	createFn         func(context.Context, *models.Article) error
	getByIDFn        func(context.Context, uint) (*models.Article, error)
	listFn           func(context.Context, int, int) ([]*models.Article, error)
	listByAuthorFn   func(context.Context, string, int, int) ([]*models.Article, error)
	trendingFn       func(context.Context, int) ([]models.TrendingArticle, error)
	incrementViewsFn func(context.Context, uint) error
	updateFn         func(context.Context, *models.Article) error
	reportFn         func(context.Context, uint, string) error
}

func (s *articleRepoStub) Create(ctx context.Context, a *models.Article) error {
	return s.createFn(ctx, a)
}
func (s *articleRepoStub) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	return s.getByIDFn(ctx, id)
}
func (s *articleRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *articleRepoStub) ListByAuthor(ctx context.Context, username string, limit, offset int) ([]*models.Article, error) {
	return s.listByAuthorFn(ctx, username, limit, offset)
}
func (s *articleRepoStub) Trending(ctx context.Context, limit int) ([]models.TrendingArticle, error) {
	return s.trendingFn(ctx, limit)
}
func (s *articleRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}
func (s *articleRepoStub) Update(ctx context.Context, a *models.Article) error {
	return s.updateFn(ctx, a)
}
func (s *articleRepoStub) Report(ctx context.Context, id uint, reason string) error {
	return s.reportFn(ctx, id, reason)
}

func noopArticleRepo() *articleRepoStub {
	return &articleRepoStub{
		createFn:         func(_ context.Context, _ *models.Article) error { return nil },
		getByIDFn:        func(_ context.Context, id uint) (*models.Article, error) { return &models.Article{ID: id}, nil },
		listFn:           func(_ context.Context, _, _ int) ([]*models.Article, error) { return nil, nil },
		listByAuthorFn:   func(_ context.Context, _ string, _, _ int) ([]*models.Article, error) { return nil, nil },
		trendingFn:       func(_ context.Context, _ int) ([]models.TrendingArticle, error) { return nil, nil },
		incrementViewsFn: func(_ context.Context, _ uint) error { return nil },
		updateFn:         func(_ context.Context, _ *models.Article) error { return nil },
		reportFn:         func(_ context.Context, _ uint, _ string) error { return nil },
	}
}

// tokenStub records issued principals and revocations.
type tokenStub struct {
	issued  []auth.Principal
	revoked []*auth.Principal
	err     error
}

func (s *tokenStub) Issue(p auth.Principal) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	s.issued = append(s.issued, p)
	return "signed-" + p.Username, time.Unix(1700000000, 0), nil
}

func (s *tokenStub) Revoke(_ context.Context, p *auth.Principal) error {
	s.revoked = append(s.revoked, p)
	return s.err
}

// mailerStub captures outgoing mail.
type mailerStub struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *mailerStub) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

var errRepo = errors.New("database unavailable")

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeForbidden)
}
