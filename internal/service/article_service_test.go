package service

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/mail"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleService_View_IncrementsExactlyOnce(t *testing.T) {
	t.Parallel()

	viewed := int64(4)
	calls := 0
	repo := noopArticleRepo()
	repo.incrementViewsFn = func(_ context.Context, _ uint) error {
		calls++
		viewed++
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Article, error) {
		return &models.Article{ID: id, Viewed: viewed}, nil
	}

	svc := NewArticleService(repo, &mailerStub{}, "")
	a, err := svc.View(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(5), a.Viewed)
}

func TestArticleService_View_NotFound(t *testing.T) {
	t.Parallel()

	repo := noopArticleRepo()
	repo.incrementViewsFn = func(_ context.Context, id uint) error {
		return models.NewNotFoundError("Article", id)
	}
	svc := NewArticleService(repo, &mailerStub{}, "")
	_, err := svc.View(context.Background(), 77)
	assertCode(t, err, models.CodeNotFound)
}

func TestArticleService_Trending_UsesTopTwo(t *testing.T) {
	t.Parallel()

	repo := noopArticleRepo()
	repo.trendingFn = func(_ context.Context, limit int) ([]models.TrendingArticle, error) {
		assert.Equal(t, 2, limit)
		return []models.TrendingArticle{{ID: 3, Viewed: 9}, {ID: 1, Viewed: 5}}, nil
	}
	got, err := NewArticleService(repo, &mailerStub{}, "").Trending(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestArticleService_Create(t *testing.T) {
	t.Parallel()

	var stored *models.Article
	repo := noopArticleRepo()
	repo.createFn = func(_ context.Context, a *models.Article) error {
		stored = a
		return nil
	}
	svc := NewArticleService(repo, &mailerStub{}, "")

	_, err := svc.Create(context.Background(), CreateArticleInput{Author: "ada", Content: "x"})
	assertValidationError(t, err)
	_, err = svc.Create(context.Background(), CreateArticleInput{Author: "ada", Title: "t"})
	assertValidationError(t, err)
	_, err = svc.Create(context.Background(), CreateArticleInput{Title: "t", Content: "x"})
	assertValidationError(t, err)
	_, err = svc.Create(context.Background(), CreateArticleInput{Author: "ada", Title: strings.Repeat("t", 301), Content: "x"})
	assertValidationError(t, err)
	assert.Nil(t, stored)

	a, err := svc.Create(context.Background(), CreateArticleInput{Author: "ada", Title: " Hello ", Content: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", a.Title)
	assert.Equal(t, "ada", stored.Author)
}

func TestArticleService_Update_Ownership(t *testing.T) {
	t.Parallel()

	repo := noopArticleRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Article, error) {
		return &models.Article{ID: id, Author: "ada", Title: "old", Content: "body"}, nil
	}
	updated := false
	repo.updateFn = func(_ context.Context, _ *models.Article) error {
		updated = true
		return nil
	}
	svc := NewArticleService(repo, &mailerStub{}, "")
	title := "new"

	_, err := svc.Update(context.Background(), UpdateArticleInput{ArticleID: 1, Username: "bob", Title: &title})
	assertForbiddenError(t, err)
	assert.False(t, updated)

	a, err := svc.Update(context.Background(), UpdateArticleInput{ArticleID: 1, Username: "ada", Title: &title})
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, "new", a.Title)
	assert.Equal(t, "body", a.Content)

	empty := ""
	_, err = svc.Update(context.Background(), UpdateArticleInput{ArticleID: 1, Username: "ada", Content: &empty})
	assertValidationError(t, err)
}

func TestArticleService_Report(t *testing.T) {
	t.Parallel()

	svc := NewArticleService(noopArticleRepo(), &mailerStub{}, "")
	assertValidationError(t, svc.Report(context.Background(), 1, "  "))
	assertValidationError(t, svc.Report(context.Background(), 1, strings.Repeat("r", 501)))
	assert.NoError(t, svc.Report(context.Background(), 1, "spam"))
}

func TestArticleService_RequestDeletion(t *testing.T) {
	t.Parallel()

	repo := noopArticleRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Article, error) {
		return &models.Article{ID: id, Author: "ada", Title: "Mine"}, nil
	}

	t.Run("mails admin", func(t *testing.T) {
		t.Parallel()
		mailer := &mailerStub{}
		svc := NewArticleService(repo, mailer, "admin@example.com")
		require.NoError(t, svc.RequestDeletion(context.Background(), DeletionRequestInput{ArticleID: 4, Username: "ada", Reason: "outdated"}))
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "admin@example.com", mailer.sent[0].To)
		assert.Equal(t, mail.KindDeletionRequest, mailer.sent[0].Kind)
		assert.Contains(t, mailer.sent[0].Body, "outdated")
	})

	t.Run("non-author forbidden", func(t *testing.T) {
		t.Parallel()
		mailer := &mailerStub{}
		svc := NewArticleService(repo, mailer, "admin@example.com")
		assertForbiddenError(t, svc.RequestDeletion(context.Background(), DeletionRequestInput{ArticleID: 4, Username: "bob", Reason: "x"}))
		assert.Empty(t, mailer.sent)
	})

	t.Run("mail failure is internal", func(t *testing.T) {
		t.Parallel()
		svc := NewArticleService(repo, &mailerStub{err: errRepo}, "admin@example.com")
		assertCode(t, svc.RequestDeletion(context.Background(), DeletionRequestInput{ArticleID: 4, Username: "ada", Reason: "x"}), models.CodeInternal)
	})
}
