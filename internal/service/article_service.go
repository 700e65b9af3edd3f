package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inkwell/internal/mail"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

const (
	maxArticleTitleLen   = 300
	maxArticleContentLen = 200000
	maxReasonLen         = 500
	// TrendingLimit is the size of the trending list.
	TrendingLimit = 2
)

type ArticleService struct {
	articleRepo repository.ArticleRepository
	mailer      mail.Mailer
	adminEmail  string
}

type CreateArticleInput struct {
	Author    string
	Title     string
	Content   string
	Thumbnail string
}

// UpdateArticleInput carries a partial update; nil fields are left as is.
type UpdateArticleInput struct {
	ArticleID uint
	Username  string
	Title     *string
	Content   *string
	Thumbnail *string
}

type DeletionRequestInput struct {
	ArticleID uint
	Username  string
	Reason    string
}

func NewArticleService(articleRepo repository.ArticleRepository, mailer mail.Mailer, adminEmail string) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		mailer:      mailer,
		adminEmail:  adminEmail,
	}
}

func (s *ArticleService) List(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	return s.articleRepo.List(ctx, limit, offset)
}

func (s *ArticleService) ListByAuthor(ctx context.Context, username string, limit, offset int) ([]*models.Article, error) {
	return s.articleRepo.ListByAuthor(ctx, username, limit, offset)
}

func (s *ArticleService) Trending(ctx context.Context) ([]models.TrendingArticle, error) {
	return s.articleRepo.Trending(ctx, TrendingLimit)
}

// View counts one read and returns the article with the new count.
func (s *ArticleService) View(ctx context.Context, id uint) (*models.Article, error) {
	if err := s.articleRepo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	observability.ArticleViews.Inc()
	return s.articleRepo.GetByID(ctx, id)
}

func (s *ArticleService) Create(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateArticleFields(in.Title, in.Content); err != nil {
		return nil, err
	}
	if in.Author == "" {
		return nil, models.NewValidationError("author is required")
	}

	article := &models.Article{
		Title:     in.Title,
		Content:   in.Content,
		Author:    in.Author,
		Thumbnail: strings.TrimSpace(in.Thumbnail),
	}
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *ArticleService) Update(ctx context.Context, in UpdateArticleInput) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, in.ArticleID)
	if err != nil {
		return nil, err
	}
	if article.Author != in.Username {
		return nil, models.NewForbiddenError("You can only edit your own articles")
	}

	if in.Title != nil {
		article.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		article.Content = *in.Content
	}
	if in.Thumbnail != nil {
		article.Thumbnail = strings.TrimSpace(*in.Thumbnail)
	}
	if err := validateArticleFields(article.Title, article.Content); err != nil {
		return nil, err
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *ArticleService) Report(ctx context.Context, id uint, reason string) error {
	reason = strings.TrimSpace(reason)
	if err := validateReason(reason); err != nil {
		return err
	}
	return s.articleRepo.Report(ctx, id, reason)
}

// RequestDeletion emails the admin on behalf of the article's author.
func (s *ArticleService) RequestDeletion(ctx context.Context, in DeletionRequestInput) error {
	in.Reason = strings.TrimSpace(in.Reason)
	if err := validateReason(in.Reason); err != nil {
		return err
	}

	article, err := s.articleRepo.GetByID(ctx, in.ArticleID)
	if err != nil {
		return err
	}
	if article.Author != in.Username {
		return models.NewForbiddenError("You can only request deletion of your own articles")
	}
	if s.adminEmail == "" {
		return models.NewInternalError(errors.New("ADMIN_EMAIL not configured"))
	}

	err = s.mailer.Send(ctx, mail.Message{
		Kind:    mail.KindDeletionRequest,
		To:      s.adminEmail,
		Subject: fmt.Sprintf("Deletion request for article #%d", article.ID),
		Body: fmt.Sprintf("%s asked to delete %q (#%d).\n\nReason:\n%s\n",
			in.Username, article.Title, article.ID, in.Reason),
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func validateArticleFields(title, content string) error {
	if err := validation.Required("title", title); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.MaxRunes("title", title, maxArticleTitleLen); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.Required("content", content); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.MaxRunes("content", content, maxArticleContentLen); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

func validateReason(reason string) error {
	if err := validation.Required("reason", reason); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.MaxRunes("reason", reason, maxReasonLen); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}
