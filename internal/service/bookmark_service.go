package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type BookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	articleRepo  repository.ArticleRepository
}

// BookmarkInput names the acting user and the target article. TargetUserID
// is the id sent by the client, zero when omitted.
type BookmarkInput struct {
	UserID       uint
	TargetUserID uint
	ArticleID    uint
}

func NewBookmarkService(bookmarkRepo repository.BookmarkRepository, articleRepo repository.ArticleRepository) *BookmarkService {
	return &BookmarkService{
		bookmarkRepo: bookmarkRepo,
		articleRepo:  articleRepo,
	}
}

func (in BookmarkInput) check() error {
	if in.ArticleID == 0 {
		return models.NewValidationError("articleId must be a positive integer")
	}
	if in.TargetUserID != 0 && in.TargetUserID != in.UserID {
		return models.NewForbiddenError("You can only manage your own bookmarks")
	}
	return nil
}

func (s *BookmarkService) Add(ctx context.Context, in BookmarkInput) ([]*models.Article, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	if _, err := s.articleRepo.GetByID(ctx, in.ArticleID); err != nil {
		return nil, err
	}
	if err := s.bookmarkRepo.Add(ctx, in.UserID, in.ArticleID); err != nil {
		return nil, err
	}
	return s.bookmarkRepo.ListArticles(ctx, in.UserID)
}

// Remove deletes the bookmark if present.
func (s *BookmarkService) Remove(ctx context.Context, in BookmarkInput) ([]*models.Article, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	if err := s.bookmarkRepo.Remove(ctx, in.UserID, in.ArticleID); err != nil {
		return nil, err
	}
	return s.bookmarkRepo.ListArticles(ctx, in.UserID)
}

func (s *BookmarkService) List(ctx context.Context, userID, targetUserID uint) ([]*models.Article, error) {
	if userID != targetUserID {
		return nil, models.NewForbiddenError("You can only view your own bookmarks")
	}
	return s.bookmarkRepo.ListArticles(ctx, userID)
}
