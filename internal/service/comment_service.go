package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

const maxCommentLen = 5000

type CommentService struct {
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
}

type CreateCommentInput struct {
	ArticleID uint
	Content   string
}

func NewCommentService(commentRepo repository.CommentRepository, articleRepo repository.ArticleRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.Required("content", in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.MaxRunes("content", in.Content, maxCommentLen); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.articleRepo.GetByID(ctx, in.ArticleID); err != nil {
		return nil, err
	}

	comment := &models.Comment{ArticleID: in.ArticleID, Content: in.Content}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, articleID uint) ([]*models.Comment, error) {
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByArticle(ctx, articleID)
}
