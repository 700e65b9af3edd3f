package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

const (
	maxDiscussionTitleLen = 200
	maxDiscussionBodyLen  = 10000
	maxThreadCommentLen   = 5000
)

type DiscussionService struct {
	repo repository.DiscussionRepository
}

type CreateDiscussionInput struct {
	AuthorID uint
	Title    string
	Body     string
}

type CreateDiscussionCommentInput struct {
	AuthorID     uint
	DiscussionID uint
	Body         string
}

type CreateReplyInput struct {
	AuthorID     uint
	DiscussionID uint
	CommentID    uint
	Body         string
}

func NewDiscussionService(repo repository.DiscussionRepository) *DiscussionService {
	return &DiscussionService{repo: repo}
}

func (s *DiscussionService) Create(ctx context.Context, in CreateDiscussionInput) (*models.Discussion, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := checkText("title", in.Title, maxDiscussionTitleLen); err != nil {
		return nil, err
	}
	if err := checkText("body", in.Body, maxDiscussionBodyLen); err != nil {
		return nil, err
	}

	d := &models.Discussion{Title: in.Title, Body: in.Body, AuthorID: in.AuthorID}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, d.ID)
}

func (s *DiscussionService) List(ctx context.Context, limit, offset int) ([]*models.Discussion, error) {
	return s.repo.List(ctx, limit, offset)
}

// Get returns the discussion with one page of its comments.
func (s *DiscussionService) Get(ctx context.Context, id uint, limit, offset int) (*models.Discussion, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, id, limit, offset)
	if err != nil {
		return nil, err
	}
	d.Comments = comments
	return d, nil
}

func (s *DiscussionService) Comment(ctx context.Context, in CreateDiscussionCommentInput) (*models.DiscussionComment, error) {
	if err := checkText("body", in.Body, maxThreadCommentLen); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, in.DiscussionID); err != nil {
		return nil, err
	}

	c := &models.DiscussionComment{DiscussionID: in.DiscussionID, Body: in.Body, AuthorID: in.AuthorID}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Reply answers a top-level comment. The comment must belong to the
// discussion named in the request.
func (s *DiscussionService) Reply(ctx context.Context, in CreateReplyInput) (*models.DiscussionReply, error) {
	if err := checkText("body", in.Body, maxThreadCommentLen); err != nil {
		return nil, err
	}
	comment, err := s.repo.GetComment(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.DiscussionID != in.DiscussionID {
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}

	r := &models.DiscussionReply{CommentID: comment.ID, Body: in.Body, AuthorID: in.AuthorID}
	if err := s.repo.CreateReply(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func checkText(field, value string, max int) error {
	if err := validation.Required(field, value); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.MaxRunes(field, value, max); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}
