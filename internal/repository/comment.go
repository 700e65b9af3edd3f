package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for article comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByArticle(ctx context.Context, articleID uint) ([]*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return wrapDBError(r.db.WithContext(ctx).Create(comment).Error)
}

func (r *commentRepository) ListByArticle(ctx context.Context, articleID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := readDB(r.db).WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return comments, wrapDBError(err)
}
