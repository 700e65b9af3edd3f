package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// BookmarkRepository manages the user→article bookmark set.
type BookmarkRepository interface {
	Add(ctx context.Context, userID, articleID uint) error
	Remove(ctx context.Context, userID, articleID uint) error
	Exists(ctx context.Context, userID, articleID uint) (bool, error)
	ListArticles(ctx context.Context, userID uint) ([]*models.Article, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new BookmarkRepository
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// Add inserts the pair. The unique index turns a concurrent double-add into
// CONFLICT.
func (r *bookmarkRepository) Add(ctx context.Context, userID, articleID uint) error {
	err := r.db.WithContext(ctx).Create(&models.Bookmark{UserID: userID, ArticleID: articleID}).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Article already bookmarked")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Remove is idempotent.
func (r *bookmarkRepository) Remove(ctx context.Context, userID, articleID uint) error {
	return wrapDBError(r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&models.Bookmark{}).Error)
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID, articleID uint) (bool, error) {
	var b models.Bookmark
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}

func (r *bookmarkRepository) ListArticles(ctx context.Context, userID uint) ([]*models.Article, error) {
	var articles []*models.Article
	err := readDB(r.db).WithContext(ctx).
		Joins("JOIN bookmarks ON bookmarks.article_id = articles.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC, bookmarks.id DESC").
		Find(&articles).Error
	return articles, wrapDBError(err)
}
