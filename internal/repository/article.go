package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// ArticleRepository defines persistence operations for articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	List(ctx context.Context, limit, offset int) ([]*models.Article, error)
	ListByAuthor(ctx context.Context, username string, limit, offset int) ([]*models.Article, error)
	Trending(ctx context.Context, limit int) ([]models.TrendingArticle, error)
	IncrementViews(ctx context.Context, id uint) error
	Update(ctx context.Context, article *models.Article) error
	Report(ctx context.Context, id uint, reason string) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return wrapDBError(r.db.WithContext(ctx).Create(article).Error)
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return nil, mapLookupError("Article", id, err)
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	var articles []*models.Article
	err := readDB(r.db).WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&articles).Error
	return articles, wrapDBError(err)
}

func (r *articleRepository) ListByAuthor(ctx context.Context, username string, limit, offset int) ([]*models.Article, error) {
	var articles []*models.Article
	err := readDB(r.db).WithContext(ctx).
		Where("author = ?", username).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&articles).Error
	return articles, wrapDBError(err)
}

// Trending orders by view count with ties broken by insertion order.
func (r *articleRepository) Trending(ctx context.Context, limit int) ([]models.TrendingArticle, error) {
	var out []models.TrendingArticle
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Article{}).
		Select("id, title, author, thumbnail, viewed, created_at").
		Order("viewed DESC, id ASC").
		Limit(limit).
		Scan(&out).Error
	return out, wrapDBError(err)
}

// IncrementViews adds exactly one view in a single UPDATE so concurrent
// readers never lose increments.
func (r *articleRepository) IncrementViews(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("id = ?", id).
		UpdateColumn("viewed", gorm.Expr("viewed + ?", 1))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Article", id)
	}
	return nil
}

func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	return wrapDBError(r.db.WithContext(ctx).
		Model(article).
		Select("Title", "Content", "Thumbnail").
		Updates(article).Error)
}

func (r *articleRepository) Report(ctx context.Context, id uint, reason string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"reported": true, "report_reason": reason})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Article", id)
	}
	return nil
}
