package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

const discussionWithCount = "discussions.*, (SELECT COUNT(*) FROM discussion_comments WHERE discussion_comments.discussion_id = discussions.id) AS comments_count"

// DiscussionRepository defines persistence operations for community threads.
type DiscussionRepository interface {
	Create(ctx context.Context, d *models.Discussion) error
	List(ctx context.Context, limit, offset int) ([]*models.Discussion, error)
	GetByID(ctx context.Context, id uint) (*models.Discussion, error)
	ListComments(ctx context.Context, discussionID uint, limit, offset int) ([]models.DiscussionComment, error)
	CreateComment(ctx context.Context, c *models.DiscussionComment) error
	GetComment(ctx context.Context, id uint) (*models.DiscussionComment, error)
	CreateReply(ctx context.Context, r *models.DiscussionReply) error
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository creates a new DiscussionRepository
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) Create(ctx context.Context, d *models.Discussion) error {
	return wrapDBError(r.db.WithContext(ctx).Omit("Author").Create(d).Error)
}

func (r *discussionRepository) List(ctx context.Context, limit, offset int) ([]*models.Discussion, error) {
	var out []*models.Discussion
	err := readDB(r.db).WithContext(ctx).
		Select(discussionWithCount).
		Preload("Author").
		Order("discussions.created_at DESC, discussions.id DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, wrapDBError(err)
}

func (r *discussionRepository) GetByID(ctx context.Context, id uint) (*models.Discussion, error) {
	var d models.Discussion
	err := r.db.WithContext(ctx).
		Select(discussionWithCount).
		Preload("Author").
		Where("discussions.id = ?", id).
		Take(&d).Error
	if err != nil {
		return nil, mapLookupError("Discussion", id, err)
	}
	return &d, nil
}

// ListComments returns a page of comments oldest first, each with all of its
// replies.
func (r *discussionRepository) ListComments(ctx context.Context, discussionID uint, limit, offset int) ([]models.DiscussionComment, error) {
	var comments []models.DiscussionComment
	err := readDB(r.db).WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Replies.Author").
		Where("discussion_id = ?", discussionID).
		Order("created_at ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, wrapDBError(err)
}

func (r *discussionRepository) CreateComment(ctx context.Context, c *models.DiscussionComment) error {
	return wrapDBError(r.db.WithContext(ctx).Omit("Author", "Replies").Create(c).Error)
}

func (r *discussionRepository) GetComment(ctx context.Context, id uint) (*models.DiscussionComment, error) {
	var c models.DiscussionComment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, mapLookupError("Comment", id, err)
	}
	return &c, nil
}

func (r *discussionRepository) CreateReply(ctx context.Context, reply *models.DiscussionReply) error {
	return wrapDBError(r.db.WithContext(ctx).Omit("Author").Create(reply).Error)
}
