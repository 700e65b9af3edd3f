package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// EngagementRepository stores contributor applications and newsletter
// subscribers.
type EngagementRepository interface {
	CreateContributor(ctx context.Context, c *models.Contributor) error
	CreateSubscriber(ctx context.Context, s *models.Subscriber) error
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new EngagementRepository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) CreateContributor(ctx context.Context, c *models.Contributor) error {
	return wrapDBError(r.db.WithContext(ctx).Create(c).Error)
}

func (r *engagementRepository) CreateSubscriber(ctx context.Context, s *models.Subscriber) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email already subscribed")
		}
		return models.NewInternalError(err)
	}
	return nil
}
