package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository stores broadcast notifications and who has seen them.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	List(ctx context.Context) ([]*models.Notification, error)
	MarkViewed(ctx context.Context, notificationID, userID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return wrapDBError(r.db.WithContext(ctx).Create(n).Error)
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, mapLookupError("Notification", id, err)
	}
	return &n, nil
}

// attachViews fills ViewedBy on each notification, in view order. Every
// notification gets a non-nil slice.
func attachViews(db *gorm.DB, ns []*models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	ids := make([]uint, len(ns))
	byID := make(map[uint]*models.Notification, len(ns))
	for i, n := range ns {
		ids[i] = n.ID
		n.ViewedBy = []uint{}
		byID[n.ID] = n
	}

	var views []models.NotificationView
	if err := db.Where("notification_id IN ?", ids).Order("id ASC").Find(&views).Error; err != nil {
		return models.NewInternalError(err)
	}
	for _, v := range views {
		if n, ok := byID[v.NotificationID]; ok {
			n.ViewedBy = append(n.ViewedBy, v.UserID)
		}
	}
	return nil
}

// List returns notifications newest first with ViewedBy populated.
func (r *notificationRepository) List(ctx context.Context) ([]*models.Notification, error) {
	db := readDB(r.db).WithContext(ctx)

	var out []*models.Notification
	if err := db.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := attachViews(db, out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkViewed is insert-or-ignore on (notification, user).
func (r *notificationRepository) MarkViewed(ctx context.Context, notificationID, userID uint) error {
	return wrapDBError(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.NotificationView{NotificationID: notificationID, UserID: userID}).Error)
}
