package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdminRepository reads the admin credential and the aggregate data dump.
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.AdminCredential, error)
	Upsert(ctx context.Context, username, passwordHash string) error
	Snapshot(ctx context.Context) (*models.DataSnapshot, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*models.AdminCredential, error) {
	var cred models.AdminCredential
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&cred).Error; err != nil {
		return nil, mapLookupError("Admin", username, err)
	}
	return &cred, nil
}

// Upsert creates the credential or replaces its password hash.
func (r *adminRepository) Upsert(ctx context.Context, username, passwordHash string) error {
	cred := &models.AdminCredential{Username: username, Password: passwordHash}
	return wrapDBError(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"password", "updated_at"}),
		}).
		Create(cred).Error)
}

// Snapshot loads every collection. Each query reads the replica when one is
// configured, so the dump is not a point-in-time view.
func (r *adminRepository) Snapshot(ctx context.Context) (*models.DataSnapshot, error) {
	db := readDB(r.db).WithContext(ctx)
	snap := &models.DataSnapshot{}

	queries := []struct {
		dest  interface{}
		query *gorm.DB
	}{
		{&snap.Users, db.Order("id ASC")},
		{&snap.Articles, db.Order("id ASC")},
		{&snap.Comments, db.Order("id ASC")},
		{&snap.Discussions, db.Select(discussionWithCount).Preload("Author").Order("discussions.id ASC")},
		{&snap.Proposals, db.Preload("Responses").Order("id ASC")},
		{&snap.Contributors, db.Order("id ASC")},
		{&snap.Subscribers, db.Order("id ASC")},
		{&snap.Notifications, db.Order("id ASC")},
	}
	for _, q := range queries {
		if err := q.query.Find(q.dest).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	ns := make([]*models.Notification, len(snap.Notifications))
	for i := range snap.Notifications {
		ns[i] = &snap.Notifications[i]
	}
	if err := attachViews(db, ns); err != nil {
		return nil, err
	}
	return snap, nil
}
