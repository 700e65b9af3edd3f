package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// ProposalRepository defines persistence operations for proposals and their
// responses.
type ProposalRepository interface {
	Create(ctx context.Context, p *models.Proposal) error
	GetByID(ctx context.Context, id uint) (*models.Proposal, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Proposal, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.Proposal, error)
	Update(ctx context.Context, p *models.Proposal) error
	Delete(ctx context.Context, id uint) error
	AddResponse(ctx context.Context, resp *models.ProposalResponse) error
}

type proposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository creates a new ProposalRepository
func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{db: db}
}

func (r *proposalRepository) Create(ctx context.Context, p *models.Proposal) error {
	return wrapDBError(r.db.WithContext(ctx).Omit("Responses").Create(p).Error)
}

func (r *proposalRepository) GetByID(ctx context.Context, id uint) (*models.Proposal, error) {
	var p models.Proposal
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, mapLookupError("Proposal", id, err)
	}
	return &p, nil
}

func (r *proposalRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Proposal, error) {
	var out []*models.Proposal
	err := readDB(r.db).WithContext(ctx).
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, wrapDBError(err)
}

func (r *proposalRepository) ListAll(ctx context.Context, limit, offset int) ([]*models.Proposal, error) {
	var out []*models.Proposal
	err := readDB(r.db).WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, wrapDBError(err)
}

func (r *proposalRepository) Update(ctx context.Context, p *models.Proposal) error {
	return wrapDBError(r.db.WithContext(ctx).
		Model(p).
		Select("Description", "Details", "Deadline", "TeamMembersRequired", "IsPaid", "Email").
		Updates(p).Error)
}

// Delete soft-deletes the proposal; responses are kept.
func (r *proposalRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Proposal{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Proposal", id)
	}
	return nil
}

func (r *proposalRepository) AddResponse(ctx context.Context, resp *models.ProposalResponse) error {
	return wrapDBError(r.db.WithContext(ctx).Create(resp).Error)
}
