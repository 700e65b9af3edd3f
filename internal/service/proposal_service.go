package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

const (
	maxProposalDescriptionLen = 2000
	maxProposalDetailsLen     = 10000
)

type ProposalService struct {
	repo repository.ProposalRepository
}

type CreateProposalInput struct {
	UserID              uint
	Description         string
	Details             string
	Deadline            string
	TeamMembersRequired int
	IsPaid              bool
	Email               string
}

// UpdateProposalInput carries a partial update; nil fields are left as is.
type UpdateProposalInput struct {
	ProposalID          uint
	UserID              uint
	Description         *string
	Details             *string
	Deadline            *string
	TeamMembersRequired *int
	IsPaid              *bool
	Email               *string
}

type RespondInput struct {
	ProposalID uint
	// UserID is set when the responder is signed in.
	UserID  *uint
	Phone   string
	Message string
}

func NewProposalService(repo repository.ProposalRepository) *ProposalService {
	return &ProposalService{repo: repo}
}

func (s *ProposalService) Create(ctx context.Context, in CreateProposalInput) (*models.Proposal, error) {
	p := &models.Proposal{
		UserID:              in.UserID,
		Description:         strings.TrimSpace(in.Description),
		Details:             in.Details,
		TeamMembersRequired: in.TeamMembersRequired,
		IsPaid:              in.IsPaid,
		Email:               NormalizeEmail(in.Email),
	}
	deadline, err := validation.ParseDeadline(in.Deadline)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	p.Deadline = deadline

	if err := validateProposal(p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProposalService) ListMine(ctx context.Context, userID, targetUserID uint) ([]*models.Proposal, error) {
	if userID != targetUserID {
		return nil, models.NewForbiddenError("You can only view your own proposals")
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *ProposalService) Explore(ctx context.Context, limit, offset int) ([]*models.Proposal, error) {
	return s.repo.ListAll(ctx, limit, offset)
}

func (s *ProposalService) Update(ctx context.Context, in UpdateProposalInput) (*models.Proposal, error) {
	p, err := s.owned(ctx, in.ProposalID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Details != nil {
		p.Details = *in.Details
	}
	if in.Deadline != nil {
		deadline, err := validation.ParseDeadline(*in.Deadline)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		p.Deadline = deadline
	}
	if in.TeamMembersRequired != nil {
		p.TeamMembersRequired = *in.TeamMembersRequired
	}
	if in.IsPaid != nil {
		p.IsPaid = *in.IsPaid
	}
	if in.Email != nil {
		p.Email = NormalizeEmail(*in.Email)
	}
	if err := validateProposal(p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProposalService) Delete(ctx context.Context, proposalID, userID uint) error {
	if _, err := s.owned(ctx, proposalID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, proposalID)
}

// Respond appends a response. Invalid input never reaches the store.
func (s *ProposalService) Respond(ctx context.Context, in RespondInput) (*models.ProposalResponse, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validation.Required("phone", in.Phone); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := checkText("message", in.Message, models.MaxProposalResponseRunes); err != nil {
		return nil, err
	}
	if in.ProposalID == 0 {
		return nil, models.NewValidationError("proposalId must be a positive integer")
	}
	if _, err := s.repo.GetByID(ctx, in.ProposalID); err != nil {
		return nil, err
	}

	resp := &models.ProposalResponse{
		ProposalID: in.ProposalID,
		UserID:     in.UserID,
		Phone:      in.Phone,
		Message:    in.Message,
	}
	if err := s.repo.AddResponse(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *ProposalService) owned(ctx context.Context, proposalID, userID uint) (*models.Proposal, error) {
	p, err := s.repo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, models.NewForbiddenError("You can only modify your own proposals")
	}
	return p, nil
}

func validateProposal(p *models.Proposal) error {
	if err := checkText("description", p.Description, maxProposalDescriptionLen); err != nil {
		return err
	}
	if err := checkText("details", p.Details, maxProposalDetailsLen); err != nil {
		return err
	}
	if err := validation.Required("email", p.Email); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(p.Email); err != nil {
		return models.NewValidationError(err.Error())
	}
	if p.TeamMembersRequired < 1 {
		return models.NewValidationError("teamMembersRequired must be at least 1")
	}
	return nil
}
