package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

const maxContributorReasonLen = 2000

// EngagementService handles newsletter subscriptions and contributor
// applications.
type EngagementService struct {
	repo repository.EngagementRepository
}

type ContributorInput struct {
	Name   string
	Email  string
	Reason string
}

func NewEngagementService(repo repository.EngagementRepository) *EngagementService {
	return &EngagementService{repo: repo}
}

func (s *EngagementService) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	email = NormalizeEmail(email)
	if err := validation.Required("email", email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	sub := &models.Subscriber{Email: email}
	if err := s.repo.CreateSubscriber(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *EngagementService) Apply(ctx context.Context, in ContributorInput) (*models.Contributor, error) {
	c := &models.Contributor{
		Name:   strings.TrimSpace(in.Name),
		Email:  NormalizeEmail(in.Email),
		Reason: strings.TrimSpace(in.Reason),
	}
	if err := checkText("name", c.Name, 100); err != nil {
		return nil, err
	}
	if err := validation.Required("email", c.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(c.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := checkText("reason", c.Reason, maxContributorReasonLen); err != nil {
		return nil, err
	}

	if err := s.repo.CreateContributor(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
