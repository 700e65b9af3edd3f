package service

import (
	"context"
	"strings"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type AdminService struct {
	repo       repository.AdminRepository
	tokens     TokenIssuer
	bcryptCost int
}

func NewAdminService(repo repository.AdminRepository, tokens TokenIssuer) *AdminService {
	return &AdminService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Authenticate exchanges the admin credential for an admin-audience token.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", models.NewValidationError("username and password are required")
	}

	cred, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			observability.AuthAttempts.WithLabelValues(string(auth.RoleAdmin), "rejected").Inc()
			return "", models.NewUnauthorizedError("Invalid admin credentials")
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(password)); err != nil {
		observability.AuthAttempts.WithLabelValues(string(auth.RoleAdmin), "rejected").Inc()
		return "", models.NewUnauthorizedError("Invalid admin credentials")
	}

	token, _, err := s.tokens.Issue(auth.Principal{ID: cred.ID, Username: cred.Username, Role: auth.RoleAdmin})
	if err != nil {
		return "", models.NewInternalError(err)
	}
	observability.AuthAttempts.WithLabelValues(string(auth.RoleAdmin), "accepted").Inc()
	return token, nil
}

func (s *AdminService) AllData(ctx context.Context) (*models.DataSnapshot, error) {
	return s.repo.Snapshot(ctx)
}

// EnsureCredential provisions the admin login, rehashing only when the
// stored hash does not already match password.
func (s *AdminService) EnsureCredential(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if err := validation.ValidateUsername(username); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return models.NewValidationError(err.Error())
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte(password)) == nil {
			return nil
		}
	case !models.IsCode(err, models.CodeNotFound):
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.repo.Upsert(ctx, username, string(hash))
}
