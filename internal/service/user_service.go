package service

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs and revokes session tokens.
type TokenIssuer interface {
	Issue(p auth.Principal) (string, time.Time, error)
	Revoke(ctx context.Context, p *auth.Principal) error
}

// Session is the result of a successful signup or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type UserService struct {
	userRepo   repository.UserRepository
	tokens     TokenIssuer
	bcryptCost int
}

type SignupInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

func NewUserService(userRepo repository.UserRepository, tokens TokenIssuer) *UserService {
	return &UserService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// NormalizeEmail is the canonical stored form of an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = NormalizeEmail(in.Email)

	if err := validation.Required("name", in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.Required("email", in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return nil, models.NewConflictError("Email already registered")
	} else if !models.IsCode(err, models.CodeNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil {
		return nil, models.NewConflictError("Username already taken")
	} else if !models.IsCode(err, models.CodeNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:              in.Name,
		Username:          in.Username,
		Email:             in.Email,
		Password:          string(hash),
		InterestedDomains: []string{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if in.Username == "" || in.Password == "" {
		return nil, models.NewValidationError("username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			observability.AuthAttempts.WithLabelValues(string(auth.RoleUser), "rejected").Inc()
			return nil, models.NewUnauthorizedError("Invalid username or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		observability.AuthAttempts.WithLabelValues(string(auth.RoleUser), "rejected").Inc()
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}

	observability.AuthAttempts.WithLabelValues(string(auth.RoleUser), "accepted").Inc()
	return s.issue(user)
}

// Logout revokes the presented token.
func (s *UserService) Logout(ctx context.Context, p *auth.Principal) error {
	if err := s.tokens.Revoke(ctx, p); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *UserService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateInterests replaces the user's domain list with the normalized input.
func (s *UserService) UpdateInterests(ctx context.Context, userID uint, domains []string) (*models.User, error) {
	if domains == nil {
		return nil, models.NewValidationError("interestedDomains is required")
	}
	normalized := validation.NormalizeDomains(domains)
	for _, d := range normalized {
		if err := validation.MaxRunes("domain", d, 100); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	if err := s.userRepo.UpdateInterests(ctx, userID, normalized); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) issue(user *models.User) (*Session, error) {
	token, exp, err := s.tokens.Issue(auth.Principal{
		ID:       user.ID,
		Username: user.Username,
		Role:     auth.RoleUser,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: user}, nil
}
