package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"inkwell/internal/featureflags"
	"inkwell/internal/mail"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// DefaultOTPTTL is the validity window applied when expiry is enforced.
const DefaultOTPTTL = 5 * time.Minute

var otpSpace = big.NewInt(1000000)

type OTPService struct {
	otpRepo  repository.OTPRepository
	userRepo repository.UserRepository
	mailer   mail.Mailer
	flags    *featureflags.Manager
	ttl      time.Duration
	now      func() time.Time
	generate func() (string, error)
}

func NewOTPService(
	otpRepo repository.OTPRepository,
	userRepo repository.UserRepository,
	mailer mail.Mailer,
	flags *featureflags.Manager,
	ttl time.Duration,
) *OTPService {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return &OTPService{
		otpRepo:  otpRepo,
		userRepo: userRepo,
		mailer:   mailer,
		flags:    flags,
		ttl:      ttl,
		now:      time.Now,
		generate: generateOTP,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalizedEmail(raw string) (string, error) {
	email := NormalizeEmail(raw)
	if err := validation.Required("email", email); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	return email, nil
}

// Send issues a fresh code for a registered email, replacing any pending one,
// and mails it before returning.
func (s *OTPService) Send(ctx context.Context, rawEmail string) error {
	email, err := normalizedEmail(rawEmail)
	if err != nil {
		return err
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return err
	}

	code, err := s.generate()
	if err != nil {
		return models.NewInternalError(err)
	}
	if _, err := s.otpRepo.Replace(ctx, email, code); err != nil {
		return err
	}

	err = s.mailer.Send(ctx, mail.Message{
		Kind:    mail.KindOTP,
		To:      email,
		Subject: "Your Inkwell verification code",
		Body:    fmt.Sprintf("Your verification code is %s.\n", code),
	})
	if err != nil {
		observability.OTPEvents.WithLabelValues("send_failed").Inc()
		return models.NewInternalError(err)
	}
	observability.OTPEvents.WithLabelValues("sent").Inc()
	return nil
}

// Verify consumes a matching code and marks the user verified. A wrong code
// leaves both the code and the user untouched.
func (s *OTPService) Verify(ctx context.Context, rawEmail, code string) error {
	email, err := normalizedEmail(rawEmail)
	if err != nil {
		return err
	}
	if err := validation.ValidateOTP(code); err != nil {
		return models.NewValidationError(err.Error())
	}

	otp, err := s.otpRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if s.flags.On(featureflags.EnforceOTPExpiry) && s.now().Sub(otp.CreatedAt) > s.ttl {
		observability.OTPEvents.WithLabelValues("expired").Inc()
		if err := s.otpRepo.Delete(ctx, otp.ID); err != nil {
			return err
		}
		return models.NewValidationError("OTP has expired")
	}

	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 {
		observability.OTPEvents.WithLabelValues("mismatch").Inc()
		return models.NewValidationError("Invalid OTP")
	}

	if err := s.otpRepo.Consume(ctx, otp); err != nil {
		return err
	}
	observability.OTPEvents.WithLabelValues("verified").Inc()
	return nil
}

func (s *OTPService) CheckStatus(ctx context.Context, rawEmail string) (bool, error) {
	email, err := normalizedEmail(rawEmail)
	if err != nil {
		return false, err
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user.IsVerified, nil
}
