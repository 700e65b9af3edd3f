package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// OTPRepository keeps at most one pending code per email.
type OTPRepository interface {
	Replace(ctx context.Context, email, code string) (*models.OTP, error)
	GetByEmail(ctx context.Context, email string) (*models.OTP, error)
	Delete(ctx context.Context, id uint) error
	Consume(ctx context.Context, otp *models.OTP) error
}

type otpRepository struct {
	db *gorm.DB
}

// NewOTPRepository creates a new OTPRepository
func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &otpRepository{db: db}
}

// Replace drops any previous code for email and stores the new one.
func (r *otpRepository) Replace(ctx context.Context, email, code string) (*models.OTP, error) {
	otp := &models.OTP{Email: email, Code: code}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).Delete(&models.OTP{}).Error; err != nil {
			return err
		}
		return tx.Create(otp).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return otp, nil
}

func (r *otpRepository) GetByEmail(ctx context.Context, email string) (*models.OTP, error) {
	var otp models.OTP
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&otp).Error; err != nil {
		return nil, mapLookupError("OTP", email, err)
	}
	return &otp, nil
}

func (r *otpRepository) Delete(ctx context.Context, id uint) error {
	return wrapDBError(r.db.WithContext(ctx).Delete(&models.OTP{}, id).Error)
}

// Consume deletes the code and marks the owning user verified in a single
// transaction. A code already consumed by a concurrent request is NOT_FOUND.
func (r *otpRepository) Consume(ctx context.Context, otp *models.OTP) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND code = ?", otp.ID, otp.Code).Delete(&models.OTP{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("OTP", otp.Email)
		}
		res = tx.Model(&models.User{}).
			Where("email = ?", otp.Email).
			Update("is_verified", true)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", otp.Email)
		}
		return nil
	})
}
