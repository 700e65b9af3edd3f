package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPRepository_ReplaceKeepsSingleCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOTPRepository(db)
	ctx := context.Background()

	_, err := repo.Replace(ctx, "a@example.com", "111111")
	require.NoError(t, err)
	_, err = repo.Replace(ctx, "a@example.com", "222222")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.OTP{}).Where("email = ?", "a@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)
}

func TestOTPRepository_Consume(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewOTPRepository(db)
	ctx := context.Background()

	u := &models.User{Name: "Ada", Username: "ada", Email: "a@example.com", Password: "x"}
	require.NoError(t, users.Create(ctx, u))

	otp, err := repo.Replace(ctx, u.Email, "123456")
	require.NoError(t, err)
	require.NoError(t, repo.Consume(ctx, otp))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)

	_, err = repo.GetByEmail(ctx, u.Email)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	// Second consume of the same code loses.
	assert.True(t, models.IsCode(repo.Consume(ctx, otp), models.CodeNotFound))
}

func TestOTPRepository_ConsumeRollsBackWithoutUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOTPRepository(db)
	ctx := context.Background()

	otp, err := repo.Replace(ctx, "ghost@example.com", "123456")
	require.NoError(t, err)

	assert.True(t, models.IsCode(repo.Consume(ctx, otp), models.CodeNotFound))

	_, err = repo.GetByEmail(ctx, "ghost@example.com")
	assert.NoError(t, err)
}
