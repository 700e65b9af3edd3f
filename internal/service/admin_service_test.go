package service

import (
	"context"
	"testing"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminService_EnsureAndAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	tokens := &tokenStub{}
	svc := NewAdminService(repository.NewAdminRepository(db), tokens)
	svc.bcryptCost = bcrypt.MinCost
	ctx := context.Background()

	require.NoError(t, svc.EnsureCredential(ctx, "root", "correct horse battery"))

	var stored models.AdminCredential
	require.NoError(t, db.Where("username = ?", "root").First(&stored).Error)
	assert.NotEqual(t, "correct horse battery", stored.Password)

	// Unchanged password keeps the stored hash.
	require.NoError(t, svc.EnsureCredential(ctx, "root", "correct horse battery"))
	var again models.AdminCredential
	require.NoError(t, db.Where("username = ?", "root").First(&again).Error)
	assert.Equal(t, stored.Password, again.Password)

	_, err := svc.Authenticate(ctx, "root", "wrong")
	assertCode(t, err, models.CodeUnauthorized)
	_, err = svc.Authenticate(ctx, "nobody", "x")
	assertCode(t, err, models.CodeUnauthorized)
	_, err = svc.Authenticate(ctx, "", "")
	assertValidationError(t, err)

	token, err := svc.Authenticate(ctx, "root", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.Len(t, tokens.issued, 1)
	assert.Equal(t, auth.RoleAdmin, tokens.issued[0].Role)

	require.NoError(t, svc.EnsureCredential(ctx, "root", "rotated password"))
	_, err = svc.Authenticate(ctx, "root", "correct horse battery")
	assertCode(t, err, models.CodeUnauthorized)

	snap, err := svc.AllData(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Users)
}

func TestAdminService_EnsureCredentialValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminService(repository.NewAdminRepository(db), &tokenStub{})
	assertValidationError(t, svc.EnsureCredential(context.Background(), "", "pw"))
	assertValidationError(t, svc.EnsureCredential(context.Background(), "root", ""))
}
