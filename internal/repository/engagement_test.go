package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementRepository_SubscriberConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateSubscriber(ctx, &models.Subscriber{Email: "r@example.com"}))
	err := repo.CreateSubscriber(ctx, &models.Subscriber{Email: "r@example.com"})
	assert.True(t, models.IsCode(err, models.CodeConflict))

	c := &models.Contributor{Name: "Ada", Email: "ada@example.com", Reason: "I write"}
	require.NoError(t, repo.CreateContributor(ctx, c))
	assert.NotZero(t, c.ID)
}

func TestNotificationRepository_ViewedBy(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	older := &models.Notification{Title: "a", Message: "first"}
	newer := &models.Notification{Title: "b", Message: "second"}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	require.NoError(t, repo.MarkViewed(ctx, older.ID, 7))
	require.NoError(t, repo.MarkViewed(ctx, older.ID, 7))
	require.NoError(t, repo.MarkViewed(ctx, older.ID, 8))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Empty(t, list[0].ViewedBy)
	assert.Equal(t, []uint{7, 8}, list[1].ViewedBy)

	_, err = repo.GetByID(ctx, 99)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}
