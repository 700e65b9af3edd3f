package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "root", "hash-1"))
	require.NoError(t, repo.Upsert(ctx, "root", "hash-2"))

	cred, err := repo.GetByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, "hash-2", cred.Password)

	var count int64
	require.NoError(t, db.Model(&models.AdminCredential{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestAdminRepository_Snapshot(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u := &models.User{Name: "Ada", Username: "ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, NewUserRepository(db).Create(ctx, u))
	seedArticle(t, NewArticleRepository(db), "t", "ada", 0)
	require.NoError(t, NewEngagementRepository(db).CreateSubscriber(ctx, &models.Subscriber{Email: "s@example.com"}))
	require.NoError(t, NewDiscussionRepository(db).Create(ctx, &models.Discussion{Title: "d", Body: "b", AuthorID: u.ID}))
	notes := NewNotificationRepository(db)
	seen := &models.Notification{Title: "seen", Message: "m"}
	unseen := &models.Notification{Title: "unseen", Message: "m"}
	require.NoError(t, notes.Create(ctx, seen))
	require.NoError(t, notes.Create(ctx, unseen))
	require.NoError(t, notes.MarkViewed(ctx, seen.ID, u.ID))

	snap, err := NewAdminRepository(db).Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Users, 1)
	assert.Len(t, snap.Articles, 1)
	assert.Len(t, snap.Subscribers, 1)
	require.Len(t, snap.Discussions, 1)
	assert.Equal(t, "ada", snap.Discussions[0].Author.Username)
	assert.Empty(t, snap.Proposals)

	// views match what the notification listing reports
	require.Len(t, snap.Notifications, 2)
	assert.Equal(t, []uint{u.ID}, snap.Notifications[0].ViewedBy)
	assert.NotNil(t, snap.Notifications[1].ViewedBy)
	assert.Empty(t, snap.Notifications[1].ViewedBy)
}
