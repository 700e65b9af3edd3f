package service

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscussionService_Thread(t *testing.T) {
	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	svc := NewDiscussionService(repository.NewDiscussionRepository(db))
	ctx := context.Background()

	u := &models.User{Name: "Ada", Username: "ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, users.Create(ctx, u))

	_, err := svc.Create(ctx, CreateDiscussionInput{AuthorID: u.ID, Body: "no title"})
	assertValidationError(t, err)

	d, err := svc.Create(ctx, CreateDiscussionInput{AuthorID: u.ID, Title: "Tabs or spaces", Body: "go fmt decides"})
	require.NoError(t, err)
	assert.Equal(t, "ada", d.Author.Username)

	c, err := svc.Comment(ctx, CreateDiscussionCommentInput{AuthorID: u.ID, DiscussionID: d.ID, Body: "tabs"})
	require.NoError(t, err)

	_, err = svc.Comment(ctx, CreateDiscussionCommentInput{AuthorID: u.ID, DiscussionID: 999, Body: "x"})
	assertCode(t, err, models.CodeNotFound)

	_, err = svc.Reply(ctx, CreateReplyInput{AuthorID: u.ID, DiscussionID: d.ID, CommentID: c.ID, Body: "agreed"})
	require.NoError(t, err)

	other, err := svc.Create(ctx, CreateDiscussionInput{AuthorID: u.ID, Title: "Other", Body: "b"})
	require.NoError(t, err)
	_, err = svc.Reply(ctx, CreateReplyInput{AuthorID: u.ID, DiscussionID: other.ID, CommentID: c.ID, Body: "wrong thread"})
	assertCode(t, err, models.CodeNotFound)

	got, err := svc.Get(ctx, d.ID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentsCount)
	require.Len(t, got.Comments, 1)
	require.Len(t, got.Comments[0].Replies, 1)
	assert.Equal(t, "agreed", got.Comments[0].Replies[0].Body)

	list, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, other.ID, list[0].ID)
	assert.Empty(t, list[0].Comments)
}
