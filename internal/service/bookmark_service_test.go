package service

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarkService(t *testing.T) {
	db := setupTestDB(t)
	articles := repository.NewArticleRepository(db)
	svc := NewBookmarkService(repository.NewBookmarkRepository(db), articles)
	ctx := context.Background()

	a := &models.Article{Title: "t", Content: "c", Author: "ada"}
	require.NoError(t, articles.Create(ctx, a))

	list, err := svc.Add(ctx, BookmarkInput{UserID: 1, ArticleID: a.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)

	t.Run("duplicate leaves list unchanged", func(t *testing.T) {
		_, err := svc.Add(ctx, BookmarkInput{UserID: 1, TargetUserID: 1, ArticleID: a.ID})
		assertCode(t, err, models.CodeConflict)
		list, err := svc.List(ctx, 1, 1)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("unknown article", func(t *testing.T) {
		_, err := svc.Add(ctx, BookmarkInput{UserID: 1, ArticleID: 999})
		assertCode(t, err, models.CodeNotFound)
	})

	t.Run("zero article id", func(t *testing.T) {
		_, err := svc.Add(ctx, BookmarkInput{UserID: 1})
		assertValidationError(t, err)
	})

	t.Run("other user's bookmarks", func(t *testing.T) {
		_, err := svc.Add(ctx, BookmarkInput{UserID: 1, TargetUserID: 2, ArticleID: a.ID})
		assertForbiddenError(t, err)
		_, err = svc.List(ctx, 1, 2)
		assertForbiddenError(t, err)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		list, err := svc.Remove(ctx, BookmarkInput{UserID: 1, ArticleID: a.ID})
		require.NoError(t, err)
		assert.Empty(t, list)
		_, err = svc.Remove(ctx, BookmarkInput{UserID: 1, ArticleID: a.ID})
		assert.NoError(t, err)
	})
}
