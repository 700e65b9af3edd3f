package service

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService(t *testing.T) {
	db := setupTestDB(t)
	articles := repository.NewArticleRepository(db)
	svc := NewCommentService(repository.NewCommentRepository(db), articles)
	ctx := context.Background()

	a := &models.Article{Title: "t", Content: "c", Author: "ada"}
	require.NoError(t, articles.Create(ctx, a))

	_, err := svc.CreateComment(ctx, CreateCommentInput{ArticleID: a.ID})
	assertValidationError(t, err)
	_, err = svc.CreateComment(ctx, CreateCommentInput{ArticleID: a.ID, Content: strings.Repeat("c", 5001)})
	assertValidationError(t, err)
	_, err = svc.CreateComment(ctx, CreateCommentInput{ArticleID: 999, Content: "hi"})
	assertCode(t, err, models.CodeNotFound)

	c, err := svc.CreateComment(ctx, CreateCommentInput{ArticleID: a.ID, Content: "nice"})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	list, err := svc.ListComments(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "nice", list[0].Content)

	_, err = svc.ListComments(ctx, 999)
	assertCode(t, err, models.CodeNotFound)
}
