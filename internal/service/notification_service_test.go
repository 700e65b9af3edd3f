package service

import (
	"context"
	"testing"

	"inkwell/internal/featureflags"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publisherStub struct {
	published []*models.Notification
	err       error
}

func (p *publisherStub) PublishNotification(_ context.Context, n *models.Notification) error {
	p.published = append(p.published, n)
	return p.err
}

func TestNotificationService_SendPublishesWhenLive(t *testing.T) {
	db := setupTestDB(t)
	pub := &publisherStub{}
	svc := NewNotificationService(repository.NewNotificationRepository(db), pub, featureflags.NewManager("live_notifications=on"))
	ctx := context.Background()

	_, err := svc.Send(ctx, SendNotificationInput{Title: "", Message: "m"})
	assertValidationError(t, err)

	n, err := svc.Send(ctx, SendNotificationInput{Title: "Release", Message: "v2 is out"})
	require.NoError(t, err)
	require.Len(t, pub.published, 1)
	assert.Equal(t, n.ID, pub.published[0].ID)
}

func TestNotificationService_SendSkipsPublishWhenFlagOff(t *testing.T) {
	db := setupTestDB(t)
	pub := &publisherStub{}
	svc := NewNotificationService(repository.NewNotificationRepository(db), pub, featureflags.NewManager("live_notifications=off"))

	_, err := svc.Send(context.Background(), SendNotificationInput{Title: "t", Message: "m"})
	require.NoError(t, err)
	assert.Empty(t, pub.published)
}

func TestNotificationService_PublishFailureKeepsNotification(t *testing.T) {
	db := setupTestDB(t)
	pub := &publisherStub{err: errRepo}
	svc := NewNotificationService(repository.NewNotificationRepository(db), pub, featureflags.NewManager("live_notifications=on"))
	ctx := context.Background()

	_, err := svc.Send(ctx, SendNotificationInput{Title: "t", Message: "m"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNotificationService_MarkViewedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db), nil, nil)
	ctx := context.Background()

	n, err := svc.Send(ctx, SendNotificationInput{Title: "t", Message: "m"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkViewed(ctx, n.ID, 5))
	require.NoError(t, svc.MarkViewed(ctx, n.ID, 5))
	assertCode(t, svc.MarkViewed(ctx, 999, 5), models.CodeNotFound)
	assertValidationError(t, svc.MarkViewed(ctx, 0, 5))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []uint{5}, list[0].ViewedBy)
}
