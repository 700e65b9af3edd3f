package service

import (
	"context"
	"log/slog"
	"strings"

	"inkwell/internal/featureflags"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const (
	maxNotificationTitleLen   = 200
	maxNotificationMessageLen = 2000
)

// NotificationPublisher fans a stored notification out to live clients.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, n *models.Notification) error
}

type NotificationService struct {
	repo      repository.NotificationRepository
	publisher NotificationPublisher
	flags     *featureflags.Manager
}

type SendNotificationInput struct {
	Title   string
	Message string
}

func NewNotificationService(repo repository.NotificationRepository, publisher NotificationPublisher, flags *featureflags.Manager) *NotificationService {
	return &NotificationService{
		repo:      repo,
		publisher: publisher,
		flags:     flags,
	}
}

// Send stores the notification and, when live delivery is on, publishes it.
// A publish failure is logged; the notification stays stored.
func (s *NotificationService) Send(ctx context.Context, in SendNotificationInput) (*models.Notification, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := checkText("title", in.Title, maxNotificationTitleLen); err != nil {
		return nil, err
	}
	if err := checkText("message", in.Message, maxNotificationMessageLen); err != nil {
		return nil, err
	}

	n := &models.Notification{Title: in.Title, Message: in.Message, ViewedBy: []uint{}}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if s.publisher != nil && s.flags.On(featureflags.LiveNotifications) {
		if err := s.publisher.PublishNotification(ctx, n); err != nil {
			middleware.Logger.WarnContext(ctx, "notification publish failed",
				slog.Uint64("notification_id", uint64(n.ID)),
				slog.String("error", err.Error()),
			)
		}
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context) ([]*models.Notification, error) {
	return s.repo.List(ctx)
}

// MarkViewed records that userID saw the notification. Repeats are no-ops.
func (s *NotificationService) MarkViewed(ctx context.Context, notificationID, userID uint) error {
	if notificationID == 0 {
		return models.NewValidationError("notificationId must be a positive integer")
	}
	if _, err := s.repo.GetByID(ctx, notificationID); err != nil {
		return err
	}
	return s.repo.MarkViewed(ctx, notificationID, userID)
}
