// Package notifications delivers admin broadcast notifications to connected
// WebSocket clients through Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/redis/go-redis/v9"
)

// BroadcastChannel carries every notification to every API instance.
const BroadcastChannel = "notifications:broadcast"

// EventNotification is the Event.Type of a new notification.
const EventNotification = "notification"

// Event is the JSON envelope written to WebSocket clients.
type Event struct {
	Type    string               `json:"type"`
	Payload *models.Notification `json:"payload"`
}

// Notifier publishes notifications into Redis. Without Redis it hands the
// payload straight to the local fallback, if any.
type Notifier struct {
	rdb      *redis.Client
	fallback func(payload string)
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// WithFallback sets the in-process delivery used when Redis is unavailable.
func (n *Notifier) WithFallback(fn func(payload string)) *Notifier {
	n.fallback = fn
	return n
}

// PublishNotification encodes n as an Event and broadcasts it.
func (n *Notifier) PublishNotification(ctx context.Context, notification *models.Notification) error {
	data, err := json.Marshal(Event{Type: EventNotification, Payload: notification})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := n.PublishBroadcast(ctx, string(data)); err != nil {
		return err
	}
	observability.NotificationsBroadcast.Inc()
	return nil
}

// PublishBroadcast sends a raw payload to all connected clients.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if n.rdb == nil {
		if n.fallback != nil {
			n.fallback(payload)
		}
		return nil
	}
	return n.rdb.Publish(ctx, BroadcastChannel, payload).Err()
}

// StartSubscriber subscribes to BroadcastChannel and calls onMessage for each
// payload until ctx is cancelled. It returns once the subscription is
// confirmed.
func (n *Notifier) StartSubscriber(ctx context.Context, onMessage func(payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, BroadcastChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", BroadcastChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in notification subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
