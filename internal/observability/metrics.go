// Package observability provides domain metrics and tracing setup.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ArticleViews counts article reads that incremented a view counter.
	ArticleViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_article_views_total",
		Help: "Total number of counted article views",
	})

	// OTPEvents counts OTP lifecycle events by outcome
	// (sent, verified, mismatch, expired).
	OTPEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_otp_events_total",
		Help: "OTP events by outcome",
	}, []string{"outcome"})

	// MailDeliveries counts outbound mail by kind and result.
	MailDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_mail_deliveries_total",
		Help: "Outbound emails by kind and result",
	}, []string{"kind", "result"})

	// AuthAttempts counts login attempts by principal and result.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_auth_attempts_total",
		Help: "Authentication attempts by principal and result",
	}, []string{"principal", "result"})

	// NotificationsBroadcast counts notifications fanned out to live clients.
	NotificationsBroadcast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_notifications_broadcast_total",
		Help: "Total number of notifications published for live delivery",
	})

	// WebSocketBackpressureDrops counts messages dropped for slow clients.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"reason"})
)
