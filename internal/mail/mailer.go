// Package mail delivers transactional email (OTP codes, deletion requests).
// Delivery is synchronous: callers block until the provider accepts or
// rejects the message.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/middleware"
	"inkwell/internal/observability"

	gomail "github.com/wneessen/go-mail"
	"go.opentelemetry.io/otel/attribute"
)

// SendTimeout bounds a single delivery attempt.
const SendTimeout = 15 * time.Second

// Message kinds, used as a metrics label.
const (
	KindOTP             = "otp"
	KindDeletionRequest = "deletion_request"
)

// Message is a plain-text email.
type Message struct {
	Kind    string
	To      string
	Subject string
	Body    string
}

// Mailer sends a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer when SMTP_HOST is configured, otherwise a
// mailer that only logs.
func New(cfg *config.Config) Mailer {
	if cfg == nil || cfg.SMTPHost == "" {
		return &LogMailer{ShowBody: cfg != nil && (cfg.Env == "development" || cfg.Env == "test")}
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

// SMTPMailer delivers through an SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func (m *SMTPMailer) build(msg Message) (*gomail.Msg, error) {
	out := gomail.NewMsg()
	if err := out.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return out, nil
}

func (m *SMTPMailer) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(SendTimeout),
	}
	if m.port > 0 {
		opts = append(opts, gomail.WithPort(m.port))
	}
	if m.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.username),
			gomail.WithPassword(m.password),
		)
	}
	return gomail.NewClient(m.host, opts...)
}

// Send dials the relay and delivers msg.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) (err error) {
	ctx, span := observability.StartSpan(ctx, "mail", "send", attribute.String("mail.kind", msg.Kind))
	defer func() { observability.EndSpan(span, err) }()

	ctx, cancel := context.WithTimeout(ctx, SendTimeout)
	defer cancel()

	out, err := m.build(msg)
	if err != nil {
		observability.MailDeliveries.WithLabelValues(msg.Kind, "invalid").Inc()
		return err
	}
	c, err := m.client()
	if err != nil {
		observability.MailDeliveries.WithLabelValues(msg.Kind, "failed").Inc()
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, out); err != nil {
		observability.MailDeliveries.WithLabelValues(msg.Kind, "failed").Inc()
		return fmt.Errorf("smtp send: %w", err)
	}

	observability.MailDeliveries.WithLabelValues(msg.Kind, "sent").Inc()
	return nil
}

// LogMailer writes messages to the structured log instead of sending them.
// With ShowBody set, the body (which may carry a one-time code) is logged at
// debug level; New enables it for development and test configs.
type LogMailer struct {
	Logger   *slog.Logger
	ShowBody bool
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	logger := m.Logger
	if logger == nil {
		logger = middleware.Logger
	}
	attrs := []any{
		slog.String("kind", msg.Kind),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	}
	logger.InfoContext(ctx, "mail delivery skipped (no SMTP_HOST)", attrs...)
	if m.ShowBody {
		logger.DebugContext(ctx, "mail body", append(attrs, slog.String("body", msg.Body))...)
	}
	observability.MailDeliveries.WithLabelValues(msg.Kind, "logged").Inc()
	return nil
}
