// Package email implements the conecta.Mailer interface with Postmark and
// mock providers.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/connectpalestine/conecta"
	"github.com/keighl/postmark"
)

// NewMailer creates a mailer based on the provider configuration.
func NewMailer(logger *slog.Logger, config conecta.EmailConfig) conecta.Mailer {
	switch config.Provider {
	case "postmark":
		return newPostmarkMailer(logger, config)
	default:
		return newMockMailer(logger, config)
	}
}

// mockMailer logs emails instead of sending them.
type mockMailer struct {
	logger *slog.Logger
	config conecta.EmailConfig
}

func newMockMailer(logger *slog.Logger, config conecta.EmailConfig) *mockMailer {
	return &mockMailer{
		logger: logger,
		config: config,
	}
}

func (m *mockMailer) SendWelcome(ctx context.Context, to, name string) error {
	m.logger.Info("📧 MOCK EMAIL: welcome",
		slog.String("to", to),
		slog.String("name", name),
		slog.String("subject", WelcomeSubject),
	)
	emailsSent.WithLabelValues("welcome").Inc()
	return nil
}

func (m *mockMailer) SendNotice(ctx context.Context, n conecta.Notice) error {
	m.logger.Info("📧 MOCK EMAIL: notice",
		slog.String("to", n.To),
		slog.String("subject", n.Subject),
		slog.String("title", n.Title),
	)
	emailsSent.WithLabelValues("notice").Inc()
	return nil
}

func (m *mockMailer) SendBroadcast(ctx context.Context, b conecta.Broadcast) error {
	m.logger.Info("📧 MOCK EMAIL: broadcast",
		slog.String("to", conecta.EmailBroadcastTo),
		slog.Int("bcc_count", len(b.Bcc)),
		slog.String("subject", b.Subject),
	)
	emailsSent.WithLabelValues("broadcast").Inc()
	return nil
}

// postmarkMailer sends emails via Postmark.
type postmarkMailer struct {
	client *postmark.Client
	logger *slog.Logger
	config conecta.EmailConfig
}

func newPostmarkMailer(logger *slog.Logger, config conecta.EmailConfig) *postmarkMailer {
	client := postmark.NewClient(config.PostmarkServerToken, "")
	return &postmarkMailer{
		client: client,
		logger: logger,
		config: config,
	}
}

// fromLine is the fixed sender of every outbound email.
func fromLine() string {
	return fmt.Sprintf("%s <%s>", conecta.EmailFromName, conecta.EmailFromAddress)
}

func (m *postmarkMailer) SendWelcome(ctx context.Context, to, name string) error {
	msg := postmark.Email{
		From:     fromLine(),
		To:       to,
		Subject:  WelcomeSubject,
		HtmlBody: renderWelcomeBody(name, m.config.AssetBaseURL),
		Tag:      "welcome",
	}

	if _, err := m.client.SendEmail(msg); err != nil {
		emailsFailed.WithLabelValues("welcome").Inc()
		m.logger.Error("failed to send welcome email via Postmark",
			slog.String("to", to),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	emailsSent.WithLabelValues("welcome").Inc()
	m.logger.Info("welcome email sent via Postmark", slog.String("to", to))
	return nil
}

func (m *postmarkMailer) SendNotice(ctx context.Context, n conecta.Notice) error {
	msg := postmark.Email{
		From:     fromLine(),
		To:       n.To,
		Subject:  n.Subject,
		HtmlBody: renderBody(n.Title, n.Message, m.config.AssetBaseURL),
		Tag:      "notice",
	}

	if _, err := m.client.SendEmail(msg); err != nil {
		emailsFailed.WithLabelValues("notice").Inc()
		m.logger.Error("failed to send notice email via Postmark",
			slog.String("to", n.To),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send notice email: %w", err)
	}

	emailsSent.WithLabelValues("notice").Inc()
	m.logger.Info("notice email sent via Postmark", slog.String("to", n.To))
	return nil
}

func (m *postmarkMailer) SendBroadcast(ctx context.Context, b conecta.Broadcast) error {
	msg := postmark.Email{
		From:     fromLine(),
		To:       conecta.EmailBroadcastTo,
		Bcc:      strings.Join(b.Bcc, ","),
		Subject:  b.Subject,
		HtmlBody: renderBody(b.Title, b.Message, m.config.AssetBaseURL),
		Tag:      "broadcast",
	}

	if _, err := m.client.SendEmail(msg); err != nil {
		emailsFailed.WithLabelValues("broadcast").Inc()
		m.logger.Error("failed to send broadcast email via Postmark",
			slog.Int("bcc_count", len(b.Bcc)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send broadcast email: %w", err)
	}

	emailsSent.WithLabelValues("broadcast").Inc()
	m.logger.Info("broadcast email sent via Postmark", slog.Int("bcc_count", len(b.Bcc)))
	return nil
}
