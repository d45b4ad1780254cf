package mock

import (
	"context"

	"github.com/connectpalestine/conecta"
)

// Compile-time interface check
var _ conecta.Mailer = (*Mailer)(nil)

// Mailer is a mock implementation of conecta.Mailer.
type Mailer struct {
	SendWelcomeFn   func(ctx context.Context, to, name string) error
	SendNoticeFn    func(ctx context.Context, n conecta.Notice) error
	SendBroadcastFn func(ctx context.Context, b conecta.Broadcast) error

	// Tracking sent emails for assertions
	SentEmails []SentEmail
}

// SentEmail records details of a sent email for testing assertions.
type SentEmail struct {
	Kind    string
	To      string
	Bcc     []string
	Name    string
	Subject string
	Title   string
	Message string
}

func (m *Mailer) SendWelcome(ctx context.Context, to, name string) error {
	m.SentEmails = append(m.SentEmails, SentEmail{
		Kind: "welcome",
		To:   to,
		Name: name,
	})
	if m.SendWelcomeFn != nil {
		return m.SendWelcomeFn(ctx, to, name)
	}
	return nil
}

func (m *Mailer) SendNotice(ctx context.Context, n conecta.Notice) error {
	m.SentEmails = append(m.SentEmails, SentEmail{
		Kind:    "notice",
		To:      n.To,
		Subject: n.Subject,
		Title:   n.Title,
		Message: n.Message,
	})
	if m.SendNoticeFn != nil {
		return m.SendNoticeFn(ctx, n)
	}
	return nil
}

func (m *Mailer) SendBroadcast(ctx context.Context, b conecta.Broadcast) error {
	m.SentEmails = append(m.SentEmails, SentEmail{
		Kind:    "broadcast",
		To:      conecta.EmailBroadcastTo,
		Bcc:     b.Bcc,
		Subject: b.Subject,
		Title:   b.Title,
		Message: b.Message,
	})
	if m.SendBroadcastFn != nil {
		return m.SendBroadcastFn(ctx, b)
	}
	return nil
}
