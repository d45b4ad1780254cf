package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/connectpalestine/conecta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleResponseEmail(t *testing.T) {
	ts := newTestServer()

	rec, env := ts.do(t, http.MethodPost, "/users/response", map[string]any{
		"subject":     "Re: your question",
		"title":       "Hola Amira",
		"message":     "Gracias por escribirnos.\nTe respondemos pronto.",
		"userEmail":   "amira@example.org",
		"userMessage": "original question",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sent successfully", env.Message)

	require.Len(t, ts.mailer.SentEmails, 1)
	sent := ts.mailer.SentEmails[0]
	assert.Equal(t, "notice", sent.Kind)
	assert.Equal(t, "amira@example.org", sent.To)
	assert.Equal(t, "Re: your question", sent.Subject)
	assert.Equal(t, "Hola Amira", sent.Title)
	assert.Equal(t, "Gracias por escribirnos.\nTe respondemos pronto.", sent.Message)
}

func TestHandleResponseEmail_ProviderFailure(t *testing.T) {
	ts := newTestServer()

	ts.mailer.SendNoticeFn = func(ctx context.Context, n conecta.Notice) error {
		return conecta.Internal("Failed to send email", assert.AnError)
	}

	rec, env := ts.do(t, http.MethodPost, "/users/response", map[string]any{
		"subject":   "Re: your question",
		"title":     "Hola",
		"message":   "body",
		"userEmail": "amira@example.org",
	})

	// Provider failures surface as the uniform send error.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error sending email(s)", env.Message)
}

func TestHandleSendEmailToAll_ExplicitRecipients(t *testing.T) {
	ts := newTestServer()

	// The registry must not be consulted when recipients are given.
	ts.subscribers.ListEmailsFn = func(ctx context.Context) ([]string, error) {
		t.Fatal("ListEmails should not be called")
		return nil, nil
	}

	rec, env := ts.do(t, http.MethodPost, "/users/sendEmailToAll", map[string]any{
		"subject": "Newsletter",
		"title":   "Novedades",
		"message": "linea uno\nlinea dos",
		"emails":  []string{"a@x.com", "b@x.com"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sent successfully", env.Message)

	require.Len(t, ts.mailer.SentEmails, 1)
	sent := ts.mailer.SentEmails[0]
	assert.Equal(t, "broadcast", sent.Kind)
	assert.Equal(t, conecta.EmailBroadcastTo, sent.To)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, sent.Bcc)
}

func TestHandleSendEmailToAll_ResolvesFromRegistry(t *testing.T) {
	ts := newTestServer()

	ts.subscribers.ListEmailsFn = func(ctx context.Context) ([]string, error) {
		return []string{"a@x.com", "b@x.com", "c@x.com"}, nil
	}

	rec, env := ts.do(t, http.MethodPost, "/users/sendEmailToAll", map[string]any{
		"subject": "Newsletter",
		"title":   "Novedades",
		"message": "hola",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sent successfully", env.Message)

	require.Len(t, ts.mailer.SentEmails, 1)
	assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, ts.mailer.SentEmails[0].Bcc)
}

func TestHandleSendEmailToAll_NothingToSend(t *testing.T) {
	ts := newTestServer()

	// Default mock returns an empty registry.
	rec, env := ts.do(t, http.MethodPost, "/users/sendEmailToAll", map[string]any{
		"subject": "Newsletter",
		"title":   "Novedades",
		"message": "hola",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nothing to send", env.Message)
	assert.Empty(t, ts.mailer.SentEmails)
}

func TestHandleSendEmailToAll_RegistryFailure(t *testing.T) {
	ts := newTestServer()

	ts.subscribers.ListEmailsFn = func(ctx context.Context) ([]string, error) {
		return nil, conecta.Internal("Failed to list emails", assert.AnError)
	}

	rec, env := ts.do(t, http.MethodPost, "/users/sendEmailToAll", map[string]any{
		"subject": "Newsletter",
		"title":   "Novedades",
		"message": "hola",
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error sending email(s)", env.Message)
	assert.Empty(t, ts.mailer.SentEmails)
}

func TestHandleSendEmailToAll_ProviderFailure(t *testing.T) {
	ts := newTestServer()

	ts.mailer.SendBroadcastFn = func(ctx context.Context, b conecta.Broadcast) error {
		return conecta.Internal("Failed to send email", assert.AnError)
	}

	rec, env := ts.do(t, http.MethodPost, "/users/sendEmailToAll", map[string]any{
		"subject": "Newsletter",
		"title":   "Novedades",
		"message": "hola",
		"emails":  []string{"a@x.com"},
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error sending email(s)", env.Message)
}
