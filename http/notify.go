package http

import (
	"log/slog"
	"net/http"

	"github.com/connectpalestine/conecta"
	"github.com/labstack/echo/v4"
)

// ResponseEmailRequest is the request payload for a direct response send.
// UserMessage is the message the subscriber originally sent; it is kept for
// correlation in the logs and is never rendered into the email body.
type ResponseEmailRequest struct {
	Subject     string `json:"subject"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	UserEmail   string `json:"userEmail"`
	UserMessage string `json:"userMessage"`
}

func (s *Server) handleResponseEmail(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	var req ResponseEmailRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid request body")
	}

	s.log(c).Info("sending response email",
		slog.String("to", req.UserEmail),
		slog.String("subject", req.Subject),
		slog.String("user_message", req.UserMessage),
	)

	err := s.mailer.SendNotice(ctx, conecta.Notice{
		To:      req.UserEmail,
		Subject: req.Subject,
		Title:   req.Title,
		Message: req.Message,
	})
	if err != nil {
		s.log(c).Error("response email failed",
			slog.String("to", req.UserEmail),
			slog.String("error", err.Error()),
		)
		return respond(c, http.StatusInternalServerError, "error sending email(s)")
	}

	return respond(c, http.StatusOK, "sent successfully")
}

// BroadcastRequest is the request payload for a broadcast send. When Emails
// is empty the recipient set is every current subscriber.
type BroadcastRequest struct {
	Subject string   `json:"subject"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Emails  []string `json:"emails"`
}

func (s *Server) handleSendEmailToAll(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	var req BroadcastRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid request body")
	}

	recipients := req.Emails
	if len(recipients) == 0 {
		var err error
		recipients, err = s.subscriberService.ListEmails(ctx)
		if err != nil {
			s.log(c).Error("failed to resolve broadcast recipients", slog.String("error", err.Error()))
			return respond(c, http.StatusInternalServerError, "error sending email(s)")
		}
	}

	if len(recipients) == 0 {
		s.log(c).Info("broadcast skipped, no recipients")
		return respond(c, http.StatusOK, "nothing to send")
	}

	err := s.mailer.SendBroadcast(ctx, conecta.Broadcast{
		Subject: req.Subject,
		Title:   req.Title,
		Message: req.Message,
		Bcc:     recipients,
	})
	if err != nil {
		s.log(c).Error("broadcast email failed",
			slog.Int("recipient_count", len(recipients)),
			slog.String("error", err.Error()),
		)
		return respond(c, http.StatusInternalServerError, "error sending email(s)")
	}

	s.log(c).Info("broadcast email sent", slog.Int("recipient_count", len(recipients)))
	return respond(c, http.StatusOK, "sent successfully")
}
