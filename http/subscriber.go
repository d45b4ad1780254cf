package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/connectpalestine/conecta"
	"github.com/connectpalestine/conecta/internal/queue"
	"github.com/labstack/echo/v4"
)

// RegisterRequest is the request payload for subscriber registration.
type RegisterRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phoneNumber"`
	Messages    []string `json:"messages"`
}

func (s *Server) handleRegister(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid request body")
	}

	sub, outcome, err := s.subscriberService.RegisterSubscriber(ctx, conecta.Registration{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Messages:    req.Messages,
	})
	if err != nil {
		s.log(c).Error("registration failed",
			slog.String("email", req.Email),
			slog.String("error", err.Error()),
		)
		return respond(c, http.StatusInternalServerError, "error creating user")
	}

	switch outcome {
	case conecta.OutcomeMerged:
		s.log(c).Info("subscriber messages updated", slog.Int64("id", sub.ID))
		return respond(c, http.StatusOK, "messages updated")

	case conecta.OutcomeUnchanged:
		s.log(c).Info("subscriber already registered", slog.Int64("id", sub.ID))
		return respond(c, http.StatusOK, "user already registered")
	}

	// New subscriber: hand the welcome send to the queue. The send's fate
	// is the worker's problem; registration has already succeeded.
	s.enqueueWelcome(c, sub)

	s.log(c).Info("subscriber created",
		slog.Int64("id", sub.ID),
		slog.String("email", sub.Email),
	)
	return respond(c, http.StatusCreated, "user created")
}

// enqueueWelcome queues the welcome email for a new subscriber. Failures are
// logged and dropped; they never change the registration result.
func (s *Server) enqueueWelcome(c echo.Context, sub *conecta.Subscriber) {
	if s.queue == nil {
		return
	}

	payload := map[string]interface{}{
		"email": sub.Email,
		"name":  sub.Name,
	}
	opts := &queue.EnqueueOptions{MaxAttempts: 1}

	if _, err := s.queue.Enqueue(c.Request().Context(), queue.QueueDefault, queue.JobTypeWelcomeEmail, payload, opts); err != nil {
		s.log(c).Error("failed to enqueue welcome email",
			slog.String("email", sub.Email),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Server) handleListSubscribers(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	subs, err := s.subscriberService.FindSubscribers(ctx)
	if err != nil {
		s.log(c).Error("failed to list subscribers", slog.String("error", err.Error()))
		return respond(c, http.StatusInternalServerError, "error fetching users")
	}

	return respondData(c, http.StatusOK, "users fetched successfully", subs)
}

func (s *Server) handleGetSubscriber(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, http.StatusBadRequest, "invalid id")
	}

	sub, err := s.subscriberService.FindSubscriberByID(ctx, id)
	if err != nil {
		if conecta.IsErrorCode(err, conecta.ENOTFOUND) {
			// Absence is not an error here: report missing data.
			var none *conecta.Subscriber
			return respondData(c, http.StatusOK, "user fetched successfully", none)
		}
		s.log(c).Error("failed to fetch subscriber",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return respond(c, http.StatusInternalServerError, "error fetching user")
	}

	return respondData(c, http.StatusOK, "user fetched successfully", sub)
}

// UpdateRequest is the request payload for updating a subscriber's contact
// fields. Messages and createdAt cannot be changed through this endpoint.
type UpdateRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

func (s *Server) handleUpdateSubscriber(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid request body")
	}

	_, err := s.subscriberService.UpdateSubscriber(ctx, req.ID, conecta.SubscriberUpdate{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		s.log(c).Error("failed to update subscriber",
			slog.Int64("id", req.ID),
			slog.String("error", err.Error()),
		)
		return respond(c, http.StatusInternalServerError, "error updating user")
	}

	return respond(c, http.StatusOK, "user updated successfully")
}

func (s *Server) handleDeleteSubscriber(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respond(c, http.StatusBadRequest, "invalid id")
	}

	if err := s.subscriberService.DeleteSubscriber(ctx, id); err != nil {
		s.log(c).Error("failed to delete subscriber",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return respond(c, http.StatusInternalServerError, "error deleting user")
	}

	return respond(c, http.StatusOK, "user deleted successfully")
}
