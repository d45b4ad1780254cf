// Package http provides the HTTP surface of the service, backed by echo.
package http

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/connectpalestine/conecta"
	"github.com/connectpalestine/conecta/internal/queue"
	"github.com/labstack/echo/v4"
)

// DefaultTimeout bounds database and email operations inside a handler.
const DefaultTimeout = 15 * time.Second

// Server represents the HTTP server with all its dependencies.
type Server struct {
	echo   *echo.Echo
	ln     net.Listener
	logger *slog.Logger

	// Configuration
	Addr string

	// Domain services
	subscriberService conecta.SubscriberService

	// External services
	mailer conecta.Mailer
	queue  queue.Queue
}

// Config holds the configuration for creating a new Server.
type Config struct {
	Addr   string
	Logger *slog.Logger

	SubscriberService conecta.SubscriberService
	Mailer            conecta.Mailer
	Queue             queue.Queue
}

// NewServer creates a new HTTP server with the given configuration.
func NewServer(cfg Config) *Server {
	s := &Server{
		Addr:              cfg.Addr,
		logger:            cfg.Logger,
		subscriberService: cfg.SubscriberService,
		mailer:            cfg.Mailer,
		queue:             cfg.Queue,
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true

	s.registerMiddleware()
	s.registerRoutes()

	return s
}

// Echo returns the underlying Echo instance.
// Use sparingly - prefer registering routes through Server methods.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Open starts the HTTP server.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.echo.Server.Serve(s.ln); err != nil {
			s.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	s.logger.Info("server started", slog.String("addr", s.Addr))
	return nil
}

// Close gracefully shuts down the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// URL returns the URL of the server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// withTimeout creates a context with a timeout for handler operations.
func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), DefaultTimeout)
}
