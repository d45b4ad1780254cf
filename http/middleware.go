package http

import (
	"log/slog"
	"net/http"
	"time"

	internalmw "github.com/connectpalestine/conecta/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// registerMiddleware sets up all middleware for the server.
func (s *Server) registerMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Logger middleware with request ID
	s.echo.Use(s.requestLoggerMiddleware())

	// Prometheus metrics
	s.echo.Use(internalmw.Metrics())

	// CORS middleware (configure as needed)
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
}

// requestLoggerMiddleware creates a middleware that logs requests with context.
func (s *Server) requestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			// Create request-scoped logger
			logger := s.logger.With(
				slog.String("request_id", requestID),
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
			)
			c.Set("logger", logger)

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			logAttrs := []any{
				slog.Int("status", status),
				slog.Duration("duration", duration),
			}

			if err != nil {
				logAttrs = append(logAttrs, slog.String("error", err.Error()))
				logger.Error("request failed", logAttrs...)
			} else if status >= 500 {
				logger.Error("request completed with server error", logAttrs...)
			} else if status >= 400 {
				logger.Warn("request completed with client error", logAttrs...)
			} else {
				logger.Info("request completed", logAttrs...)
			}

			return err
		}
	}
}

// log returns the request-scoped logger.
func (s *Server) log(c echo.Context) *slog.Logger {
	if logger, ok := c.Get("logger").(*slog.Logger); ok {
		return logger
	}
	return s.logger
}
