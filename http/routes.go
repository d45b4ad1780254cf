package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes sets up all routes for the server.
// All routes are defined in this single file for easy navigation.
func (s *Server) registerRoutes() {
	// Health and metrics (public)
	s.echo.GET("/health", s.handleHealthCheck)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Subscriber registry
	users := s.echo.Group("/users")
	users.POST("", s.handleRegister)
	users.GET("", s.handleListSubscribers)
	users.GET("/:id", s.handleGetSubscriber)
	users.PATCH("", s.handleUpdateSubscriber)
	users.DELETE("/:id", s.handleDeleteSubscriber)

	// Notification dispatch
	users.POST("/response", s.handleResponseEmail)
	users.POST("/sendEmailToAll", s.handleSendEmailToAll)
}

func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
