package http

import (
	"github.com/labstack/echo/v4"
)

// Envelope is the JSON envelope returned by every endpoint: a numeric
// HTTP-style status, a human-readable message, and an optional payload.
// The transport status code mirrors Status.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// respond sends an envelope without a data payload.
func respond(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Status: status, Message: message})
}

// respondData sends an envelope carrying a payload. A typed nil pointer is
// serialized as an explicit "data": null, which is how absence of a record
// is reported.
func respondData(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Status: status, Message: message, Data: data})
}
