// Package v1 provides the HTTP handlers for the tutor API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alfaia/alfaia/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Conversation API
	e.POST("/v1/turns", h.PostTurn)

	// Learner inspection API
	e.GET("/v1/learners/:learner_key", h.GetLearner)
	e.POST("/v1/learners/:learner_key/reset", h.ResetLearner)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
