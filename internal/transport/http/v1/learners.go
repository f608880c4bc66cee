package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetLearner returns a learner's profile and session state.
// GET /v1/learners/:learner_key
func (h *Handler) GetLearner(c echo.Context) error {
	learnerKey := c.Param("learner_key")
	ctx := c.Request().Context()

	info, err := h.service.GetLearnerInfo(ctx, learnerKey)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if info == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "learner not found"})
	}

	return c.JSON(http.StatusOK, info)
}

// ResetLearner rewinds a learner to the start of the journey.
// POST /v1/learners/:learner_key/reset
func (h *Handler) ResetLearner(c echo.Context) error {
	learnerKey := c.Param("learner_key")
	ctx := c.Request().Context()

	if err := h.service.ResetLearner(ctx, learnerKey); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "reset"})
}
