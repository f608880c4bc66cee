package v1

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alfaia/alfaia/internal/domain"
)

// PostTurnRequest is one inbound learner message. Audio payloads arrive
// base64-encoded and are transcribed before the orchestrator sees them.
type PostTurnRequest struct {
	TurnID      string `json:"turn_id,omitempty"`
	LearnerKey  string `json:"learner_key"`
	Text        string `json:"text,omitempty"`
	AudioBase64 string `json:"audio_base64,omitempty"`
	Filename    string `json:"filename,omitempty"`
}

// PostTurn handles one learner message and returns the outbound bundle.
// POST /v1/turns
func (h *Handler) PostTurn(c echo.Context) error {
	var req PostTurnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.LearnerKey == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "learner_key is required"})
	}
	if req.Text == "" && req.AudioBase64 == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text or audio_base64 is required"})
	}

	ctx := c.Request().Context()

	in := domain.InboundTurn{
		TurnID:     req.TurnID,
		LearnerKey: req.LearnerKey,
		Modality:   domain.ModalityText,
		Text:       req.Text,
	}

	if req.AudioBase64 != "" {
		audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid audio_base64"})
		}
		text, err := h.service.TranscribeAudio(ctx, audio, req.Filename)
		if err != nil {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
		}
		in.Modality = domain.ModalityAudio
		in.Text = text
	}

	bundle, err := h.service.HandleInboundTurn(ctx, in)
	if err != nil {
		if domain.IsStaleState(err) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, bundle)
}
