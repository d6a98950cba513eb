package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	sitesage "github.com/sitesage/sitesage"
	"github.com/sitesage/sitesage/pkg/telemetry"
)

// Answerer is the slice of the pipeline the chat endpoint needs.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// ChatHandler handles chat requests.
type ChatHandler struct {
	answerer Answerer
	recorder *telemetry.Recorder
	logger   *slog.Logger
}

// NewChatHandler creates a chat handler. recorder may be nil.
func NewChatHandler(answerer Answerer, recorder *telemetry.Recorder, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{answerer: answerer, recorder: recorder, logger: logger}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat handles POST /api/chat. A blank message is a 400; every pipeline
// failure is a generic 500 with the detail kept server-side.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
		return
	}

	start := time.Now()
	answer, err := h.answerer.Answer(c.Request.Context(), req.Message)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, sitesage.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
			return
		}

		h.logger.Error("chat pipeline failed", "error", err, "elapsed", elapsed)
		h.recorder.Record(telemetry.QueryRecord{
			Query:         req.Message,
			LatencyMillis: elapsed.Milliseconds(),
			Error:         err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.recorder.Record(telemetry.QueryRecord{
		Query:         req.Message,
		LatencyMillis: elapsed.Milliseconds(),
	})
	c.JSON(http.StatusOK, chatResponse{Response: answer})
}
