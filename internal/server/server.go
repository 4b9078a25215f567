// Package server exposes the persona engine over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talkershq/talkers/internal/chat"
)

// Handlers contains the HTTP handlers for the persona engine.
type Handlers struct {
	engine      *chat.Engine
	turnTimeout time.Duration
}

// NewHandlers creates handlers for the given engine.
func NewHandlers(engine *chat.Engine, turnTimeout time.Duration) *Handlers {
	if turnTimeout <= 0 {
		turnTimeout = 30 * time.Second
	}
	return &Handlers{engine: engine, turnTimeout: turnTimeout}
}

// Router builds the gin engine with all routes registered.
func (h *Handlers) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.POST("/chat", h.HandleChat)
	router.GET("/healthz", h.HandleHealth)
	return router
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// HandleChat runs one conversation turn. Downstream AI or vector-store
// failures still produce a 200 with a fallback reply; only malformed input
// and unknown sessions map to error statuses.
func (h *Handlers) HandleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.turnTimeout)
	defer cancel()

	result, err := h.engine.HandleTurn(ctx, req.SessionID, req.Message)
	switch {
	case errors.Is(err, chat.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, chat.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	case err != nil:
		slog.Error("chat turn failed", "session_id", req.SessionID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
