package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/recruiter-assistant/internal/assistant"
	"github.com/spigell/recruiter-assistant/internal/logger"
	"github.com/spigell/recruiter-assistant/internal/utils"
)

const (
	msgMissingChatFields = "Missing required fields: message and session_id"
	msgMissingJD         = "Job description is required"
	msgInvalidBody       = "Request body must be a JSON object"
	msgNotConfigured     = "Service is not configured"
	msgInternal          = "Internal server error"
)

type handler struct {
	deps   Deps
	logger *zap.Logger
}

// chatRequest accepts any history value; stored turns are authoritative.
type chatRequest struct {
	Message      string          `json:"message"`
	SessionID    string          `json:"session_id"`
	SessionIDAlt string          `json:"sessionId"`
	History      json.RawMessage `json:"history"`
}

type analyzeRequest struct {
	JobDescription string `json:"jobDescription"`
}

func (h *handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	sessionID := utils.FirstNonEmpty(req.SessionID, req.SessionIDAlt)
	if err := assistant.CheckChatInput(sessionID, req.Message); err != nil {
		respondError(c, http.StatusBadRequest, msgMissingChatFields)
		return
	}

	if !h.configured(c) {
		return
	}

	log := h.logger.With(zap.String(logger.FieldSession, sessionID))
	if len(req.History) > 0 && string(req.History) != "null" {
		log.Debug("ignoring client supplied history", zap.Int("history_bytes", len(req.History)))
	}

	reply, err := h.deps.Assistant.Chat(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		h.fail(c, log, "chat failed", err)
		return
	}

	c.JSON(http.StatusOK, chatResponse{Response: reply})
}

func (h *handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := assistant.CheckJobDescription(req.JobDescription); err != nil {
		respondError(c, http.StatusBadRequest, msgMissingJD)
		return
	}

	if !h.configured(c) {
		return
	}

	assessment, err := h.deps.Assistant.Assess(c.Request.Context(), req.JobDescription)
	if err != nil {
		h.fail(c, h.logger, "fit assessment failed", err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// configured writes a 500 and returns false when the service was started
// without the credentials it needs.
func (h *handler) configured(c *gin.Context) bool {
	if h.deps.ConfigErr == nil && h.deps.Assistant != nil {
		return true
	}

	err := h.deps.ConfigErr
	if err == nil {
		err = errors.New("assistant is not wired")
	}
	h.logger.Error("rejecting request, service is misconfigured", zap.Error(err))
	respondError(c, http.StatusInternalServerError, msgNotConfigured)
	return false
}

func (h *handler) fail(c *gin.Context, log *zap.Logger, msg string, err error) {
	switch {
	case errors.Is(err, assistant.ErrMissingChatFields):
		respondError(c, http.StatusBadRequest, msgMissingChatFields)
	case errors.Is(err, assistant.ErrMissingJobDescription):
		respondError(c, http.StatusBadRequest, msgMissingJD)
	default:
		log.Error(msg, zap.Error(err))
		respondError(c, http.StatusInternalServerError, msgInternal)
	}
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) ready(c *gin.Context) {
	if h.deps.ConfigErr != nil || h.deps.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "details": "service is not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()
	if err := h.deps.Store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
