package handler

import (
	"errors"
	"net/http"

	"housematch/internal/model"
	"housematch/internal/service"

	"github.com/gin-gonic/gin"
)

// ConversationHandler handles elicitation HTTP requests
type ConversationHandler struct {
	conversation *service.Conversation
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversation *service.Conversation) *ConversationHandler {
	return &ConversationHandler{conversation: conversation}
}

// StartRequest is the body of POST /api/v1/conversation/start
type StartRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// AdvanceRequest is the body of POST /api/v1/conversation/advance
type AdvanceRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Answer string `json:"answer"`
}

// CancelRequest is the body of POST /api/v1/conversation/cancel
type CancelRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// Start handles POST /api/v1/conversation/start
func (h *ConversationHandler) Start(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	turn, err := h.conversation.Start(c.Request.Context(), req.UserID)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, turn)
}

// Advance handles POST /api/v1/conversation/advance
func (h *ConversationHandler) Advance(c *gin.Context) {
	var req AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	turn, err := h.conversation.Advance(c.Request.Context(), req.UserID, req.Answer)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, turn)
}

// Cancel handles POST /api/v1/conversation/cancel
func (h *ConversationHandler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.conversation.Cancel(c.Request.Context(), req.UserID); err != nil {
		writeSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrSessionBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "Another request for this session is in progress"})
	case errors.Is(err, model.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No active conversation for this user"})
	case errors.Is(err, model.ErrSessionExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Conversation expired, start a new one"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Conversation failed: " + err.Error()})
	}
}
