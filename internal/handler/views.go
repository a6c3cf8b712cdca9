package handler

import (
	"errors"
	"net/http"

	"housematch/internal/model"
	"housematch/internal/service"

	"github.com/gin-gonic/gin"
)

// ViewHandler records house view analytics
type ViewHandler struct {
	recommender *service.Recommender
}

// NewViewHandler creates a new view handler
func NewViewHandler(recommender *service.Recommender) *ViewHandler {
	return &ViewHandler{recommender: recommender}
}

// ViewRequest is the body of POST /api/v1/views
type ViewRequest struct {
	UserID  int64 `json:"user_id" binding:"required"`
	HouseID int64 `json:"house_id" binding:"required"`
}

// LogView handles POST /api/v1/views
func (h *ViewHandler) LogView(c *gin.Context) {
	var req ViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.recommender.LogView(c.Request.Context(), req.UserID, req.HouseID); err != nil {
		if errors.Is(err, model.ErrHouseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown house"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record view: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}
