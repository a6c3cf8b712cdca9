package handler

import (
	"net/http"
	"strconv"

	"housematch/internal/service"

	"github.com/gin-gonic/gin"
)

// RecommendationHandler handles recommendation HTTP requests
type RecommendationHandler struct {
	recommender *service.Recommender
	mockSeed    int64
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommender *service.Recommender, mockSeed int64) *RecommendationHandler {
	return &RecommendationHandler{recommender: recommender, mockSeed: mockSeed}
}

// Mock handles GET /api/v1/recommendations/mock
func (h *RecommendationHandler) Mock(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a positive integer"})
		return
	}

	seed := h.mockSeed
	if s := c.Query("seed"); s != "" {
		seed, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "seed must be an integer"})
			return
		}
	}

	limit := 0
	if l := c.Query("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
	}

	result, err := h.recommender.GetMockRecommendations(c.Request.Context(), userID, seed, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Recommendation failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
