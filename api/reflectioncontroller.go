package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterReflectionRoutes registers digest and stats routes.
func (s *Server) RegisterReflectionRoutes(r *gin.RouterGroup) {
	r.POST("/reflection", s.handleReflection)
	r.GET("/reflection/stats", s.handleStats)
}

type reflectionRequest struct {
	Timeframe string `json:"timeframe"`
}

// handleReflection builds the digest for the requested timeframe.
func (s *Server) handleReflection(c *gin.Context) {
	var req reflectionRequest
	// Body is optional; an empty or absent timeframe defaults to a week.
	_ = c.ShouldBindJSON(&req)

	result, err := s.reflect.Digest(c.Request.Context(), ownerID(c), req.Timeframe)
	if err != nil {
		c.JSON(http.StatusInternalServerError, s.errorResponse("reflection failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"digest":    result.Digest,
		"itemCount": result.ItemCount,
		"timeframe": gin.H{
			"name": result.Timeframe,
			"from": result.From,
			"to":   result.To,
		},
	})
}

// handleStats serves the AI-free aggregate view.
func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.reflect.Stats(c.Request.Context(), ownerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, s.errorResponse("stats failed", err))
		return
	}
	c.JSON(http.StatusOK, stats)
}
