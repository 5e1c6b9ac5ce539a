package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"synapse/store"
)

const maxSuggestions = 10

// RegisterSearchRoutes registers search routes.
func (s *Server) RegisterSearchRoutes(r *gin.RouterGroup) {
	r.POST("/search", s.handleSearch)
	r.GET("/search/suggestions", s.handleSuggestions)
}

type searchRequest struct {
	Query string `json:"query"`
}

// handleSearch runs the full retrieval pipeline for one query.
func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search query is required"})
		return
	}

	resp, err := s.engine.Search(c.Request.Context(), ownerID(c), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, s.errorResponse("search failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":       req.Query,
		"parsed":      resp.Parsed,
		"results":     resp.Results,
		"count":       resp.Count,
		"aiInsights":  resp.AIInsights,
		"searchedWeb": resp.SearchedWeb,
		"webResults":  resp.WebResults,
	})
}

type suggestion struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Category string `json:"category,omitempty"`
}

// handleSuggestions serves incremental-search completion: matching tags
// first, then up to five title matches, capped at ten combined.
func (s *Server) handleSuggestions(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusOK, gin.H{"suggestions": []suggestion{}})
		return
	}

	ctx := c.Request.Context()
	owner := ownerID(c)
	archived := false

	tags, err := s.store.DistinctTags(ctx, owner, store.Filter{
		OwnerID:    owner,
		Archived:   &archived,
		TagPattern: q,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, s.errorResponse("suggestions failed", err))
		return
	}

	suggestions := make([]suggestion, 0, maxSuggestions)
	for _, tag := range tags {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, suggestion{Type: "tag", Value: tag})
	}

	if len(suggestions) < maxSuggestions {
		items, err := s.store.Find(ctx, store.Filter{
			OwnerID:      owner,
			Archived:     &archived,
			TitlePattern: q,
		}, store.Sort{Field: "createdAt", Desc: true}, 5, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, s.errorResponse("suggestions failed", err))
			return
		}
		for _, item := range items {
			if len(suggestions) == maxSuggestions {
				break
			}
			suggestions = append(suggestions, suggestion{
				Type:     "item",
				Value:    item.Title,
				Category: string(item.Category),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
