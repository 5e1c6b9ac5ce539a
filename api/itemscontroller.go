package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"synapse/assemble"
	"synapse/brain"
	"synapse/embeddings"
	"synapse/scraper"
	"synapse/store"
	"synapse/types"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// htmlSnippetLength bounds the raw-markup context forwarded to the AI.
	htmlSnippetLength = 2000
)

// RegisterItemRoutes registers item CRUD routes.
func (s *Server) RegisterItemRoutes(r *gin.RouterGroup) {
	r.POST("/items", s.handleCreateItem)
	r.GET("/items", s.handleListItems)
	r.GET("/items/tags/all", s.handleAllTags)
	r.GET("/items/:id", s.handleGetItem)
	r.PUT("/items/:id", s.handleUpdateItem)
	r.DELETE("/items/:id", s.handleDeleteItem)
}

type createItemRequest struct {
	Content  string         `json:"content"`
	URL      string         `json:"url"`
	Type     string         `json:"type"`
	Caption  string         `json:"caption"`
	Tags     []string       `json:"tags"`
	Category string         `json:"category"`
	Metadata types.Metadata `json:"metadata"`
}

// handleCreateItem runs the ingestion pipeline for a URL or raw text:
// extract, annotate, assemble, embed, persist.
func (s *Server) handleCreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, s.errorResponse("invalid request body", err))
		return
	}
	if strings.TrimSpace(req.Content) == "" && strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content or url is required"})
		return
	}

	ctx := c.Request.Context()
	user := assemble.UserInput{
		Category: req.Category,
		Caption:  req.Caption,
		Content:  req.Content,
		Tags:     req.Tags,
		URL:      req.URL,
		Metadata: req.Metadata,
	}

	var ext assemble.Extracted
	var ann types.Annotation
	if req.URL != "" {
		res := s.scraper.Scrape(ctx, req.URL)
		ext = assemble.Extracted{
			Text:     res.Text,
			Title:    res.Metadata.Title,
			IsVideo:  scraper.IsVideoURL(req.URL),
			Metadata: metaFromScrape(res.Metadata),
		}
		content := res.Text
		if content == "" {
			content = req.Content
		}
		ann = s.brain.ProcessContent(ctx, content, aiContentType(res.Metadata.Type), brain.Context{
			URL:        req.URL,
			SourceHTML: firstChars(res.HTML, htmlSnippetLength),
			SourceType: types.SourceWeb,
			ImageURL:   res.Metadata.ImageURL,
		})
	} else {
		contentType := req.Type
		if contentType == "" {
			contentType = "note"
		}
		ann = s.brain.ProcessContent(ctx, req.Content, contentType, brain.Context{
			SourceType: types.SourceManual,
		})
	}

	item := assemble.Assemble(ownerID(c), user, ext, ann)
	s.embedItem(ctx, item)

	if err := s.store.Insert(ctx, item); err != nil {
		c.JSON(http.StatusInternalServerError, s.errorResponse("failed to save item", err))
		return
	}
	s.events.ItemCreated(item.ID, item.OwnerID, string(item.Category))

	c.JSON(http.StatusCreated, gin.H{"item": item, "processed": ann})
}

// handleListItems lists with filtering, sorting and pagination. Archived
// items are hidden unless archived=true is passed.
func (s *Server) handleListItems(c *gin.Context) {
	filter := store.Filter{OwnerID: ownerID(c)}

	archived := c.Query("archived") == "true"
	filter.Archived = &archived
	if c.Query("favorite") == "true" {
		favorite := true
		filter.Favorite = &favorite
	}
	if cat := c.Query("category"); cat != "" && types.IsValidCategory(cat) {
		filter.Category = types.NormalizeCategory(cat)
	}
	if tags := c.Query("tags"); tags != "" {
		filter.TagsAny = splitCSV(tags)
	}
	for _, term := range strings.Fields(c.Query("search")) {
		if len(term) > 2 {
			filter.Terms = append(filter.Terms, term)
		}
	}

	limit := intQuery(c, "limit", defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := intQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	sort := store.ParseSort(c.Query("sort"))

	ctx := c.Request.Context()
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, s.errorResponse("failed to list items", err))
		return
	}
	items, err := s.store.Find(ctx, filter, sort, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, s.errorResponse("failed to list items", err))
		return
	}

	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	})
}

// handleGetItem fetches one item and bumps accessedAt.
func (s *Server) handleGetItem(c *gin.Context) {
	ctx := c.Request.Context()
	item, err := s.store.FindOne(ctx, c.Param("id"), ownerID(c))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	if err := s.store.Touch(ctx, item.ID, item.OwnerID); err != nil {
		log.Printf("api: touch failed for %s: %v", item.ID, err)
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

type updateItemRequest struct {
	Title      *string         `json:"title"`
	Caption    *string         `json:"caption"`
	Summary    *string         `json:"summary"`
	Content    *string         `json:"content"`
	Tags       *[]string       `json:"tags"`
	Category   *string         `json:"category"`
	IsPinned   *bool           `json:"isPinned"`
	IsFavorite *bool           `json:"isFavorite"`
	IsArchived *bool           `json:"isArchived"`
	Metadata   *types.Metadata `json:"metadata"`
}

// handleUpdateItem applies a partial update over the allow-listed fields and
// regenerates the embedding when searchable text changed.
func (s *Server) handleUpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, s.errorResponse("invalid request body", err))
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
		return
	}

	patch := store.Patch{
		Title:      req.Title,
		Caption:    req.Caption,
		Summary:    req.Summary,
		Content:    req.Content,
		Tags:       req.Tags,
		IsPinned:   req.IsPinned,
		IsFavorite: req.IsFavorite,
		IsArchived: req.IsArchived,
		Metadata:   req.Metadata,
	}
	if req.Category != nil {
		cat := types.NormalizeCategory(*req.Category)
		patch.Category = &cat
	}

	ctx := c.Request.Context()
	item, err := s.store.Update(ctx, c.Param("id"), ownerID(c), patch)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}

	if s.embedder != nil && (req.Title != nil || req.Summary != nil || req.Content != nil) {
		if vec, err := s.embedder.EmbedDocument(ctx, embeddings.BuildText(item)); err == nil {
			if _, err := s.store.Update(ctx, item.ID, item.OwnerID, store.Patch{Embedding: &vec}); err != nil {
				log.Printf("api: embedding update failed for %s: %v", item.ID, err)
			}
		} else {
			log.Printf("api: re-embedding failed for %s: %v", item.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// handleDeleteItem hard-deletes an item and cleans up any stored file.
func (s *Server) handleDeleteItem(c *gin.Context) {
	ctx := c.Request.Context()
	item, err := s.store.FindOne(ctx, c.Param("id"), ownerID(c))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	if err := s.store.Delete(ctx, item.ID, item.OwnerID); err != nil {
		s.respondStoreError(c, err)
		return
	}

	if name := storedFileName(item); name != "" {
		if err := s.files.Remove(name); err != nil {
			log.Printf("api: file cleanup failed for %s: %v", name, err)
		}
		s.mirror.Delete(ctx, "uploads/"+name)
	}
	s.events.ItemDeleted(item.ID, item.OwnerID)

	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}

// handleAllTags returns the distinct tags across non-archived items.
func (s *Server) handleAllTags(c *gin.Context) {
	archived := false
	tags, err := s.store.DistinctTags(c.Request.Context(), ownerID(c), store.Filter{
		OwnerID:  ownerID(c),
		Archived: &archived,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, s.errorResponse("failed to load tags", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (s *Server) respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, s.errorResponse("storage error", err))
}

func (s *Server) embedItem(ctx context.Context, item *types.Item) {
	if s.embedder == nil {
		return
	}
	vec, err := s.embedder.EmbedDocument(ctx, embeddings.BuildText(item))
	if err != nil {
		log.Printf("api: embedding failed for %s: %v", item.ID, err)
		return
	}
	item.Embedding = vec
}

// metaFromScrape maps extractor metadata into item metadata.
func metaFromScrape(m scraper.Meta) types.Metadata {
	return types.Metadata{
		URL:          m.URL,
		Author:       m.Author,
		SourceName:   m.SiteName,
		DateDetected: m.PublishedAt,
		ImageURL:     m.ImageURL,
		VideoEmbed:   m.VideoEmbed,
		SourceType:   types.SourceWeb,
		Error:        m.Error,
	}
}

// aiContentType collapses the extractor's structural classification into the
// tag set the AI prompt distinguishes.
func aiContentType(scrapeType string) string {
	switch scrapeType {
	case "video", "image":
		return scrapeType
	default:
		return "web"
	}
}

func storedFileName(item *types.Item) string {
	path := item.Metadata.FilePath
	if !strings.HasPrefix(path, "/uploads/") {
		return ""
	}
	return strings.TrimPrefix(path, "/uploads/")
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func firstChars(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
