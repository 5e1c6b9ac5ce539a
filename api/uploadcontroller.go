package api

import (
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"synapse/assemble"
	"synapse/brain"
	"synapse/extract"
	"synapse/types"
)

// allowedUploadTypes maps permitted extensions to their MIME type.
var allowedUploadTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
}

// RegisterUploadRoutes registers the multipart upload route.
func (s *Server) RegisterUploadRoutes(r *gin.RouterGroup) {
	r.POST("/upload", s.handleUpload)
}

// handleUpload ingests one uploaded file: validate, store, extract, annotate,
// assemble, persist. The stored file is removed on any failure after the
// write so orphans never accumulate.
func (s *Server) handleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if header.Size > s.cfg.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	mimeType, ok := allowedUploadTypes[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}

	name, path, err := s.files.Save(file, header.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, s.errorResponse("failed to store file", err))
		return
	}
	cleanup := func() {
		s.files.Remove(name)
	}

	ctx := c.Request.Context()
	relPath := s.files.RelPath(name)

	var (
		text        string
		contentType string
		sourceType  types.SourceType
		pageCount   int
		imageData   string
		ocrText     string
	)
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		ocrText = extract.OCR(path)
		text = ocrText
		contentType = "image"
		sourceType = extract.ClassifyImage(ocrText)
		if raw, err := os.ReadFile(path); err == nil {
			imageData = base64.StdEncoding.EncodeToString(raw)
		}
	case ext == ".pdf":
		text, pageCount = extract.PDFText(path)
		contentType = "pdf"
		sourceType = types.SourcePDF
	default:
		text = extract.TextFile(path)
		contentType = "note"
		sourceType = types.SourceNote
	}

	actx := brain.Context{
		FileName:   header.Filename,
		SourceType: sourceType,
		ImageData:  imageData,
		ImageMIME:  mimeType,
		PageCount:  pageCount,
	}
	if contentType == "image" {
		actx.ImageURL = relPath
	}
	ann := s.brain.ProcessContent(ctx, text, contentType, actx)
	if contentType == "image" {
		brain.EnhanceLowConfidence(&ann, ocrText, header.Filename)
	}

	meta := types.Metadata{
		URL:        relPath,
		SourceType: sourceType,
		FileName:   header.Filename,
		FileSize:   header.Size,
		FilePath:   relPath,
		PageCount:  pageCount,
	}
	if contentType == "image" {
		meta.ImageURL = relPath
	}

	user := assemble.UserInput{
		Category: c.PostForm("category"),
		Caption:  c.PostForm("caption"),
		Tags:     splitCSV(c.PostForm("tags")),
	}
	item := assemble.Assemble(ownerID(c), user, assemble.Extracted{
		Text:     text,
		IsUpload: true,
		Metadata: meta,
	}, ann)
	s.embedItem(ctx, item)

	if err := s.store.Insert(ctx, item); err != nil {
		cleanup()
		c.JSON(http.StatusInternalServerError, s.errorResponse("failed to save item", err))
		return
	}

	s.mirror.Put(ctx, path, "uploads/"+name, mimeType)
	s.events.ItemCreated(item.ID, item.OwnerID, string(item.Category))

	c.JSON(http.StatusCreated, gin.H{"item": item, "processed": ann})
}
