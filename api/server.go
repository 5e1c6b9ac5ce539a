// Package api exposes the HTTP surface: item CRUD, uploads, search,
// reflection. Every route except /health is owner-scoped via bearer auth.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"synapse/brain"
	"synapse/config"
	"synapse/embeddings"
	"synapse/events"
	"synapse/reflection"
	"synapse/scraper"
	"synapse/search"
	"synapse/storage"
	"synapse/store"
)

// Server holds the constructed service handles the controllers use.
// Everything is injected at startup; handlers never construct clients.
type Server struct {
	cfg      config.Config
	store    store.Store
	brain    *brain.Brain
	scraper  *scraper.Scraper
	engine   *search.Engine
	reflect  *reflection.Engine
	files    *storage.FileStore
	mirror   *storage.S3Mirror
	events   *events.Producer
	embedder embeddings.Provider
}

// Deps bundles the server's collaborators. Mirror, events and embedder may
// be nil; the corresponding features are skipped.
type Deps struct {
	Config   config.Config
	Store    store.Store
	Brain    *brain.Brain
	Scraper  *scraper.Scraper
	Engine   *search.Engine
	Reflect  *reflection.Engine
	Files    *storage.FileStore
	Mirror   *storage.S3Mirror
	Events   *events.Producer
	Embedder embeddings.Provider
}

// NewServer builds the server from its dependencies.
func NewServer(d Deps) *Server {
	return &Server{
		cfg:      d.Config,
		store:    d.Store,
		brain:    d.Brain,
		scraper:  d.Scraper,
		engine:   d.Engine,
		reflect:  d.Reflect,
		files:    d.Files,
		mirror:   d.Mirror,
		events:   d.Events,
		embedder: d.Embedder,
	}
}

// NewRouter constructs a Gin engine with registered routes.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterHealthRoutes(r)
	r.Static("/uploads", s.cfg.UploadDir)

	authed := r.Group("/", RequireAuth(s.cfg.JWTSecret))
	s.RegisterItemRoutes(authed)
	s.RegisterUploadRoutes(authed)
	s.RegisterSearchRoutes(authed)
	s.RegisterReflectionRoutes(authed)
	return r
}

// RegisterHealthRoutes registers the unauthenticated health check.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

// errorResponse builds the structured error payload. Internal detail rides
// along only in development mode.
func (s *Server) errorResponse(message string, err error) gin.H {
	resp := gin.H{"error": message}
	if err != nil && s.cfg.Env == "development" {
		resp["detail"] = err.Error()
	}
	return resp
}
