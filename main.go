package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"synapse/api"
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

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.NewRedisStore(ctx, store.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer st.Close()
	log.Printf("connected to redis at %s", cfg.RedisAddr)

	var chat brain.ChatClient
	if cfg.CohereAPIKey != "" {
		chat = brain.NewCohereClient(cfg.CohereAPIKey, cfg.CohereModel)
		log.Println("cohere chat enabled")
	} else {
		log.Println("no COHERE_API_KEY set; running with deterministic fallbacks")
	}
	br := brain.New(chat)

	embedder := embeddings.NewProvider(cfg.CohereAPIKey, cfg.OpenAIAPIKey)
	if embedder != nil {
		log.Printf("embeddings enabled (%s)", embedder.ModelName())
	}

	files, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload dir init failed: %v", err)
	}
	mirror, err := storage.NewS3Mirror(ctx, cfg.S3Bucket, cfg.S3Region)
	if err != nil {
		log.Printf("warning: s3 mirror init failed: %v (mirroring disabled)", err)
	}

	producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Printf("warning: kafka init failed: %v (events disabled)", err)
	}
	defer producer.Close()

	server := api.NewServer(api.Deps{
		Config:   cfg,
		Store:    st,
		Brain:    br,
		Scraper:  scraper.New(cfg.YouTubeAPIKey),
		Engine:   search.New(st, br, embedder, search.NewWebSearcher()),
		Reflect:  reflection.New(st, br),
		Files:    files,
		Mirror:   mirror,
		Events:   producer,
		Embedder: embedder,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewRouter(),
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
