package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghzx55/graderevive/internal/api"
	"github.com/ghzx55/graderevive/internal/config"
	"github.com/ghzx55/graderevive/internal/logger"
	"github.com/ghzx55/graderevive/internal/session"
	"github.com/ghzx55/graderevive/internal/storage"
	"github.com/ghzx55/graderevive/internal/transcript"
	"github.com/ghzx55/graderevive/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting calculator API server")

	// Initialize session store
	store, closeStore, err := session.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Session.Backend).Msg("Failed to initialize session store")
	}
	defer closeStore()

	// Optional upload archive
	var archive *storage.TranscriptArchive
	var pool *worker.WorkerPool
	if cfg.Storage.S3.Enabled {
		s3Storage, err := storage.NewS3Storage(cfg.Storage.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		archive = storage.NewTranscriptArchive(s3Storage, cfg.Storage.S3.Prefix)

		pool = worker.NewWorkerPool(cfg.Storage.ArchiveWorkers)
		pool.Start(context.Background())
	}

	handler := api.NewHandler(store, transcript.NewFileStrategy(), archive, cfg)
	if pool != nil {
		handler.UseWorkerPool(pool)
	}

	// Setup Gin router
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.RecoveryMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.CORSMiddleware(cfg.Server.AllowedOrigins))

	api.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if pool != nil {
		pool.Stop()
	}

	log.Info().Msg("Server exited")
}
