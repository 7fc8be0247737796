package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghzx55/graderevive/internal/api"
	"github.com/ghzx55/graderevive/internal/auth"
	"github.com/ghzx55/graderevive/internal/config"
	"github.com/ghzx55/graderevive/internal/db"
	"github.com/ghzx55/graderevive/internal/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("jwt.secret (JWT_SECRET) is required")
	}

	log.Info().Str("version", cfg.App.Version).Msg("Starting account API server")

	database, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.InitSchema(initCtx, database); err != nil {
		cancelInit()
		log.Fatal().Err(err).Msg("Failed to initialize schema")
	}
	cancelInit()

	repo := db.NewRepository(database)
	jwtService := auth.NewJWTService(cfg.JWT)
	handler := api.NewAccountHandler(repo, jwtService, cfg)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.RecoveryMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.CORSMiddleware(cfg.Server.AllowedOrigins))

	api.SetupAccountRoutes(router, handler, jwtService)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.AccountPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.AccountPort).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
