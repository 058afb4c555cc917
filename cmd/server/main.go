package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/prawko/practice-backend/internal/catalog"
	"github.com/prawko/practice-backend/internal/config"
	"github.com/prawko/practice-backend/internal/handler"
	"github.com/prawko/practice-backend/internal/logger"
	"github.com/prawko/practice-backend/internal/router"
	"github.com/prawko/practice-backend/internal/service"
	"github.com/prawko/practice-backend/internal/store"
	"github.com/prawko/practice-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Msg("Starting Prawko practice backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Persistent Store ─────────────────────────────────────────
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open persistent store")
	}
	defer st.Close()

	// ─── Load Question Catalog ─────────────────────────────────────────
	// The catalog is immutable for the process lifetime. Failure to load
	// is fatal: there is no partial-catalog mode.
	cat, err := catalog.Load(ctx, cfg.CatalogSource)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.CatalogSource).Msg("Failed to load question catalog")
	}
	log.Info().Int("questions", cat.Len()).Msg("Question catalog loaded")

	// ─── Initialize Engine and Handlers ────────────────────────────────
	engine := service.NewEngine(st, cat, log)

	handlers := &router.Handlers{
		Practice: handler.NewPracticeHandler(engine, cat),
		Review:   handler.NewReviewHandler(engine, cat),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
