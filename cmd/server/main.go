package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/testsdaw/backend/internal/api"
	"github.com/testsdaw/backend/internal/auth"
	"github.com/testsdaw/backend/internal/event"
	"github.com/testsdaw/backend/internal/grader"
	"github.com/testsdaw/backend/internal/infrastructure/config"
	"github.com/testsdaw/backend/internal/service"
	"github.com/testsdaw/backend/internal/store"

	_ "github.com/testsdaw/backend/docs" // generated swagger docs
)

// @title           Quiz Practice API
// @version         1.0
// @description     Multiple-choice practice by subject and topic: randomized tests, scored attempts, failed-question review and a leaderboard.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	ctx := context.Background()
	db, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	publisher, err := event.NewAMQPPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
	if err != nil {
		logger.Error("failed to connect to message broker", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()
	if !publisher.Enabled() {
		logger.Info("event publishing disabled", "reason", "RABBITMQ_URI not set")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	handler := api.NewHandler(api.Services{
		Selection: service.NewSelectionService(db, nil),
		Scoring:   service.NewScoringService(db, grader.ExactMatch{}, publisher, logger),
		Stats:     service.NewStatsService(db),
		Catalog:   service.NewCatalogService(db),
		Accounts:  service.NewAccountService(db, tokens),
		DB:        db,
	}, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler, tokens)

	// ── Middleware chain ────────────────────────────────────────────
	root := api.Stack(mux, logger, cfg.CORSOrigin)

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "driver", cfg.Database.Driver)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
