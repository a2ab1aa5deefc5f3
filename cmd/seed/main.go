// Command seed replaces the question catalog with the contents of a seed
// directory laid out as <dir>/<subject>/*.json.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/testsdaw/backend/internal/infrastructure/config"
	"github.com/testsdaw/backend/internal/seed"
	"github.com/testsdaw/backend/internal/store"
)

func main() {
	cfg := config.LoadSeed()
	dir := flag.String("dir", cfg.Dir, "seed directory")
	workers := flag.Int("workers", cfg.Workers, "files parsed in parallel")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	report, err := seed.NewImporter(db, logger, *workers).Import(ctx, *dir)
	if err != nil {
		logger.Error("seed failed", "dir", *dir, "error", err)
		db.Close()
		os.Exit(1)
	}

	logger.Info("seed finished",
		"files", report.Files,
		"skipped", len(report.Skipped),
		"questions", report.Questions,
	)
}
