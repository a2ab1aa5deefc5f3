package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/testsdaw/backend/internal/domain/question"
	"github.com/testsdaw/backend/internal/worker"
)

// Replacer swaps the whole question catalog.
type Replacer interface {
	ReplaceQuestions(ctx context.Context, qs []question.Question) (int, error)
}

type Report struct {
	Files     int
	Skipped   []string
	Questions int
}

type parseResult struct {
	path      string
	questions []question.Question
	err       error
}

// Importer loads a seed directory into the store.
type Importer struct {
	store   Replacer
	logger  *slog.Logger
	workers int
}

func NewImporter(s Replacer, logger *slog.Logger, workers int) *Importer {
	if workers < 1 {
		workers = 1
	}
	return &Importer{store: s, logger: logger, workers: workers}
}

// Import parses every seed file under dir in parallel and replaces the
// catalog with the result. Any parse error aborts the import before the
// store is touched. Questions keep the order of the sorted file list.
func (im *Importer) Import(ctx context.Context, dir string) (*Report, error) {
	files, err := Discover(dir)
	if err != nil {
		return nil, fmt.Errorf("discover seed files: %w", err)
	}
	im.logger.Info("seed files found", "dir", dir, "count", len(files))

	pool := worker.NewPool[parseResult](im.workers, len(files))
	for i, path := range files {
		pool.Submit(strconv.Itoa(i), func() parseResult {
			qs, err := ParseFile(path)
			return parseResult{path: path, questions: qs, err: err}
		})
	}
	pool.Close()

	parsed := make([]parseResult, len(files))
	for r := range pool.Results() {
		i, _ := strconv.Atoi(r.JobID)
		parsed[i] = r.Output
	}

	report := &Report{Files: len(files)}
	var all []question.Question
	for _, r := range parsed {
		switch {
		case errors.Is(r.err, ErrUnexpectedFormat):
			im.logger.Warn("skipping seed file with unexpected format", "file", r.path)
			report.Skipped = append(report.Skipped, r.path)
		case r.err != nil:
			return nil, fmt.Errorf("parse seed file: %w", r.err)
		default:
			im.logger.Info("seed file parsed", "file", r.path, "questions", len(r.questions))
			all = append(all, r.questions...)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, err := im.store.ReplaceQuestions(ctx, all)
	if err != nil {
		return nil, err
	}
	report.Questions = n
	return report, nil
}
