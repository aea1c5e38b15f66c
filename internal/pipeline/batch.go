package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jhouedanou/lessonpatch/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor runs a pipeline over many documents.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on a single document
// 2. Failure isolation between documents is a batch concern
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each document.
	// We use a factory to ensure each document gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of documents processed at once.
	concurrency int

	// dryRun is propagated to every report.
	dryRun bool

	// lessonID overrides the derived identifier of every document.
	lessonID string

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent documents.
// Default is 1: documents are processed one at a time in input order.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithDryRun makes every document of the batch a dry run.
func WithDryRun(dryRun bool) BatchOption {
	return func(b *BatchProcessor) {
		b.dryRun = dryRun
	}
}

// WithLessonID overrides the identifier of the batch's documents.
// It only makes sense for a single-document batch.
func WithLessonID(id string) BatchOption {
	return func(b *BatchProcessor) {
		b.lessonID = id
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each document to create a
// fresh pipeline instance, so no state leaks between documents.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     1,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch patches multiple documents.
// It respects the configured concurrency limit and context cancellation.
//
// Duplicate paths are processed once. Reports are returned in input order
// and include failed documents; a failure never cancels the siblings.
// Documents that never started because ctx was cancelled have a nil report.
// The error return is non-nil only when the batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.PatchReport, error) {
	paths = uniquePaths(paths)
	results := make([]*model.PatchReport, len(paths))

	err := bp.run(ctx, paths, func(report *model.PatchReport, index int) {
		results[index] = report
	})

	return results, err
}

// ProcessBatchWithCallback patches multiple documents and calls a callback
// for each completed document. This is useful for streaming results.
//
// The callback receives the report and the index of the document in the
// deduplicated input. Calls are serialized, so the callback does not need
// its own locking.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(report *model.PatchReport, index int),
) error {
	return bp.run(ctx, uniquePaths(paths), callback)
}

// run is the shared errgroup loop.
func (bp *BatchProcessor) run(
	ctx context.Context,
	paths []string,
	callback func(report *model.PatchReport, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_documents", len(paths),
		"concurrency", bp.concurrency,
		"dry_run", bp.dryRun,
	)

	startTime := time.Now()

	var mu sync.Mutex

	// The derived context is deliberately not used: a failed document must
	// not cancel its siblings, and goroutines never return an error.
	g := new(errgroup.Group)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		i, path := i, path
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			pipeline := bp.pipelineFactory()

			bp.logger.Info("patching document",
				"pipeline", pipeline.Name(),
				"document", path,
				"index", i+1,
				"total", len(paths),
			)

			report, err := Patch(ctx, pipeline, path, bp.lessonID, bp.dryRun)
			if err != nil {
				bp.logger.Warn("document failed",
					"document", path,
					"error", err,
				)
			} else {
				bp.logger.Info("document done",
					"document", path,
					"outcome", report.Outcome.String(),
					"changes", report.Changes.TotalChanges(),
				)
			}

			mu.Lock()
			callback(report, i)
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // Goroutines never return an error

	bp.logger.Info("batch processing complete",
		"total_documents", len(paths),
		"elapsed", time.Since(startTime),
	)

	return ctx.Err()
}

// uniquePaths removes repeated paths, keeping the first occurrence.
func uniquePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	unique := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}
