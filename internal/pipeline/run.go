package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alvesvaren/snapchat-memories-downloader/internal/logging"
	"github.com/alvesvaren/snapchat-memories-downloader/internal/manifest"
)

// Summary aggregates a whole run.
type Summary struct {
	Total     int
	Completed int
	Failed    int
	Skipped   int
	Elapsed   time.Duration
}

// Orchestrator fans manifest items out over a fixed worker pool. Item order
// carries no meaning; completions land in whatever order the network allows.
type Orchestrator struct {
	pipeline *ItemPipeline
	workers  int
	progress Sink
	logger   *slog.Logger
}

// NewOrchestrator builds an orchestrator running at most workers items at
// once. A nil progress sink is replaced with a no-op.
func NewOrchestrator(pipeline *ItemPipeline, workers int, progress Sink, logger *slog.Logger) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	if progress == nil {
		progress = NopSink{}
	}
	return &Orchestrator{
		pipeline: pipeline,
		workers:  workers,
		progress: progress,
		logger:   logging.NewComponentLogger(logger, "orchestrator"),
	}
}

// Run processes all items and returns the aggregated summary. A single
// item's failure never cancels the rest; cancelling ctx stops feeding new
// items while in-flight ones finish or abort cleanly.
func (o *Orchestrator) Run(ctx context.Context, items []manifest.Item) Summary {
	started := time.Now()
	o.progress.Start(len(items))

	jobs := make(chan manifest.Item)
	var completed, failed atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				outcome := o.pipeline.Process(ctx, item)
				if outcome.Err != nil {
					failed.Add(1)
					o.logger.Error("item failed",
						logging.String(logging.FieldURL, outcome.URL),
						logging.String(logging.FieldReason, outcome.Err.Error()),
					)
				} else {
					completed.Add(1)
				}
				o.progress.ItemDone(outcome.Name(), outcome.Err)
			}
		}()
	}

feed:
	for _, item := range items {
		select {
		case jobs <- item:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	o.progress.Finish()

	summary := Summary{
		Total:     len(items),
		Completed: int(completed.Load()),
		Failed:    int(failed.Load()),
		Elapsed:   time.Since(started),
	}
	summary.Skipped = summary.Total - summary.Completed - summary.Failed
	return summary
}
