package processor

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Statistics contains the outcome of a batch processing run
type Statistics struct {
	FilesProcessed int
	FilesSkipped   int
	FilesFailed    int
	ChunksCreated  int
	TokensCounted  int
	Duration       time.Duration
	ErrorMessages  []string
}

// ProcessBatch processes files concurrently. Per-file failures are recorded
// in the statistics and do not stop the batch; only context cancellation
// aborts the run.
func (p *DocumentProcessor) ProcessBatch(ctx context.Context, paths []string, opts ProcessOptions, workers int) (*Statistics, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	var (
		processed int32
		skipped   int32
		failed    int32
		chunks    int32
		tokens    int32
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	var mu sync.Mutex // Protect stats.ErrorMessages

	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			// Batch options never carry a per-file identity.
			fileOpts := opts
			fileOpts.Identity.FileID = ""
			fileOpts.Identity.Filename = ""

			result, err := p.Process(gctx, path, fileOpts)
			if err != nil {
				atomic.AddInt32(&failed, 1)
				mu.Lock()
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", path, err))
				mu.Unlock()
				return nil
			}
			if result.Skipped {
				atomic.AddInt32(&skipped, 1)
				return nil
			}
			atomic.AddInt32(&processed, 1)
			atomic.AddInt32(&chunks, int32(len(result.Chunks)))
			atomic.AddInt32(&tokens, int32(result.TotalTokens()))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.FilesProcessed = int(processed)
	stats.FilesSkipped = int(skipped)
	stats.FilesFailed = int(failed)
	stats.ChunksCreated = int(chunks)
	stats.TokensCounted = int(tokens)
	stats.Duration = time.Since(startTime)

	p.logger.Info("batch complete",
		"processed", stats.FilesProcessed,
		"skipped", stats.FilesSkipped,
		"failed", stats.FilesFailed,
		"chunks", stats.ChunksCreated,
		"duration", stats.Duration)

	return stats, nil
}
