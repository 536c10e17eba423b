// Package parallel runs independent tasks on a bounded worker pool and
// returns their results in task order.
package parallel

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config configures a pool run.
type Config struct {
	Name       string
	NumWorkers int // 0 = auto (runtime.NumCPU)
	Logger     *zap.Logger
}

// Workers returns the effective worker count for n tasks.
func (c Config) Workers(n int) int {
	w := c.NumWorkers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if n > 0 && w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Map applies fn to every task using at most cfg.Workers goroutines. The
// i-th result corresponds to tasks[i] regardless of completion order. The
// first error cancels the context passed to the remaining tasks and is
// returned; results are nil in that case.
func Map[T, R any](ctx context.Context, cfg Config, tasks []T, fn func(ctx context.Context, i int, task T) (R, error)) ([]R, error) {
	results := make([]R, len(tasks))
	if len(tasks) == 0 {
		return results, nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := cfg.Workers(len(tasks))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range tasks {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, i, tasks[i])
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Debug("parallel run failed",
			zap.String("name", cfg.Name),
			zap.Int("tasks", len(tasks)),
			zap.Error(err))
		return nil, err
	}

	logger.Debug("parallel run completed",
		zap.String("name", cfg.Name),
		zap.Int("tasks", len(tasks)),
		zap.Int("workers", workers),
		zap.Duration("duration", time.Since(start)))
	return results, nil
}
