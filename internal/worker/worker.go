// Package worker runs the periodic maintenance loops: reservation expiry,
// rebalance scans and stale saga recovery.
package worker

import (
	"context"
	"sync"
	"time"

	"payflow/internal/observability"

	"github.com/rs/zerolog"
)

// Job is one unit of periodic work. The returned count is logged when non-zero.
type Job func(ctx context.Context) (int, error)

// Periodic runs a Job at a fixed interval until stopped or its context ends.
type Periodic struct {
	name     string
	interval time.Duration
	job      Job
	log      zerolog.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPeriodic creates a worker. A non-positive interval falls back to one minute.
func NewPeriodic(name string, interval time.Duration, job Job, log zerolog.Logger) *Periodic {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Periodic{
		name:     name,
		interval: interval,
		job:      job,
		log:      log.With().Str("worker", name).Logger(),
		stopCh:   make(chan struct{}),
	}
}

// Name returns the worker name used in logs and metrics.
func (w *Periodic) Name() string {
	return w.name
}

// Start blocks, running the job on every tick. It always returns nil so it
// can be handed to an errgroup.
func (w *Periodic) Start(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("worker starting")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker context canceled")
			return nil
		case <-w.stopCh:
			w.log.Info().Msg("worker stop signal received")
			return nil
		case <-ticker.C:
			_, _ = w.RunOnce(ctx)
		}
	}
}

// Stop signals the loop to exit. Safe to call more than once.
func (w *Periodic) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// RunOnce executes the job immediately.
func (w *Periodic) RunOnce(ctx context.Context) (int, error) {
	n, err := w.job(ctx)
	if err != nil {
		observability.IncrementWorkerRun(w.name, "failed")
		w.log.Error().Err(err).Msg("worker run failed")
		return n, err
	}
	observability.IncrementWorkerRun(w.name, "success")
	if n > 0 {
		w.log.Info().Int("processed", n).Msg("worker run completed")
	}
	return n, nil
}
