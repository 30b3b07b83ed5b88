// Package scheduler runs the daily billing cycle: it sleeps until the next
// UTC midnight, executes the invoice run (sweeps every day, generation on
// the first of the month), and reschedules. A failed run is retried with a
// constant backoff instead of crashing the process.
package scheduler

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"

	"github.com/rentflow/rentflow/internal/clock"
	"github.com/rentflow/rentflow/internal/config"
	"github.com/rentflow/rentflow/internal/logger"
	"github.com/rentflow/rentflow/internal/service"
)

// Scheduler drives the recurring invoice run.
type Scheduler struct {
	invoiceService service.InvoiceService
	clock          clock.Clock
	logger         *logger.Logger
	cfg            *config.Configuration
}

// New creates a scheduler.
func New(invoiceService service.InvoiceService, clk clock.Clock, log *logger.Logger, cfg *config.Configuration) *Scheduler {
	return &Scheduler{
		invoiceService: invoiceService,
		clock:          clk,
		logger:         log,
		cfg:            cfg,
	}
}

// Run blocks until the context is cancelled, executing the daily invoice
// run at every UTC midnight. No lock is held across the wait; cancellation
// is observed both at the wait and inside the run's per-lease loop.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.cfg.Scheduler.Enabled {
		s.logger.Warnw("scheduler is disabled, invoice runs must be triggered manually")
		<-ctx.Done()
		return ctx.Err()
	}

	for {
		now := s.clock.Now()
		next := clock.NextMidnight(now)
		s.logger.Infow("scheduler sleeping until next run",
			"next_run", next,
			"sleep", next.Sub(now),
		)

		timer := s.clock.Timer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := s.runWithBackoff(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Errorw("invoice run failed after retries", "error", err)
		}
	}
}

// runWithBackoff executes one daily run, retrying on failure with a constant
// backoff (one hour by default) so a transient outage does not kill the loop.
func (s *Scheduler) runWithBackoff(ctx context.Context) error {
	policy := backoff.WithContext(backoff.NewConstantBackOff(s.cfg.Scheduler.BackoffInterval), ctx)
	return backoff.Retry(func() error {
		return s.runOnce(ctx)
	}, policy)
}

// runOnce executes one daily run, converting panics into errors so a bad
// lease cannot take down the scheduler goroutine.
func (s *Scheduler) runOnce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invoice run panicked: %v", r)
		}
	}()

	resp, err := s.invoiceService.RunDaily(ctx, false)
	if err != nil {
		s.logger.Errorw("daily invoice run failed", "error", err)
		return err
	}

	s.logger.Infow("daily invoice run completed",
		"run_date", resp.RunDate,
		"generation_ran", resp.GenerationRan,
		"generated", resp.Generated,
		"skipped", resp.Skipped,
		"failed", resp.Failed,
		"overdue_swept", resp.OverdueSwept,
		"leases_expired", resp.LeasesExpired,
	)
	return nil
}
