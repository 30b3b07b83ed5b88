package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentflow/rentflow/internal/api/dto"
	"github.com/rentflow/rentflow/internal/clock"
	"github.com/rentflow/rentflow/internal/config"
	"github.com/rentflow/rentflow/internal/logger"
	"github.com/rentflow/rentflow/internal/types"
)

// stubInvoiceService counts RunDaily calls and can fail a configured number
// of times before succeeding.
type stubInvoiceService struct {
	calls     atomic.Int64
	failFirst int64
	ran       chan struct{}
}

func newStubInvoiceService(failFirst int) *stubInvoiceService {
	return &stubInvoiceService{
		failFirst: int64(failFirst),
		ran:       make(chan struct{}, 16),
	}
}

func (s *stubInvoiceService) RunDaily(ctx context.Context, force bool) (*dto.GenerationRunResponse, error) {
	n := s.calls.Add(1)
	if n <= s.failFirst {
		return &dto.GenerationRunResponse{}, errors.New("database unavailable")
	}
	s.ran <- struct{}{}
	return &dto.GenerationRunResponse{RunDate: "2025-03-16", GenerationRan: false}, nil
}

func (s *stubInvoiceService) SweepOverdue(ctx context.Context, asOf time.Time) (int, error) {
	return 0, nil
}

func (s *stubInvoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return nil, nil
}

func (s *stubInvoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) ([]*dto.InvoiceResponse, error) {
	return nil, nil
}

func testConfig() *config.Configuration {
	cfg := config.GetDefaultConfig()
	cfg.Scheduler.BackoffInterval = time.Millisecond
	return cfg
}

func TestRunFiresAtMidnight(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2025, 3, 15, 22, 0, 0, 0, time.UTC))

	svc := newStubInvoiceService(0)
	sched := New(svc, mock, logger.GetLogger(), testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	// Let the scheduler reach its wait before moving time.
	time.Sleep(20 * time.Millisecond)

	// Advancing to 23:00 must not trigger a run.
	mock.Add(time.Hour)
	select {
	case <-svc.ran:
		t.Fatal("run fired before midnight")
	case <-time.After(50 * time.Millisecond):
	}

	// Crossing midnight triggers exactly one run.
	mock.Add(2 * time.Hour)
	select {
	case <-svc.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not fire after midnight")
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, int64(1), svc.calls.Load())
}

func TestRunRetriesAfterFailure(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2025, 3, 15, 23, 30, 0, 0, time.UTC))

	svc := newStubInvoiceService(2)
	sched := New(svc, mock, logger.GetLogger(), testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	mock.Add(time.Hour)

	select {
	case <-svc.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not eventually succeed")
	}
	assert.Equal(t, int64(3), svc.calls.Load())

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestRunStopsWhenCancelledAtWait(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC))

	svc := newStubInvoiceService(0)
	sched := New(svc, mock, logger.GetLogger(), testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on cancellation")
	}
	assert.Equal(t, int64(0), svc.calls.Load())
}

func TestRunDisabledWaitsForShutdown(t *testing.T) {
	mock := clock.NewMock()
	cfg := testConfig()
	cfg.Scheduler.Enabled = false

	svc := newStubInvoiceService(0)
	sched := New(svc, mock, logger.GetLogger(), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, int64(0), svc.calls.Load())
}
