package sync

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	"go.uber.org/zap"

	"github.com/launchdir/directory-service/internal/metrics"
)

// Scheduler owns the per-mapping cursors and drives reconciliation passes,
// either from the fixed-interval timer or from the manual trigger endpoint.
// Cursors live in memory only; a restart reprocesses from scratch, which is
// accepted because passes are idempotent.
type Scheduler struct {
	reconciler *Reconciler
	mappings   []Mapping
	interval   time.Duration
	logger     *zap.Logger

	mu      gosync.Mutex
	cursors map[string]time.Time
}

// NewScheduler builds a Scheduler over the given mappings.
func NewScheduler(reconciler *Reconciler, mappings []Mapping, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		reconciler: reconciler,
		mappings:   mappings,
		interval:   interval,
		logger:     logger,
		cursors:    make(map[string]time.Time, len(mappings)),
	}
}

// Run blocks, reconciling all mappings every interval until ctx finishes.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunAll(ctx); err != nil {
				s.logger.Warn("scheduled sync pass had failures", zap.Error(err))
			}
		}
	}
}

// RunAll reconciles every mapping sequentially. A failing mapping keeps its
// cursor and does not stop the remaining mappings; all failures are joined
// into the returned error.
func (s *Scheduler) RunAll(ctx context.Context) error {
	var errs []error
	for _, m := range s.mappings {
		cursor := s.Cursor(m.Name)
		next, err := s.reconciler.Reconcile(ctx, m, cursor)
		if err != nil {
			metrics.IncSyncRuns(m.Name, "error")
			s.logger.Error("reconciliation pass failed",
				zap.String("mapping", m.Name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		metrics.IncSyncRuns(m.Name, "ok")
		s.setCursor(m.Name, next)
	}
	return errors.Join(errs...)
}

// Cursor returns the current watermark for a mapping; zero means "fetch all".
func (s *Scheduler) Cursor(name string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors[name]
}

func (s *Scheduler) setCursor(name string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[name] = t
}
