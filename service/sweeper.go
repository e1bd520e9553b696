package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pivolan/genbi/store"
)

// Sweeper deletes chunks of uploads that were never finalized.
type Sweeper struct {
	cron     *cron.Cron
	store    store.DatasetStore
	schedule string
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewSweeper removes chunks older than ttl on the given cron schedule.
func NewSweeper(s store.DatasetStore, schedule string, ttl time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		cron:     cron.New(),
		store:    s,
		schedule: schedule,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the sweep and starts the cron scheduler.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			s.logger.Warn("chunk sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("chunk sweeper started", "schedule", s.schedule, "ttl", s.ttl)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("chunk sweeper stopped")
}

// Sweep deletes chunks created more than ttl ago.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteChunksBefore(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("stale chunks deleted", "count", n)
	}
	return n, nil
}
