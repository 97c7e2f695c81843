package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweepable is anything that can drop idle entries.
type Sweepable interface {
	Sweep() int
}

// Sweeper runs registry sweeps on a cron schedule.
type Sweeper struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewSweeper creates a stopped sweeper.
func NewSweeper(logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		cron:   cron.New(),
		logger: logger,
	}
}

// Register schedules target.Sweep with a standard five-field cron spec or a
// descriptor such as "@every 5m".
func (s *Sweeper) Register(name, schedule string, target Sweepable) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if removed := target.Sweep(); removed > 0 {
			s.logger.Info("swept idle sessions", slog.String("registry", name), slog.Int("removed", removed))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep %s: %w", name, err)
	}
	return nil
}

// Start begins executing scheduled sweeps
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running sweep to finish or ctx
// to end.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
