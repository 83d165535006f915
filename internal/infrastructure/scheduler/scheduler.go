package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"p2p-lending/internal/usecase/settlement"

	"github.com/robfig/cron/v3"
)

// Sweeper settles every installment that has fallen due.
type Sweeper interface {
	SettleDue(ctx context.Context) (*settlement.SweepResult, error)
}

// Scheduler runs the payment sweep on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
	log     *slog.Logger
}

// New builds a scheduler for schedule, a standard five-field cron spec.
// Overlapping runs are skipped and a panicking run is logged, not fatal.
func New(schedule string, sweeper Sweeper, timeout time.Duration, log *slog.Logger) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(log.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	s := &Scheduler{cron: c, sweeper: sweeper, timeout: timeout, log: log}
	if _, err := c.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("schedule payment sweep %q: %w", schedule, err)
	}
	log.Info("scheduled payment sweep", "schedule", schedule)
	return s, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop stops scheduling; the returned context is done once a running sweep finishes.
func (s *Scheduler) Stop() context.Context { return s.cron.Stop() }

// RunOnce performs a single sweep bounded by the configured timeout.
func (s *Scheduler) RunOnce() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	res, err := s.sweeper.SettleDue(ctx)
	if err != nil {
		s.log.Error("payment sweep aborted", "err", err)
		return
	}
	if res.Failed > 0 {
		s.log.Warn("payment sweep left failures for the next run", "failed", res.Failed)
	}
}
