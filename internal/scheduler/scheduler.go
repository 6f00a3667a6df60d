// Package scheduler wires up the cron job that periodically runs the
// ingestion pipeline.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Rajsingh66/event-scraper/internal/service"
)

// Scheduler wraps robfig/cron and manages the periodic pipeline runs.
type Scheduler struct {
	cron   *cron.Cron
	runner service.PipelineRunner
	spec   string // cron spec, e.g. "@every 2h"
	log    *zap.Logger
}

// New creates a Scheduler that fires every intervalHours hours.
func New(runner service.PipelineRunner, intervalHours int, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
		log:    log,
	}
}

// Start registers the job and starts the scheduler. Also runs the pipeline
// once immediately so the sheet is populated without waiting for the first
// tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info("Scheduler started", zap.String("spec", s.spec))

	go s.runOnce(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler. Already-running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.runner.Run(ctx); err != nil {
		s.log.Error("Scheduled pipeline run failed", zap.Error(err))
	}
}
