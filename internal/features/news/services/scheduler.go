package services

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"ai-news-intel/internal/core"
)

// Scheduler runs the refresh on a cron spec. Overlapping fires are skipped
// through the refresher's own lock.
type Scheduler struct {
	cron      *cron.Cron
	refresher *Refresher
	logger    *core.Logger
	spec      string
	entryID   cron.EntryID
}

// NewScheduler creates a scheduler for the given cron spec (standard five
// field form, e.g. "0 2 * * *" for 2 AM daily).
func NewScheduler(refresher *Refresher, logger *core.Logger, spec string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		logger:    logger,
		spec:      spec,
	}
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start() error {
	entryID, err := s.cron.AddFunc(s.spec, func() {
		if _, started := s.refresher.TryRun(context.Background()); !started {
			s.logger.Warn("Skipping scheduled refresh; previous run still in progress")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.logger.Info("Refresh scheduler started", "spec", s.spec)
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Refresh scheduler stopped")
}
