package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"supplier-sync-service/internal/services"
)

// SyncScheduler runs scheduled catalogue syncs for suppliers that opted in
// via their auto_sync_enabled setting.
type SyncScheduler struct {
	cron         *cron.Cron
	orchestrator *services.SyncOrchestrator
	schedule     string
	runTimeout   time.Duration
	logger       *zap.Logger
}

// NewSyncScheduler creates a scheduler. An empty schedule disables it.
func NewSyncScheduler(orchestrator *services.SyncOrchestrator, schedule string, runTimeout time.Duration, logger *zap.Logger) *SyncScheduler {
	return &SyncScheduler{
		cron:         cron.New(cron.WithSeconds()),
		orchestrator: orchestrator,
		schedule:     schedule,
		runTimeout:   runTimeout,
		logger:       logger,
	}
}

// Start registers the sync job and starts the cron loop.
func (s *SyncScheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("scheduled syncs disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runAll); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduled syncs enabled", zap.String("schedule", s.schedule))
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *SyncScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *SyncScheduler) runAll() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	s.logger.Info("scheduled sync run starting")
	if err := s.orchestrator.SyncAll(ctx, true); err != nil {
		s.logger.Error("scheduled sync run failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled sync run finished")
}
