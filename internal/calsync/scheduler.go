package calsync

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler resyncs connected calendars on a cron spec.
type Scheduler struct {
	svc  *Service
	cron *cron.Cron

	cancel context.CancelFunc
}

func NewScheduler(svc *Service) *Scheduler {
	return &Scheduler{
		svc:  svc,
		cron: cron.New(),
	}
}

// Start registers the job and starts the cron loop. Overlapping ticks are
// skipped while a resync is still running.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	ctx, cancel := context.WithCancel(ctx)

	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		slog.Info("scheduled calendar resync")
		s.svc.SyncAll(ctx)
	}))

	if _, err := s.cron.AddJob(spec, job); err != nil {
		cancel()
		return err
	}

	s.cancel = cancel
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
}
