// Package scheduler runs periodic background jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Hrushikesh74161/personal-finance-tracker-sub000/internal/logger"
)

// Job is a unit of periodic work.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner whose jobs share the context passed to Run.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.SugaredLogger
	ctx  context.Context
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  logger.Named("scheduler"),
		ctx:  context.Background(),
	}
}

// Add registers job under name on the standard five-field cron spec.
func (s *Scheduler) Add(spec, name string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.log.Infow("job started", "job", name)
		if err := job(s.ctx); err != nil {
			s.log.Errorw("job failed", "job", name, "error", err)
			return
		}
		s.log.Infow("job finished", "job", name)
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	s.log.Infow("job scheduled", "job", name, "spec", spec)
	return nil
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Run starts the cron loop and blocks until ctx is cancelled, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	<-ctx.Done()
	s.log.Info("stopping scheduler")
	<-s.cron.Stop().Done()
	return nil
}
