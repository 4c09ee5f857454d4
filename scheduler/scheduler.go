package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Job represents a scheduled job
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// Scheduler runs jobs on cron schedules. A job that is still running when its
// next tick arrives is skipped rather than run concurrently.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

// New creates a scheduler whose jobs run with ctx
func New(ctx context.Context) *Scheduler {
	logger := cron.PrintfLogger(log.WithField("component", "scheduler"))
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		ctx:  ctx,
	}
}

// AddJob registers a job with a standard five-field cron schedule.
// Examples:
//   - "0 21 * * FRI"  - Fridays at 21:00
//   - "@weekly"       - Sundays at midnight
//   - "@every 1h"     - every hour
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.runJob(job)
	})
	if err != nil {
		return fmt.Errorf("failed to register job %s with schedule %q: %w", job.Name(), schedule, err)
	}

	log.WithFields(log.Fields{
		"schedule": schedule,
		"job":      job.Name(),
	}).Info("Job registered")

	return nil
}

// Start starts the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("Scheduler stopped")
}

// RunNow executes a job immediately, outside its schedule
func (s *Scheduler) RunNow(job Job) error {
	log.WithField("job", job.Name()).Info("Running job immediately")
	return job.Run(s.ctx)
}

func (s *Scheduler) runJob(job Job) {
	log.WithField("job", job.Name()).Debug("Running job")

	if err := job.Run(s.ctx); err != nil {
		log.WithFields(log.Fields{
			"job":   job.Name(),
			"error": err.Error(),
		}).Error("Job failed")
		return
	}

	log.WithField("job", job.Name()).Debug("Job completed")
}
