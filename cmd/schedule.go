package cmd

import (
	"context"
	"errors"
	"fmt"

	"stockdigest/config"
	"stockdigest/scheduler"
	"stockdigest/service"

	log "github.com/sirupsen/logrus"
)

// digestJob adapts a DigestRunner to the scheduler
type digestJob struct {
	runner *service.DigestRunner
}

func (j *digestJob) Name() string {
	return "weekly_digest"
}

func (j *digestJob) Run(ctx context.Context) error {
	_, err := j.runner.Run(ctx)
	return err
}

// Schedule keeps the process alive and runs the digest on DIGEST_SCHEDULE until ctx is cancelled.
// With runNow set, one run happens immediately before the first scheduled tick.
func Schedule(ctx context.Context, runNow bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := configureLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	runner, cleanup, err := newDigestRunner(ctx, cfg)
	if errors.Is(err, errStoreUnavailable) {
		log.WithError(err).Error("Scheduler not started")
		return nil
	}
	if err != nil {
		return err
	}
	defer cleanup()

	s := scheduler.New(ctx)
	job := &digestJob{runner: runner}
	if err := s.AddJob(cfg.DigestSchedule, job); err != nil {
		return err
	}

	if runNow {
		if err := s.RunNow(job); err != nil {
			log.WithError(err).Error("Immediate digest run failed")
		}
	}

	s.Start()
	log.Infof("Digest scheduler running in %s mode...", cfg.Environment)

	<-ctx.Done()

	log.Info("Shutting down scheduler...")
	s.Stop()

	return nil
}
