package cmd

import (
	"context"
	"errors"
	"fmt"

	"stockdigest/config"
	"stockdigest/database"
	"stockdigest/marketdata"
	"stockdigest/notification"
	"stockdigest/repository"
	"stockdigest/service"

	log "github.com/sirupsen/logrus"
)

// errStoreUnavailable marks a subscription store that could not be reached at startup
var errStoreUnavailable = errors.New("subscription store unavailable")

// Run loads configuration, performs one digest run and returns.
// Only configuration errors are returned; an unreachable store, ticker failures
// and send failures are logged and the process still exits cleanly.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := configureLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	runner, cleanup, err := newDigestRunner(ctx, cfg)
	if errors.Is(err, errStoreUnavailable) {
		log.WithError(err).Error("Error fetching tickers and users")
		return nil
	}
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := runner.Run(ctx); err != nil {
		// Nothing was attempted, but the run itself is over; the next schedule retries
		log.WithError(err).Error("Digest run ended before aggregation")
	}

	return nil
}

// newDigestRunner connects the external capabilities and assembles the pipeline
func newDigestRunner(ctx context.Context, cfg *config.Config) (*service.DigestRunner, func(), error) {
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to connect to database: %w", errStoreUnavailable, err)
	}
	log.Info("Database connection established successfully")

	var reporter service.RunReporter
	if cfg.RunReportWebhookURL != "" {
		discordReporter, err := notification.NewDiscordReporter(cfg.RunReportWebhookURL, cfg.HTTPTimeout)
		if err != nil {
			log.WithError(err).Warn("Run reports disabled")
		} else {
			reporter = discordReporter
		}
	}

	clock := service.NewRealClock()
	marketData := marketdata.NewFinnhubClient(cfg.FinnhubBaseURL, cfg.FinnhubAPIKey, cfg.HTTPTimeout)
	sender := notification.NewResendSender(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.MailFrom, cfg.HTTPTimeout)

	runner := service.NewDigestRunner(
		repository.NewSubscriptionRepository(db),
		service.NewFetchScheduler(
			service.NewSnapshotBuilder(marketData, clock, cfg.Lookback(), cfg.HeadlinesPerDigest),
			clock,
			cfg.FetchDelay,
		),
		service.NewDigestComposer(),
		service.NewDispatcher(sender, clock),
		reporter,
		clock,
	)

	cleanup := func() {
		log.Info("Closing database connection...")
		db.Close()
	}

	return runner, cleanup, nil
}
