package service

import (
	"context"
	"fmt"

	"stockdigest/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// DigestRunner drives one digest run: aggregate, fetch, compose and dispatch
type DigestRunner struct {
	subscriptions SubscriptionReader
	scheduler     *FetchScheduler
	composer      *DigestComposer
	dispatcher    *Dispatcher
	reporter      RunReporter
	clock         Clock
}

// NewDigestRunner creates a digest runner. reporter may be nil.
func NewDigestRunner(
	subscriptions SubscriptionReader,
	scheduler *FetchScheduler,
	composer *DigestComposer,
	dispatcher *Dispatcher,
	reporter RunReporter,
	clock Clock,
) *DigestRunner {
	return &DigestRunner{
		subscriptions: subscriptions,
		scheduler:     scheduler,
		composer:      composer,
		dispatcher:    dispatcher,
		reporter:      reporter,
		clock:         clock,
	}
}

// Run executes one complete run. Ticker and send failures are recovered and
// counted in the summary; only a failed subscription read returns an error.
func (r *DigestRunner) Run(ctx context.Context) (*models.RunSummary, error) {
	summary := &models.RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: r.clock.Now(),
	}
	logger := log.WithField("run_id", summary.RunID)
	logger.Info("--- Starting Weekly Digest Generation ---")

	subscriptions, err := r.subscriptions.ListWithEmail(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch subscriptions: %w", err)
	}

	agg := Aggregate(subscriptions, logger)
	summary.UsersConsidered = len(agg.UserOrder)
	logger.WithFields(log.Fields{
		"unique_tickers": len(agg.Tickers),
		"users":          len(agg.UserOrder),
		"dropped_rows":   agg.DroppedRows,
	}).Infof("Found %d unique stocks for %d users.", len(agg.Tickers), len(agg.UserOrder))

	// Fetch phase: the cache is complete and frozen before any digest is composed
	cache, stats := r.scheduler.Run(ctx, agg.Tickers, logger)
	summary.TickersFetched = stats.Fetched
	summary.TickersFailed = stats.Failed
	summary.FailedTickers = stats.FailedTickers
	logger.Info("--- Data collection complete. Dispatching emails. ---")

	for _, userID := range agg.UserOrder {
		group := agg.Group(userID)

		digest, err := r.composer.Compose(group, cache)
		if err != nil {
			logger.WithFields(log.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Failed to compose digest")
			summary.UsersSkipped++
			continue
		}
		if digest == nil {
			logger.WithField("user_id", userID).Debug("No cached tickers for user, skipping digest")
			summary.UsersSkipped++
			continue
		}

		result := r.dispatcher.Dispatch(ctx, digest, logger)
		if result.Outcome == models.DispatchOutcomeSent {
			summary.UsersDispatched++
		} else {
			summary.SendsFailed++
			summary.FailedRecipients = append(summary.FailedRecipients, result.RecipientEmail)
		}
	}

	summary.Duration = r.clock.Now().Sub(summary.StartedAt)
	logger.WithFields(log.Fields{
		"users_considered": summary.UsersConsidered,
		"users_dispatched": summary.UsersDispatched,
		"users_skipped":    summary.UsersSkipped,
		"tickers_fetched":  summary.TickersFetched,
		"tickers_failed":   summary.TickersFailed,
		"sends_failed":     summary.SendsFailed,
		"duration":         summary.Duration.String(),
	}).Info("--- All email dispatch attempts finished. ---")

	r.report(ctx, summary, logger)

	return summary, nil
}

func (r *DigestRunner) report(ctx context.Context, summary *models.RunSummary, logger *log.Entry) {
	if r.reporter == nil {
		return
	}
	if err := r.reporter.Report(ctx, summary); err != nil {
		logger.WithError(err).Warn("Failed to publish run report")
	}
}
