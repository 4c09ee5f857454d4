package service

import (
	"context"
	"time"

	"stockdigest/models"

	log "github.com/sirupsen/logrus"
)

// FetchStats counts fetch phase outcomes
type FetchStats struct {
	Attempted     int
	Fetched       int
	Failed        int
	FailedTickers []string
}

// FetchScheduler fetches tickers one at a time, keeping at least delay between
// the starts of consecutive fetches to stay under the provider's rate limit.
// Tickers are never fetched concurrently with each other.
type FetchScheduler struct {
	fetcher TickerFetcher
	clock   Clock
	delay   time.Duration
}

// NewFetchScheduler creates a fetch scheduler
func NewFetchScheduler(fetcher TickerFetcher, clock Clock, delay time.Duration) *FetchScheduler {
	return &FetchScheduler{
		fetcher: fetcher,
		clock:   clock,
		delay:   delay,
	}
}

// Run attempts every ticker exactly once and returns the frozen snapshot cache.
// A failed ticker is logged and left out of the cache; the pass always completes.
func (s *FetchScheduler) Run(ctx context.Context, tickers []string, logger *log.Entry) (*SnapshotCache, *FetchStats) {
	cache := NewSnapshotCache()
	stats := &FetchStats{}

	var lastStart time.Time
	for i, ticker := range tickers {
		if i > 0 {
			wait := s.delay - s.clock.Now().Sub(lastStart)
			if err := s.clock.Sleep(ctx, wait); err != nil {
				logger.WithError(err).Debug("Fetch delay interrupted")
			}
		}

		lastStart = s.clock.Now()
		stats.Attempted++

		snapshot, err := s.fetchOne(ctx, ticker)
		if err != nil {
			stats.Failed++
			stats.FailedTickers = append(stats.FailedTickers, ticker)
			logger.WithFields(log.Fields{
				"ticker": ticker,
				"error":  err.Error(),
			}).Error("Error processing ticker")
			continue
		}

		cache.Put(snapshot)
		stats.Fetched++
		logger.WithFields(log.Fields{
			"ticker":   ticker,
			"progress": i + 1,
			"total":    len(tickers),
		}).Debug("Ticker snapshot cached")
	}

	cache.Freeze()
	return cache, stats
}

func (s *FetchScheduler) fetchOne(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	// Once the run is cancelled the remaining tickers fail without touching the provider
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fetcher.Build(ctx, ticker)
}
