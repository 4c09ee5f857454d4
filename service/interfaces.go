package service

import (
	"context"
	"time"

	"stockdigest/models"
)

// SubscriptionReader defines the read capability over stored subscriptions
type SubscriptionReader interface {
	// ListWithEmail returns every subscription joined with its owner's email.
	// Unresolvable emails are returned as nil rather than as an error.
	ListWithEmail(ctx context.Context) ([]models.Subscription, error)
}

// MarketDataProvider defines the per-ticker market data queries.
// Each call is independently callable and independently failable.
type MarketDataProvider interface {
	// GetQuote returns the current quote for a ticker
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)

	// GetDailySeries returns daily highs and lows between from and to
	GetDailySeries(ctx context.Context, ticker string, from, to time.Time) (*models.DailySeries, error)

	// GetNews returns company news published between from and to
	GetNews(ctx context.Context, ticker string, from, to time.Time) ([]models.NewsItem, error)
}

// Notifier defines the notification send capability
type Notifier interface {
	// Send delivers one message to one recipient
	Send(ctx context.Context, to, subject, body string) error
}

// RunReporter publishes a finished run's summary to operators
type RunReporter interface {
	Report(ctx context.Context, summary *models.RunSummary) error
}

// TickerFetcher computes the snapshot for one ticker
type TickerFetcher interface {
	Build(ctx context.Context, ticker string) (*models.MarketSnapshot, error)
}

// Clock abstracts time so the fetch delay can be tested without sleeping
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is done
	Sleep(ctx context.Context, d time.Duration) error
}
