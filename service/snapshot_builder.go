package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"stockdigest/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// SnapshotBuilder turns the three market data reads for one ticker into a snapshot
type SnapshotBuilder struct {
	provider  MarketDataProvider
	clock     Clock
	lookback  time.Duration
	headlines int
}

// NewSnapshotBuilder creates a snapshot builder.
// lookback is the window for the daily series and news; headlines caps how many are kept.
func NewSnapshotBuilder(provider MarketDataProvider, clock Clock, lookback time.Duration, headlines int) *SnapshotBuilder {
	if headlines < 1 {
		headlines = 1
	}
	return &SnapshotBuilder{
		provider:  provider,
		clock:     clock,
		lookback:  lookback,
		headlines: headlines,
	}
}

// Build issues the quote, daily series and news reads concurrently and combines them.
// If any read fails the whole ticker fails; no partial snapshot is returned.
func (b *SnapshotBuilder) Build(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	to := b.clock.Now()
	from := to.Add(-b.lookback)

	var (
		quote  *models.Quote
		series *models.DailySeries
		news   []models.NewsItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quote, err = b.provider.GetQuote(gctx, ticker)
		return err
	})
	g.Go(func() error {
		var err error
		series, err = b.provider.GetDailySeries(gctx, ticker, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		news, err = b.provider.GetNews(gctx, ticker, from, to)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTickerFetch, ticker, err)
	}
	if quote == nil {
		return nil, fmt.Errorf("%w: %s: empty quote", ErrTickerFetch, ticker)
	}
	if series == nil {
		series = &models.DailySeries{}
	}

	high, low := weeklyRange(series, quote)

	return &models.MarketSnapshot{
		Ticker:     ticker,
		ClosePrice: roundedPrice(quote.Close),
		WeeklyHigh: high,
		WeeklyLow:  low,
		Headlines:  topHeadlines(news, b.headlines),
	}, nil
}

// weeklyRange prefers the daily series, falls back to the quote's own high/low,
// and leaves the value absent when neither has data
func weeklyRange(series *models.DailySeries, quote *models.Quote) (decimal.NullDecimal, decimal.NullDecimal) {
	high := roundedPrice(quote.High)
	if highs := finite(series.Highs); len(highs) > 0 {
		high = roundedPrice(floats.Max(highs))
	}

	low := roundedPrice(quote.Low)
	if lows := finite(series.Lows); len(lows) > 0 {
		low = roundedPrice(floats.Min(lows))
	}

	return high, low
}

// roundedPrice rounds to cents. Finnhub reports unknown symbols as zero, so zero is absent.
func roundedPrice(value float64) decimal.NullDecimal {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(value).Round(2))
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// topHeadlines returns up to limit headlines, most recent first
func topHeadlines(news []models.NewsItem, limit int) []string {
	items := make([]models.NewsItem, 0, len(news))
	for _, item := range news {
		if item.Headline != "" {
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt > items[j].PublishedAt
	})

	if len(items) > limit {
		items = items[:limit]
	}

	headlines := make([]string, len(items))
	for i, item := range items {
		headlines[i] = item.Headline
	}
	return headlines
}
