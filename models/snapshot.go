package models

import (
	"github.com/shopspring/decimal"
)

// NoSignificantNews is shown when a ticker had no news in the lookback window
const NoSignificantNews = "No significant news found."

// Quote is the current quote for a ticker. Zero values mean the provider had no data.
type Quote struct {
	Close float64
	High  float64
	Low   float64
}

// DailySeries holds the daily highs and lows over the lookback window
type DailySeries struct {
	Highs []float64
	Lows  []float64
}

// NewsItem is a single company news headline
type NewsItem struct {
	Headline    string
	PublishedAt int64 // unix seconds
	URL         string
	Source      string
}

// MarketSnapshot is the weekly summary for one ticker, computed once per run
type MarketSnapshot struct {
	Ticker     string
	ClosePrice decimal.NullDecimal
	WeeklyHigh decimal.NullDecimal
	WeeklyLow  decimal.NullDecimal
	Headlines  []string
}

// DisplayHeadlines returns the headlines to render, most recent first,
// or the no-news sentinel when there are none
func (s *MarketSnapshot) DisplayHeadlines() []string {
	if len(s.Headlines) == 0 {
		return []string{NoSignificantNews}
	}
	return s.Headlines
}
