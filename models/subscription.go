package models

import (
	"strings"
	"time"
)

// Category is the list a user filed a ticker under
type Category string

const (
	CategoryHolding   Category = "holding"
	CategoryWatchlist Category = "watchlist"
)

// Label returns the display name used in digests
func (c Category) Label() string {
	switch c {
	case CategoryHolding:
		return "Holding"
	case CategoryWatchlist:
		return "Watchlist"
	default:
		return ""
	}
}

// Subscription is one user_stocks row joined with the owner's email.
// Email is nil when the profile is missing or has no usable address.
type Subscription struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	Ticker    string    `db:"ticker"`
	Category  Category  `db:"category"`
	Email     *string   `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}

// NormalizeTicker uppercases and trims a ticker symbol
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// UserGroup collects one user's tickers for a single run
type UserGroup struct {
	UserID     string
	Email      string
	Tickers    []string // first-seen order, normalized, no duplicates
	Categories map[string]Category
}

// AddTicker appends a normalized ticker unless it is already present.
// A holding entry wins over a watchlist entry for the same ticker.
func (g *UserGroup) AddTicker(ticker string, category Category) {
	if g.Categories == nil {
		g.Categories = make(map[string]Category)
	}
	if existing, ok := g.Categories[ticker]; ok {
		if existing != CategoryHolding && category == CategoryHolding {
			g.Categories[ticker] = category
		}
		return
	}
	g.Categories[ticker] = category
	g.Tickers = append(g.Tickers, ticker)
}
