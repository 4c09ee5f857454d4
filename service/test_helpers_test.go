package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"stockdigest/models"

	log "github.com/sirupsen/logrus"
)

var fridayEvening = time.Date(2026, 10, 16, 21, 0, 0, 0, time.UTC)

// fakeClock advances only when Sleep or Advance is called
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.sleeps = append(c.sleeps, d)
		c.now = c.now.Add(d)
	}
	return nil
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeProvider serves canned market data and counts calls per ticker
type fakeProvider struct {
	mu          sync.Mutex
	quoteCalls  map[string]int
	seriesCalls map[string]int
	newsCalls   map[string]int
	failing     map[string]bool
}

func newFakeProvider(failing ...string) *fakeProvider {
	p := &fakeProvider{
		quoteCalls:  make(map[string]int),
		seriesCalls: make(map[string]int),
		newsCalls:   make(map[string]int),
		failing:     make(map[string]bool),
	}
	for _, ticker := range failing {
		p.failing[ticker] = true
	}
	return p
}

func (p *fakeProvider) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	p.mu.Lock()
	p.quoteCalls[ticker]++
	p.mu.Unlock()
	if p.failing[ticker] {
		return nil, errors.New("provider unavailable")
	}
	return &models.Quote{Close: 100.456, High: 101, Low: 99}, nil
}

func (p *fakeProvider) GetDailySeries(ctx context.Context, ticker string, from, to time.Time) (*models.DailySeries, error) {
	p.mu.Lock()
	p.seriesCalls[ticker]++
	p.mu.Unlock()
	return &models.DailySeries{Highs: []float64{102, 105.5}, Lows: []float64{95.25, 97}}, nil
}

func (p *fakeProvider) GetNews(ctx context.Context, ticker string, from, to time.Time) ([]models.NewsItem, error) {
	p.mu.Lock()
	p.newsCalls[ticker]++
	p.mu.Unlock()
	return []models.NewsItem{{Headline: ticker + " headline", PublishedAt: 1}}, nil
}

func (p *fakeProvider) totalQuoteCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, n := range p.quoteCalls {
		total += n
	}
	return total
}

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return log.NewEntry(logger)
}

func strPtr(s string) *string {
	return &s
}

func snapshotFor(ticker string) *models.MarketSnapshot {
	return &models.MarketSnapshot{Ticker: ticker, Headlines: []string{ticker + " news"}}
}
