package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stockdigest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingFetcher records when each fetch started and simulates fetch latency
type recordingFetcher struct {
	mu       sync.Mutex
	clock    *fakeClock
	latency  time.Duration
	failing  map[string]bool
	starts   []time.Time
	calls    []string
	inFlight int
	maxInFly int
}

func (f *recordingFetcher) Build(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	f.mu.Lock()
	f.starts = append(f.starts, f.clock.Now())
	f.calls = append(f.calls, ticker)
	f.inFlight++
	if f.inFlight > f.maxInFly {
		f.maxInFly = f.inFlight
	}
	f.mu.Unlock()

	f.clock.Advance(f.latency)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if f.failing[ticker] {
		return nil, errors.New("provider error")
	}
	return snapshotFor(ticker), nil
}

func TestFetchScheduler_EnforcesDelayBetweenStarts(t *testing.T) {
	latencies := []time.Duration{0, 300 * time.Millisecond, time.Second, 2500 * time.Millisecond}

	for _, latency := range latencies {
		t.Run(latency.String(), func(t *testing.T) {
			clock := newFakeClock(fridayEvening)
			fetcher := &recordingFetcher{clock: clock, latency: latency}
			scheduler := NewFetchScheduler(fetcher, clock, time.Second)

			tickers := []string{"AAPL", "TSLA", "MSFT", "GOOG", "NVDA"}
			cache, stats := scheduler.Run(context.Background(), tickers, testLogger())

			require.Len(t, fetcher.starts, len(tickers))
			for i := 1; i < len(fetcher.starts); i++ {
				gap := fetcher.starts[i].Sub(fetcher.starts[i-1])
				assert.GreaterOrEqual(t, gap, time.Second, "gap between fetch %d and %d", i-1, i)
			}
			assert.Equal(t, 1, fetcher.maxInFly, "tickers must never be fetched concurrently")
			assert.Equal(t, len(tickers), cache.Len())
			assert.Equal(t, len(tickers), stats.Fetched)
		})
	}
}

func TestFetchScheduler_NoDelayBeforeFirstFetch(t *testing.T) {
	clock := newFakeClock(fridayEvening)
	fetcher := &recordingFetcher{clock: clock}
	scheduler := NewFetchScheduler(fetcher, clock, time.Second)

	scheduler.Run(context.Background(), []string{"AAPL"}, testLogger())

	require.Len(t, fetcher.starts, 1)
	assert.Equal(t, fridayEvening, fetcher.starts[0])
	assert.Empty(t, clock.sleeps)
}

func TestFetchScheduler_FailureIsolation(t *testing.T) {
	clock := newFakeClock(fridayEvening)
	fetcher := &recordingFetcher{
		clock:   clock,
		latency: 100 * time.Millisecond,
		failing: map[string]bool{"AAPL": true, "MSFT": true},
	}
	scheduler := NewFetchScheduler(fetcher, clock, time.Second)

	cache, stats := scheduler.Run(context.Background(), []string{"AAPL", "TSLA", "MSFT", "GOOG"}, testLogger())

	assert.Equal(t, []string{"AAPL", "TSLA", "MSFT", "GOOG"}, fetcher.calls, "every ticker is attempted exactly once")
	assert.Equal(t, 4, stats.Attempted)
	assert.Equal(t, 2, stats.Fetched)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, []string{"AAPL", "MSFT"}, stats.FailedTickers)

	_, ok := cache.Get("AAPL")
	assert.False(t, ok)
	_, ok = cache.Get("MSFT")
	assert.False(t, ok)
	snapshot, ok := cache.Get("TSLA")
	require.True(t, ok)
	assert.Equal(t, "TSLA", snapshot.Ticker)
	_, ok = cache.Get("GOOG")
	assert.True(t, ok)

	// The delay still applies after a failed fetch
	for i := 1; i < len(fetcher.starts); i++ {
		assert.GreaterOrEqual(t, fetcher.starts[i].Sub(fetcher.starts[i-1]), time.Second)
	}
}

func TestFetchScheduler_FreezesCache(t *testing.T) {
	clock := newFakeClock(fridayEvening)
	scheduler := NewFetchScheduler(&recordingFetcher{clock: clock}, clock, 0)

	cache, stats := scheduler.Run(context.Background(), nil, testLogger())

	assert.True(t, cache.Frozen())
	assert.Zero(t, cache.Len())
	assert.Zero(t, stats.Attempted)
}

func TestFetchScheduler_CancelledContext(t *testing.T) {
	clock := newFakeClock(fridayEvening)
	fetcher := &recordingFetcher{clock: clock}
	scheduler := NewFetchScheduler(fetcher, clock, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cache, stats := scheduler.Run(ctx, []string{"AAPL", "TSLA"}, testLogger())

	assert.Empty(t, fetcher.calls)
	assert.Equal(t, 2, stats.Attempted)
	assert.Equal(t, 2, stats.Failed)
	assert.Zero(t, cache.Len())
	assert.True(t, cache.Frozen())
}

func TestFetchScheduler_WithSnapshotBuilder_OneQueryPerTicker(t *testing.T) {
	clock := newFakeClock(fridayEvening)
	provider := newFakeProvider()
	builder := NewSnapshotBuilder(provider, clock, week, 1)
	scheduler := NewFetchScheduler(builder, clock, time.Second)

	cache, _ := scheduler.Run(context.Background(), []string{"AAPL", "TSLA"}, testLogger())

	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, map[string]int{"AAPL": 1, "TSLA": 1}, provider.quoteCalls)
	assert.Equal(t, map[string]int{"AAPL": 1, "TSLA": 1}, provider.seriesCalls)
	assert.Equal(t, map[string]int{"AAPL": 1, "TSLA": 1}, provider.newsCalls)
}
