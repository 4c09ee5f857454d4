package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotCache(t *testing.T) {
	cache := NewSnapshotCache()
	cache.Put(snapshotFor("AAPL"))
	cache.Put(snapshotFor("AAPL"))
	cache.Put(snapshotFor("TSLA"))

	assert.Equal(t, 2, cache.Len())
	assert.False(t, cache.Frozen())

	cache.Freeze()
	assert.True(t, cache.Frozen())

	snapshot, ok := cache.Get("AAPL")
	assert.True(t, ok)
	assert.Equal(t, "AAPL", snapshot.Ticker)

	_, ok = cache.Get("aapl")
	assert.False(t, ok, "lookups expect normalized tickers")

	assert.Panics(t, func() {
		cache.Put(snapshotFor("MSFT"))
	})
}
