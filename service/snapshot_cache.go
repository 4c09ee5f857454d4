package service

import (
	"stockdigest/models"
)

// SnapshotCache maps normalized tickers to the snapshot computed for this run.
// It is written only by the FetchScheduler during the fetch phase and frozen before
// composition starts, so it carries no lock.
type SnapshotCache struct {
	snapshots map[string]*models.MarketSnapshot
	frozen    bool
}

// NewSnapshotCache creates an empty cache
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{
		snapshots: make(map[string]*models.MarketSnapshot),
	}
}

// Put stores a snapshot. Writing to a frozen cache is a programming error.
func (c *SnapshotCache) Put(snapshot *models.MarketSnapshot) {
	if c.frozen {
		panic("snapshot cache written after fetch phase ended")
	}
	c.snapshots[snapshot.Ticker] = snapshot
}

// Freeze ends the fetch phase
func (c *SnapshotCache) Freeze() {
	c.frozen = true
}

// Frozen reports whether the fetch phase has ended
func (c *SnapshotCache) Frozen() bool {
	return c.frozen
}

// Get returns the snapshot for a normalized ticker
func (c *SnapshotCache) Get(ticker string) (*models.MarketSnapshot, bool) {
	snapshot, ok := c.snapshots[ticker]
	return snapshot, ok
}

// Len returns the number of cached snapshots
func (c *SnapshotCache) Len() int {
	return len(c.snapshots)
}
