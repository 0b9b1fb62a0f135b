package application

import (
	"sync"
	"time"
)

// rankingCache keeps recently computed rankings per job. Entries expire after ttl and are
// dropped when an application of the job is re-scored.
type rankingCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]rankingCacheEntry
}

type rankingCacheEntry struct {
	entries   []RankingEntry
	expiresAt time.Time
}

func newRankingCache(ttl time.Duration, maxEntries int, now func() time.Time) *rankingCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &rankingCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]rankingCacheEntry),
	}
}

func (c *rankingCache) Get(jobID string) ([]RankingEntry, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[jobID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, jobID)
		c.mu.Unlock()
		return nil, false
	}
	return cloneRanking(entry.entries), true
}

func (c *rankingCache) Store(jobID string, entries []RankingEntry) {
	if c == nil {
		return
	}
	cloned := cloneRanking(entries)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if _, exists := c.entries[jobID]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[jobID] = rankingCacheEntry{entries: cloned, expiresAt: expiry}
}

func (c *rankingCache) Invalidate(jobID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, jobID)
	c.mu.Unlock()
}

func (c *rankingCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *rankingCache) evictOneLocked() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey, oldest = key, entry.expiresAt
		}
	}
	delete(c.entries, oldestKey)
}

func cloneRanking(entries []RankingEntry) []RankingEntry {
	out := make([]RankingEntry, len(entries))
	for i, entry := range entries {
		entry.KeyStrengths = append([]string(nil), entry.KeyStrengths...)
		entry.Differentiators = append([]string(nil), entry.Differentiators...)
		out[i] = entry
	}
	return out
}
