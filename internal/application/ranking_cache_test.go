package application

import (
	"testing"
	"time"
)

func TestRankingCacheStoresAndReturnsCopies(t *testing.T) {
	current := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cache := newRankingCache(time.Minute, 4, func() time.Time { return current })

	original := []RankingEntry{{ApplicationID: "app-1", Rank: 1, KeyStrengths: []string{"Go"}}}
	cache.Store("job-1", original)

	original[0].ApplicationID = "mutated"
	original[0].KeyStrengths[0] = "mutated"

	cached, ok := cache.Get("job-1")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if cached[0].ApplicationID != "app-1" || cached[0].KeyStrengths[0] != "Go" {
		t.Fatalf("expected cached entry to remain unchanged, got %#v", cached[0])
	}

	cached[0].Rank = 99
	again, _ := cache.Get("job-1")
	if again[0].Rank != 1 {
		t.Fatalf("expected cache to return independent copy, got rank %d", again[0].Rank)
	}
}

func TestRankingCacheExpiresEntries(t *testing.T) {
	current := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cache := newRankingCache(time.Second, 4, func() time.Time { return current })

	cache.Store("job-1", []RankingEntry{{ApplicationID: "app-1"}})
	if _, ok := cache.Get("job-1"); !ok {
		t.Fatalf("expected cache hit before expiry")
	}

	current = current.Add(2 * time.Second)
	if _, ok := cache.Get("job-1"); ok {
		t.Fatalf("expected cache entry to expire")
	}
}

func TestRankingCacheInvalidateAndEviction(t *testing.T) {
	current := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cache := newRankingCache(time.Minute, 2, func() time.Time { return current })

	cache.Store("job-1", nil)
	current = current.Add(time.Second)
	cache.Store("job-2", nil)
	current = current.Add(time.Second)
	cache.Store("job-3", nil)

	if _, ok := cache.Get("job-1"); ok {
		t.Fatalf("expected oldest entry to be evicted")
	}
	if _, ok := cache.Get("job-3"); !ok {
		t.Fatalf("expected newest entry to be cached")
	}

	cache.Invalidate("job-3")
	if _, ok := cache.Get("job-3"); ok {
		t.Fatalf("expected entry to be dropped after invalidation")
	}
}
