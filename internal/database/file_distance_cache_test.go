package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"trip-planner/internal/models"
)

func newTestFileCache(t *testing.T) (*FileDistanceCache, string) {
	t.Helper()
	cachePath := filepath.Join(t.TempDir(), "cache", "distances.json")

	cache, err := NewFileDistanceCache(cachePath)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return cache, cachePath
}

func TestFileCache_CreatesMissingFile(t *testing.T) {
	_, cachePath := newTestFileCache(t)

	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("cache file should exist after open: %v", err)
	}
}

func TestFileCache_DirectedPairs(t *testing.T) {
	cache, _ := newTestFileCache(t)
	ctx := context.Background()

	entry := &models.DistanceCacheEntry{
		OriginID:       "place-a",
		DestinationID:  "place-b",
		DistanceMeters: 1000,
		DurationSecs:   60,
	}
	if err := cache.Set(ctx, entry); err != nil {
		t.Fatalf("failed to set cache entry: %v", err)
	}

	result, err := cache.Get(ctx, "place-a", "place-b")
	if err != nil {
		t.Fatalf("failed to get cache entry: %v", err)
	}
	if result == nil {
		t.Fatal("expected to find cache entry")
	}
	if result.DistanceMeters != 1000 {
		t.Errorf("expected distance 1000, got %f", result.DistanceMeters)
	}

	// Distances can be asymmetric, so the reverse direction is a separate entry
	reverse, err := cache.Get(ctx, "place-b", "place-a")
	if err != nil {
		t.Fatalf("failed to get cache entry: %v", err)
	}
	if reverse != nil {
		t.Error("reverse direction should not be cached")
	}
}

func TestFileCache_BatchSetAndGet(t *testing.T) {
	cache, cachePath := newTestFileCache(t)
	ctx := context.Background()

	entries := []models.DistanceCacheEntry{
		{OriginID: "a", DestinationID: "b", DistanceMeters: 100, DurationSecs: 10},
		{OriginID: "b", DestinationID: "c", DistanceMeters: 200, DurationSecs: 20},
		{OriginID: "c", DestinationID: "a", DistanceMeters: 300, DurationSecs: 30},
	}

	if err := cache.SetBatch(ctx, entries); err != nil {
		t.Fatalf("failed to batch set: %v", err)
	}

	found, err := cache.GetBatch(ctx, []CachePair{
		{OriginID: "a", DestinationID: "b"},
		{OriginID: "c", DestinationID: "a"},
		{OriginID: "a", DestinationID: "c"},
	})
	if err != nil {
		t.Fatalf("failed to batch get: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(found))
	}
	if found[CacheKey("c", "a")].DistanceMeters != 300 {
		t.Errorf("distance mismatch for c->a: %f", found[CacheKey("c", "a")].DistanceMeters)
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		t.Fatalf("failed to read cache file: %v", err)
	}
	if len(data) == 0 {
		t.Error("cache file should not be empty")
	}
}

func TestFileCache_Persistence(t *testing.T) {
	cache1, cachePath := newTestFileCache(t)
	ctx := context.Background()

	entry := &models.DistanceCacheEntry{OriginID: "x", DestinationID: "y", DistanceMeters: 5000, DurationSecs: 300}
	if err := cache1.Set(ctx, entry); err != nil {
		t.Fatalf("failed to set entry: %v", err)
	}

	cache2, err := NewFileDistanceCache(cachePath)
	if err != nil {
		t.Fatalf("failed to reopen cache: %v", err)
	}

	result, err := cache2.Get(ctx, "x", "y")
	if err != nil {
		t.Fatalf("failed to get entry: %v", err)
	}
	if result == nil {
		t.Fatal("entry should be persisted and loadable")
	}
	if result.DistanceMeters != 5000 {
		t.Errorf("expected distance 5000, got %f", result.DistanceMeters)
	}
}

func TestFileCache_Clear(t *testing.T) {
	cache, _ := newTestFileCache(t)
	ctx := context.Background()

	if err := cache.SetBatch(ctx, []models.DistanceCacheEntry{
		{OriginID: "a", DestinationID: "b", DistanceMeters: 100},
		{OriginID: "b", DestinationID: "a", DistanceMeters: 200},
	}); err != nil {
		t.Fatalf("failed to batch set: %v", err)
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("failed to clear cache: %v", err)
	}

	result, _ := cache.Get(ctx, "a", "b")
	if result != nil {
		t.Error("entry should not exist after clear")
	}
	if cache.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", cache.Len())
	}
}

func TestFileCache_UpdateExisting(t *testing.T) {
	cache, _ := newTestFileCache(t)
	ctx := context.Background()

	cache.Set(ctx, &models.DistanceCacheEntry{OriginID: "a", DestinationID: "b", DistanceMeters: 1000, DurationSecs: 60})
	cache.Set(ctx, &models.DistanceCacheEntry{OriginID: "a", DestinationID: "b", DistanceMeters: 2000, DurationSecs: 120})

	result, _ := cache.Get(ctx, "a", "b")
	if result == nil {
		t.Fatal("entry should exist")
	}
	if result.DistanceMeters != 2000 {
		t.Errorf("expected updated distance 2000, got %f", result.DistanceMeters)
	}
	if result.DurationSecs != 120 {
		t.Errorf("expected updated duration 120, got %f", result.DurationSecs)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 entry, got %d (duplicate created)", cache.Len())
	}
}

func TestFileCache_ReturnsCopies(t *testing.T) {
	cache, _ := newTestFileCache(t)
	ctx := context.Background()

	cache.Set(ctx, &models.DistanceCacheEntry{OriginID: "a", DestinationID: "b", DistanceMeters: 10})

	first, _ := cache.Get(ctx, "a", "b")
	first.DistanceMeters = 999

	second, _ := cache.Get(ctx, "a", "b")
	if second.DistanceMeters != 10 {
		t.Errorf("cache entry was modified through a returned pointer: %f", second.DistanceMeters)
	}
}
