package database

import (
	"context"
	"sync"

	"trip-planner/internal/models"
)

// MemoryDistanceCache keeps entries for the lifetime of the process only
type MemoryDistanceCache struct {
	entries map[string]models.DistanceCacheEntry
	mu      sync.RWMutex
}

// NewMemoryDistanceCache creates an empty in-memory cache
func NewMemoryDistanceCache() *MemoryDistanceCache {
	return &MemoryDistanceCache{entries: make(map[string]models.DistanceCacheEntry)}
}

func (c *MemoryDistanceCache) Get(ctx context.Context, originID, destID string) (*models.DistanceCacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[CacheKey(originID, destID)]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (c *MemoryDistanceCache) GetBatch(ctx context.Context, pairs []CachePair) (map[string]*models.DistanceCacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]*models.DistanceCacheEntry)
	for _, pair := range pairs {
		key := CacheKey(pair.OriginID, pair.DestinationID)
		if entry, ok := c.entries[key]; ok {
			result[key] = &entry
		}
	}
	return result, nil
}

func (c *MemoryDistanceCache) Set(ctx context.Context, entry *models.DistanceCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[CacheKey(entry.OriginID, entry.DestinationID)] = *entry
	return nil
}

func (c *MemoryDistanceCache) SetBatch(ctx context.Context, entries []models.DistanceCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range entries {
		c.entries[CacheKey(entry.OriginID, entry.DestinationID)] = entry
	}
	return nil
}

func (c *MemoryDistanceCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]models.DistanceCacheEntry)
	return nil
}
