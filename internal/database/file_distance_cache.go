package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"trip-planner/internal/logger"
	"trip-planner/internal/models"
)

// FileDistanceCacheData represents the structure of the cache file
type FileDistanceCacheData struct {
	Entries []models.DistanceCacheEntry `json:"entries"`
}

// FileDistanceCache is a file-based implementation of DistanceCacheRepository
type FileDistanceCache struct {
	filePath string
	data     *FileDistanceCacheData
	index    map[string]int // key -> position in Entries
	mu       sync.RWMutex
}

// NewFileDistanceCache opens the cache file at path, or the default location
// when path is empty. A missing file is created.
func NewFileDistanceCache(path string) (*FileDistanceCache, error) {
	if path == "" {
		var err error
		path, err = GetDistanceCachePath()
		if err != nil {
			return nil, fmt.Errorf("failed to get cache file path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	logger.Info("using distance cache file", "component", "cache", "path", path)

	cache := &FileDistanceCache{
		filePath: path,
		data:     &FileDistanceCacheData{Entries: []models.DistanceCacheEntry{}},
		index:    make(map[string]int),
	}

	if err := cache.load(); err != nil {
		return nil, err
	}
	logger.Debug("distance cache loaded", "component", "cache", "entries", cache.Len())

	return cache, nil
}

func (c *FileDistanceCache) load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.filePath)
	if os.IsNotExist(err) {
		c.data = &FileDistanceCacheData{Entries: []models.DistanceCacheEntry{}}
		return c.saveUnlocked()
	}
	if err != nil {
		return fmt.Errorf("failed to read cache file: %w", err)
	}

	if err := json.Unmarshal(data, c.data); err != nil {
		return fmt.Errorf("failed to parse cache file: %w", err)
	}

	if c.data.Entries == nil {
		c.data.Entries = []models.DistanceCacheEntry{}
	}

	c.rebuildIndex()

	logger.Debug("loaded distance cache", "component", "cache", "entries", len(c.data.Entries))
	return nil
}

func (c *FileDistanceCache) saveUnlocked() error {
	data, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	tmpFile := c.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}

	if err := os.Rename(tmpFile, c.filePath); err != nil {
		return fmt.Errorf("failed to rename temp cache file: %w", err)
	}

	return nil
}

func (c *FileDistanceCache) Get(ctx context.Context, originID, destID string) (*models.DistanceCacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if idx, ok := c.index[CacheKey(originID, destID)]; ok {
		// Copy so callers cannot modify cache data without the lock
		entryCopy := c.data.Entries[idx]
		return &entryCopy, nil
	}
	return nil, nil
}

func (c *FileDistanceCache) GetBatch(ctx context.Context, pairs []CachePair) (map[string]*models.DistanceCacheEntry, error) {
	result := make(map[string]*models.DistanceCacheEntry)

	for _, pair := range pairs {
		entry, err := c.Get(ctx, pair.OriginID, pair.DestinationID)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			result[CacheKey(pair.OriginID, pair.DestinationID)] = entry
		}
	}

	return result, nil
}

func (c *FileDistanceCache) Set(ctx context.Context, entry *models.DistanceCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.putUnlocked(*entry)
	return c.saveUnlocked()
}

func (c *FileDistanceCache) SetBatch(ctx context.Context, entries []models.DistanceCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range entries {
		c.putUnlocked(entry)
	}

	return c.saveUnlocked()
}

func (c *FileDistanceCache) putUnlocked(entry models.DistanceCacheEntry) {
	key := CacheKey(entry.OriginID, entry.DestinationID)
	if idx, ok := c.index[key]; ok {
		c.data.Entries[idx] = entry
		return
	}
	c.data.Entries = append(c.data.Entries, entry)
	c.index[key] = len(c.data.Entries) - 1
}

func (c *FileDistanceCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data.Entries = []models.DistanceCacheEntry{}
	c.index = make(map[string]int)
	return c.saveUnlocked()
}

// Len returns the number of cached pairs
func (c *FileDistanceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data.Entries)
}

// rebuildIndex creates the index map from the current entries slice.
// Must be called with the mutex already held.
func (c *FileDistanceCache) rebuildIndex() {
	c.index = make(map[string]int, len(c.data.Entries))
	for i := range c.data.Entries {
		c.index[CacheKey(c.data.Entries[i].OriginID, c.data.Entries[i].DestinationID)] = i
	}
}
