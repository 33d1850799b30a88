package testutil

import (
	"context"
	"math"

	"trip-planner/internal/database"
	"trip-planner/internal/models"
)

// MockDistanceProvider prices pairs with scaled Euclidean distance between
// activity coordinates, so tests get deterministic matrices.
type MockDistanceProvider struct {
	ScaleFactor float64
	// Overrides replaces the cost of a directed pair, keyed by database.CacheKey
	Overrides map[string]int64
	// Err is returned from every CostMatrix call when set
	Err   error
	Calls [][]string
}

func NewMockDistanceProvider() *MockDistanceProvider {
	return &MockDistanceProvider{
		ScaleFactor: 111000, // 1 degree ≈ 111km in meters
		Overrides:   make(map[string]int64),
	}
}

func (m *MockDistanceProvider) Name() string { return "mock" }

// SetCost sets a custom cost for a directed pair of activity IDs
func (m *MockDistanceProvider) SetCost(originID, destID string, cost int64) {
	m.Overrides[database.CacheKey(originID, destID)] = cost
}

func (m *MockDistanceProvider) CostMatrix(ctx context.Context, activities []models.Activity) (models.CostMatrix, error) {
	ids := make([]string, len(activities))
	for i, a := range activities {
		ids[i] = a.ExternalID
	}
	m.Calls = append(m.Calls, ids)

	if m.Err != nil {
		return nil, m.Err
	}

	n := len(activities)
	matrix := make(models.CostMatrix, n)
	for i := range matrix {
		matrix[i] = make([]int64, n)
		for j := range matrix[i] {
			if i == j {
				continue
			}
			if cost, ok := m.Overrides[database.CacheKey(ids[i], ids[j])]; ok {
				matrix[i][j] = cost
				continue
			}
			dLat := activities[j].Lat - activities[i].Lat
			dLng := activities[j].Lng - activities[i].Lng
			matrix[i][j] = int64(math.Round(math.Sqrt(dLat*dLat+dLng*dLng) * m.ScaleFactor))
		}
	}

	return matrix, nil
}

// MockDistanceCache is a mock implementation of DistanceCacheRepository for testing
type MockDistanceCache struct {
	entries map[string]*models.DistanceCacheEntry
	// GetBatchCalls counts lookups so tests can assert the cache was consulted
	GetBatchCalls int
}

func NewMockDistanceCache() *MockDistanceCache {
	return &MockDistanceCache{
		entries: make(map[string]*models.DistanceCacheEntry),
	}
}

func (c *MockDistanceCache) Get(ctx context.Context, originID, destID string) (*models.DistanceCacheEntry, error) {
	if entry, ok := c.entries[database.CacheKey(originID, destID)]; ok {
		return entry, nil
	}
	return nil, nil
}

func (c *MockDistanceCache) GetBatch(ctx context.Context, pairs []database.CachePair) (map[string]*models.DistanceCacheEntry, error) {
	c.GetBatchCalls++
	result := make(map[string]*models.DistanceCacheEntry)
	for _, pair := range pairs {
		entry, _ := c.Get(ctx, pair.OriginID, pair.DestinationID)
		if entry != nil {
			result[database.CacheKey(pair.OriginID, pair.DestinationID)] = entry
		}
	}
	return result, nil
}

func (c *MockDistanceCache) Set(ctx context.Context, entry *models.DistanceCacheEntry) error {
	c.entries[database.CacheKey(entry.OriginID, entry.DestinationID)] = entry
	return nil
}

func (c *MockDistanceCache) SetBatch(ctx context.Context, entries []models.DistanceCacheEntry) error {
	for i := range entries {
		c.Set(ctx, &entries[i])
	}
	return nil
}

func (c *MockDistanceCache) Clear(ctx context.Context) error {
	c.entries = make(map[string]*models.DistanceCacheEntry)
	return nil
}

// Count returns the number of entries in the cache
func (c *MockDistanceCache) Count() int {
	return len(c.entries)
}
