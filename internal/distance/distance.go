package distance

import (
	"context"
	"fmt"
	"math"
	"time"

	"trip-planner/internal/database"
	"trip-planner/internal/logger"
	"trip-planner/internal/models"
)

// Provider prices travel between every ordered pair of activities
type Provider interface {
	Name() string
	// CostMatrix returns an N×N matrix indexed like activities. Pairs the
	// provider could not price hold models.MissingEdge.
	CostMatrix(ctx context.Context, activities []models.Activity) (models.CostMatrix, error)
}

// Metric selects which measurement becomes the routing cost
type Metric string

const (
	MetricDistance Metric = "distance"
	MetricDuration Metric = "duration"
)

// Config holds settings shared by the HTTP providers
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Metric  Metric
}

// ErrDistanceCalculationFailed is returned when the distance API fails
type ErrDistanceCalculationFailed struct {
	Provider string
	OriginID string
	DestID   string
	Reason   string
}

func (e *ErrDistanceCalculationFailed) Error() string {
	if e.OriginID != "" {
		return fmt.Sprintf("%s distance calculation failed for %s->%s: %s", e.Provider, e.OriginID, e.DestID, e.Reason)
	}
	return fmt.Sprintf("%s distance calculation failed: %s", e.Provider, e.Reason)
}

// DistanceResult is one priced pair; OK is false when the provider had no route
type DistanceResult struct {
	DistanceMeters float64
	DurationSecs   float64
	OK             bool
}

// fetchFunc fills every off-diagonal pair of the full matrix from the remote API
type fetchFunc func(ctx context.Context, activities []models.Activity) ([][]DistanceResult, error)

// cachedMatrix serves the matrix from cache when every pair is known and
// otherwise fetches the whole matrix once and stores the priced pairs.
func cachedMatrix(ctx context.Context, provider string, cache database.DistanceCacheRepository, activities []models.Activity, metric Metric, fetch fetchFunc) (models.CostMatrix, error) {
	n := len(activities)
	if n == 0 {
		return models.CostMatrix{}, nil
	}

	results := make([][]DistanceResult, n)
	for i := range results {
		results[i] = make([]DistanceResult, n)
		results[i][i] = DistanceResult{OK: true}
	}

	var pairs []database.CachePair
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				pairs = append(pairs, database.CachePair{OriginID: activities[i].ExternalID, DestinationID: activities[j].ExternalID})
			}
		}
	}

	missing := len(pairs)
	if cache != nil && len(pairs) > 0 {
		cached, err := cache.GetBatch(ctx, pairs)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				if entry, ok := cached[database.CacheKey(activities[i].ExternalID, activities[j].ExternalID)]; ok {
					results[i][j] = DistanceResult{DistanceMeters: entry.DistanceMeters, DurationSecs: entry.DurationSecs, OK: true}
					missing--
				}
			}
		}
	}

	if missing == 0 {
		logger.Debug("distance matrix all cached", "component", provider, "points", n)
		return toCostMatrix(results, metric), nil
	}

	logger.Info("distance matrix request", "component", provider, "points", n, "cached", len(pairs)-missing, "missing", missing)

	fetched, err := fetch(ctx, activities)
	if err != nil {
		return nil, err
	}

	var entries []models.DistanceCacheEntry
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || !fetched[i][j].OK {
				continue
			}
			results[i][j] = fetched[i][j]
			entries = append(entries, models.DistanceCacheEntry{
				OriginID:       activities[i].ExternalID,
				DestinationID:  activities[j].ExternalID,
				DistanceMeters: fetched[i][j].DistanceMeters,
				DurationSecs:   fetched[i][j].DurationSecs,
			})
		}
	}

	if cache != nil && len(entries) > 0 {
		if err := cache.SetBatch(ctx, entries); err != nil {
			logger.Warn("failed to cache distances", "component", provider, "entries", len(entries), "error", err)
		}
	}

	return toCostMatrix(results, metric), nil
}

func toCostMatrix(results [][]DistanceResult, metric Metric) models.CostMatrix {
	m := make(models.CostMatrix, len(results))
	for i, row := range results {
		m[i] = make([]int64, len(row))
		for j, r := range row {
			switch {
			case i == j:
				m[i][j] = 0
			case !r.OK:
				m[i][j] = models.MissingEdge
			case metric == MetricDuration:
				m[i][j] = int64(math.Round(r.DurationSecs))
			default:
				m[i][j] = int64(math.Round(r.DistanceMeters))
			}
		}
	}
	return m
}
