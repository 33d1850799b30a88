package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trip-planner/internal/database"
	"trip-planner/internal/logger"
	"trip-planner/internal/models"
)

// DefaultOSRMBaseURL is the public OSRM demo server
const DefaultOSRMBaseURL = "https://router.project-osrm.org"

// maxOSRMCoordinates is the maximum number of coordinates OSRM public API accepts
const maxOSRMCoordinates = 80

type osrmProvider struct {
	baseURL    string
	httpClient *http.Client
	cache      database.DistanceCacheRepository
	metric     Metric
}

type osrmTableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// NewOSRMProvider creates an OSRM table client that prices pairs by activity
// coordinates and caches results by activity ID.
func NewOSRMProvider(cfg Config, cache database.DistanceCacheRepository) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOSRMBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &osrmProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cache,
		metric: cfg.Metric,
	}
}

func (c *osrmProvider) Name() string { return "osrm" }

func (c *osrmProvider) CostMatrix(ctx context.Context, activities []models.Activity) (models.CostMatrix, error) {
	return cachedMatrix(ctx, c.Name(), c.cache, activities, c.metric, c.fetchTable)
}

// fetchTable requests the full matrix in a single OSRM table call
func (c *osrmProvider) fetchTable(ctx context.Context, activities []models.Activity) ([][]DistanceResult, error) {
	n := len(activities)
	if n > maxOSRMCoordinates {
		return nil, &ErrDistanceCalculationFailed{
			Provider: c.Name(),
			Reason:   fmt.Sprintf("%d points exceeds the %d coordinate limit", n, maxOSRMCoordinates),
		}
	}

	coords := make([]string, n)
	for i, a := range activities {
		pt := a.GetCoords()
		coords[i] = fmt.Sprintf("%.6f,%.6f", pt.Lng, pt.Lat)
	}

	queryURL := fmt.Sprintf("%s/table/v1/driving/%s?annotations=distance,duration", c.baseURL, strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, &ErrDistanceCalculationFailed{Provider: c.Name(), Reason: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("OSRM API request failed", "component", "osrm", "points", n, "error", err)
		return nil, &ErrDistanceCalculationFailed{Provider: c.Name(), Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logger.Error("OSRM API error", "component", "osrm", "points", n, "status", resp.StatusCode, "body", string(body))
		return nil, &ErrDistanceCalculationFailed{
			Provider: c.Name(),
			Reason:   fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var osrmResp osrmTableResponse
	if err := json.NewDecoder(resp.Body).Decode(&osrmResp); err != nil {
		return nil, &ErrDistanceCalculationFailed{Provider: c.Name(), Reason: err.Error()}
	}

	if osrmResp.Code != "Ok" {
		logger.Error("OSRM returned error code", "component", "osrm", "points", n, "code", osrmResp.Code)
		return nil, &ErrDistanceCalculationFailed{Provider: c.Name(), Reason: fmt.Sprintf("OSRM error: %s %s", osrmResp.Code, osrmResp.Message)}
	}

	if len(osrmResp.Distances) != n || len(osrmResp.Durations) != n {
		return nil, &ErrDistanceCalculationFailed{
			Provider: c.Name(),
			Reason:   fmt.Sprintf("table has %d rows, want %d", len(osrmResp.Distances), n),
		}
	}

	results := make([][]DistanceResult, n)
	for i := 0; i < n; i++ {
		results[i] = make([]DistanceResult, n)
		if len(osrmResp.Distances[i]) != n || len(osrmResp.Durations[i]) != n {
			// A short row leaves the whole row unpriced rather than shifting indices
			continue
		}
		for j := 0; j < n; j++ {
			dist, dur := osrmResp.Distances[i][j], osrmResp.Durations[i][j]
			if dist == nil || dur == nil {
				continue
			}
			results[i][j] = DistanceResult{DistanceMeters: *dist, DurationSecs: *dur, OK: true}
		}
	}

	logger.Debug("OSRM table response", "component", "osrm", "points", n)
	return results, nil
}
