package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trip-planner/internal/database"
	"trip-planner/internal/logger"
	"trip-planner/internal/models"
)

// DefaultGoogleBaseURL is the Google Maps web services host
const DefaultGoogleBaseURL = "https://maps.googleapis.com"

// maxGoogleElements is the per-request element limit of the Distance Matrix API
const maxGoogleElements = 100

type googleProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      database.DistanceCacheRepository
	metric     Metric
}

type googleMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []googleMatrixElement `json:"elements"`
	} `json:"rows"`
}

type googleMatrixElement struct {
	Status   string `json:"status"`
	Distance struct {
		Value float64 `json:"value"`
	} `json:"distance"`
	Duration struct {
		Value float64 `json:"value"`
	} `json:"duration"`
}

// NewGoogleProvider creates a Distance Matrix client that addresses activities
// by place ID.
func NewGoogleProvider(cfg Config, cache database.DistanceCacheRepository) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGoogleBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &googleProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cache,
		metric: cfg.Metric,
	}
}

func (c *googleProvider) Name() string { return "google" }

func (c *googleProvider) CostMatrix(ctx context.Context, activities []models.Activity) (models.CostMatrix, error) {
	return cachedMatrix(ctx, c.Name(), c.cache, activities, c.metric, c.fetchMatrix)
}

// fetchMatrix requests the matrix in blocks of origin rows so each request
// stays within the element limit.
func (c *googleProvider) fetchMatrix(ctx context.Context, activities []models.Activity) ([][]DistanceResult, error) {
	n := len(activities)
	rowsPerRequest := maxGoogleElements / n
	if rowsPerRequest < 1 {
		return nil, &ErrDistanceCalculationFailed{
			Provider: c.Name(),
			Reason:   fmt.Sprintf("%d destinations exceeds the %d element limit", n, maxGoogleElements),
		}
	}

	destinations := placeIDList(activities)
	results := make([][]DistanceResult, 0, n)

	for start := 0; start < n; start += rowsPerRequest {
		end := start + rowsPerRequest
		if end > n {
			end = n
		}

		rows, err := c.fetchRows(ctx, placeIDList(activities[start:end]), destinations, end-start, n)
		if err != nil {
			return nil, err
		}
		results = append(results, rows...)
	}

	return results, nil
}

func (c *googleProvider) fetchRows(ctx context.Context, origins, destinations string, nOrigins, nDest int) ([][]DistanceResult, error) {
	params := url.Values{}
	params.Set("origins", origins)
	params.Set("destinations", destinations)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/maps/api/distancematrix/json?"+params.Encode(), nil)
	if err != nil {
		return nil, &ErrDistanceCalculationFailed{Provider: c.Name(), Reason: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("distance matrix request failed", "component", "google", "origins", nOrigins, "error", err)
		return nil, &ErrDistanceCalculationFailed{Provider: c.Name(), Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &ErrDistanceCalculationFailed{
			Provider: c.Name(),
			Reason:   fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var matrixResp googleMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&matrixResp); err != nil {
		return nil, &ErrDistanceCalculationFailed{Provider: c.Name(), Reason: err.Error()}
	}

	if matrixResp.Status != "OK" {
		logger.Error("distance matrix returned error status", "component", "google", "status", matrixResp.Status, "message", matrixResp.ErrorMessage)
		return nil, &ErrDistanceCalculationFailed{
			Provider: c.Name(),
			Reason:   fmt.Sprintf("status %s: %s", matrixResp.Status, matrixResp.ErrorMessage),
		}
	}

	if len(matrixResp.Rows) != nOrigins {
		return nil, &ErrDistanceCalculationFailed{
			Provider: c.Name(),
			Reason:   fmt.Sprintf("response has %d rows, want %d", len(matrixResp.Rows), nOrigins),
		}
	}

	rows := make([][]DistanceResult, nOrigins)
	skipped := 0
	for i, row := range matrixResp.Rows {
		rows[i] = make([]DistanceResult, nDest)
		if len(row.Elements) != nDest {
			skipped += nDest
			continue
		}
		for j, el := range row.Elements {
			if el.Status != "OK" {
				skipped++
				continue
			}
			rows[i][j] = DistanceResult{DistanceMeters: el.Distance.Value, DurationSecs: el.Duration.Value, OK: true}
		}
	}

	if skipped > 0 {
		logger.Warn("distance matrix has unpriced pairs", "component", "google", "missing", skipped)
	}

	return rows, nil
}

func placeIDList(activities []models.Activity) string {
	ids := make([]string, len(activities))
	for i, a := range activities {
		ids[i] = "place_id:" + a.ExternalID
	}
	return strings.Join(ids, "|")
}
