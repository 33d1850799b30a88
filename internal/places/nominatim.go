package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trip-planner/internal/logger"
	"trip-planner/internal/models"
)

// DefaultNominatimBaseURL is the public OpenStreetMap Nominatim instance
const DefaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

type nominatimProvider struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	rateLimiter *time.Ticker
}

type nominatimPlace struct {
	OSMType     string            `json:"osm_type"`
	OSMID       int64             `json:"osm_id"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	ExtraTags   map[string]string `json:"extratags"`
}

// NewNominatimProvider creates an OpenStreetMap places client. Requests are
// limited to one per second as the public usage policy requires.
func NewNominatimProvider(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNominatimBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &nominatimProvider{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: time.NewTicker(1 * time.Second),
	}
}

func (n *nominatimProvider) Name() string { return "nominatim" }

func (n *nominatimProvider) SearchAttractions(ctx context.Context, place string, limit int) ([]models.Activity, error) {
	query := "tourist attraction in " + place
	if limit <= 0 {
		limit = models.MaxPerCategory * len(models.Categories)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(limit))

	var results []nominatimPlace
	if err := n.getJSON(ctx, "/search", params, query, &results); err != nil {
		return nil, err
	}

	activities := make([]models.Activity, 0, len(results))
	for _, r := range results {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lng, errLng := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLng != nil {
			logger.Warn("skipping result with invalid coordinates", "component", "nominatim", "osm_id", r.OSMID, "lat", r.Lat, "lon", r.Lon)
			continue
		}
		activities = append(activities, models.Activity{
			Name:       r.displayName(),
			ExternalID: osmLookupID(r.OSMType, r.OSMID),
			Address:    r.DisplayName,
			Lat:        lat,
			Lng:        lng,
		})
	}

	logger.Info("search response", "component", "nominatim", "query", query, "results", len(activities))
	return activities, nil
}

func (n *nominatimProvider) Details(ctx context.Context, id string) (*models.PlaceDetails, error) {
	params := url.Values{}
	params.Set("osm_ids", id)
	params.Set("format", "jsonv2")
	params.Set("extratags", "1")

	var results []nominatimPlace
	if err := n.getJSON(ctx, "/lookup", params, id, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, &ErrPlacesRequestFailed{Provider: n.Name(), Query: id, Reason: "no results found"}
	}

	r := results[0]
	details := &models.PlaceDetails{
		Name:    r.displayName(),
		Address: r.DisplayName,
	}
	if hours := r.ExtraTags["opening_hours"]; hours != "" {
		for _, part := range strings.Split(hours, ";") {
			if part = strings.TrimSpace(part); part != "" {
				details.OpeningHours = append(details.OpeningHours, part)
			}
		}
	}
	return details, nil
}

func (n *nominatimProvider) getJSON(ctx context.Context, path string, params url.Values, query string, out interface{}) error {
	select {
	case <-n.rateLimiter.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	queryURL := n.baseURL + path + "?" + params.Encode()
	logger.Debug("request", "component", "nominatim", "url", queryURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return &ErrPlacesRequestFailed{Provider: n.Name(), Query: query, Reason: err.Error()}
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		logger.Error("nominatim API request failed", "component", "nominatim", "query", query, "error", err)
		return &ErrPlacesRequestFailed{Provider: n.Name(), Query: query, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logger.Error("nominatim API error", "component", "nominatim", "query", query, "status", resp.StatusCode)
		return &ErrPlacesRequestFailed{
			Provider: n.Name(),
			Query:    query,
			Reason:   fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ErrPlacesRequestFailed{Provider: n.Name(), Query: query, Reason: err.Error()}
	}
	return nil
}

func (r nominatimPlace) displayName() string {
	if r.Name != "" {
		return r.Name
	}
	if i := strings.Index(r.DisplayName, ","); i > 0 {
		return r.DisplayName[:i]
	}
	return r.DisplayName
}

// osmLookupID builds the id format accepted by /lookup, e.g. "N123" for a node
func osmLookupID(osmType string, id int64) string {
	prefix := "N"
	switch osmType {
	case "way":
		prefix = "W"
	case "relation":
		prefix = "R"
	}
	return prefix + strconv.FormatInt(id, 10)
}
