package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trip-planner/internal/logger"
	"trip-planner/internal/models"
)

// DefaultGoogleBaseURL is the Google Maps web services host
const DefaultGoogleBaseURL = "https://maps.googleapis.com"

// detailFields are the place detail fields shown next to the itinerary
const detailFields = "name,rating,formatted_address,opening_hours,price_level"

type googleProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type googleTextSearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Name             string `json:"name"`
		PlaceID          string `json:"place_id"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type googleDetailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Name             string  `json:"name"`
		Rating           float64 `json:"rating"`
		FormattedAddress string  `json:"formatted_address"`
		PriceLevel       int     `json:"price_level"`
		OpeningHours     struct {
			WeekdayText []string `json:"weekday_text"`
		} `json:"opening_hours"`
	} `json:"result"`
}

// NewGoogleProvider creates a Google Places client using text search and place details
func NewGoogleProvider(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGoogleBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &googleProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (g *googleProvider) Name() string { return "google" }

func (g *googleProvider) SearchAttractions(ctx context.Context, place string, limit int) ([]models.Activity, error) {
	query := "tourist attractions in " + place
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", g.apiKey)

	logger.Debug("text search request", "component", "google", "query", query)

	var resp googleTextSearchResponse
	if err := g.getJSON(ctx, "/maps/api/place/textsearch/json", params, query, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case "OK":
	case "ZERO_RESULTS":
		logger.Info("text search returned no results", "component", "google", "query", query)
		return []models.Activity{}, nil
	default:
		return nil, &ErrPlacesRequestFailed{
			Provider: g.Name(),
			Query:    query,
			Reason:   fmt.Sprintf("status %s: %s", resp.Status, resp.ErrorMessage),
		}
	}

	activities := make([]models.Activity, 0, len(resp.Results))
	for _, r := range resp.Results {
		if limit > 0 && len(activities) >= limit {
			break
		}
		activities = append(activities, models.Activity{
			Name:       r.Name,
			ExternalID: r.PlaceID,
			Address:    r.FormattedAddress,
			Lat:        r.Geometry.Location.Lat,
			Lng:        r.Geometry.Location.Lng,
		})
	}

	logger.Info("text search response", "component", "google", "query", query, "results", len(activities))
	return activities, nil
}

func (g *googleProvider) Details(ctx context.Context, id string) (*models.PlaceDetails, error) {
	params := url.Values{}
	params.Set("place_id", id)
	params.Set("fields", detailFields)
	params.Set("key", g.apiKey)

	var resp googleDetailsResponse
	if err := g.getJSON(ctx, "/maps/api/place/details/json", params, id, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "OK" {
		return nil, &ErrPlacesRequestFailed{
			Provider: g.Name(),
			Query:    id,
			Reason:   fmt.Sprintf("status %s: %s", resp.Status, resp.ErrorMessage),
		}
	}

	return &models.PlaceDetails{
		Name:         resp.Result.Name,
		Rating:       resp.Result.Rating,
		Address:      resp.Result.FormattedAddress,
		OpeningHours: resp.Result.OpeningHours.WeekdayText,
		PriceLevel:   resp.Result.PriceLevel,
	}, nil
}

func (g *googleProvider) getJSON(ctx context.Context, path string, params url.Values, query string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return &ErrPlacesRequestFailed{Provider: g.Name(), Query: query, Reason: err.Error()}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		logger.Error("places API request failed", "component", "google", "query", query, "error", err)
		return &ErrPlacesRequestFailed{Provider: g.Name(), Query: query, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logger.Error("places API error", "component", "google", "query", query, "status", resp.StatusCode)
		return &ErrPlacesRequestFailed{
			Provider: g.Name(),
			Query:    query,
			Reason:   fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ErrPlacesRequestFailed{Provider: g.Name(), Query: query, Reason: err.Error()}
	}
	return nil
}
