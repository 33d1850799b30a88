package places

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trip-planner/internal/logger"
	"trip-planner/internal/models"
)

// Provider finds attractions for a destination and looks up their details
type Provider interface {
	Name() string
	SearchAttractions(ctx context.Context, place string, limit int) ([]models.Activity, error)
	Details(ctx context.Context, id string) (*models.PlaceDetails, error)
}

// Config holds settings shared by the places clients
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	UserAgent string
}

// DefaultUserAgent identifies the planner to public APIs that require it
const DefaultUserAgent = "TripPlanner/1.0"

// ErrPlacesRequestFailed is returned when a places API call fails
type ErrPlacesRequestFailed struct {
	Provider string
	Query    string
	Reason   string
}

func (e *ErrPlacesRequestFailed) Error() string {
	return fmt.Sprintf("%s places request failed for %q: %s", e.Provider, e.Query, e.Reason)
}

// SearchWithRetry retries failed searches with exponential backoff.
// Context cancellation stops retrying immediately.
func SearchWithRetry(ctx context.Context, p Provider, place string, limit, maxRetries int) ([]models.Activity, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		results, err := p.SearchAttractions(ctx, place, limit)
		if err == nil {
			if i > 0 {
				logger.Info("places search succeeded after retry", "component", p.Name(), "attempts", i+1, "place", place)
			}
			return results, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		lastErr = err

		if i < maxRetries-1 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			logger.Warn("places search retry", "component", p.Name(), "attempt", i+1, "max", maxRetries, "backoff", backoff, "error", err)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	logger.Error("places search failed", "component", p.Name(), "attempts", maxRetries, "place", place, "error", lastErr)
	return nil, lastErr
}
