package testutil

import (
	"context"
	"fmt"
	"sync"

	"trip-planner/internal/models"
)

// MockPlacesProvider returns canned activities and details
type MockPlacesProvider struct {
	Activities   []models.Activity
	PlaceDetails map[string]*models.PlaceDetails
	SearchErr    error

	mu          sync.Mutex
	Searches    []string
	DetailCalls []string
}

func NewMockPlacesProvider(activities []models.Activity) *MockPlacesProvider {
	return &MockPlacesProvider{
		Activities:   activities,
		PlaceDetails: make(map[string]*models.PlaceDetails),
	}
}

func (m *MockPlacesProvider) Name() string { return "mock" }

func (m *MockPlacesProvider) SearchAttractions(ctx context.Context, place string, limit int) ([]models.Activity, error) {
	m.mu.Lock()
	m.Searches = append(m.Searches, place)
	m.mu.Unlock()

	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if limit > 0 && len(m.Activities) > limit {
		return append([]models.Activity{}, m.Activities[:limit]...), nil
	}
	return append([]models.Activity{}, m.Activities...), nil
}

// Details returns the canned details for id, or an error when none were set.
// Safe for concurrent use.
func (m *MockPlacesProvider) Details(ctx context.Context, id string) (*models.PlaceDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DetailCalls = append(m.DetailCalls, id)
	d, ok := m.PlaceDetails[id]
	if !ok {
		return nil, fmt.Errorf("no details for %s", id)
	}
	return d, nil
}

// GridActivities returns n activities on a small grid with IDs "p0".."p{n-1}"
func GridActivities(n int) []models.Activity {
	acts := make([]models.Activity, n)
	for i := range acts {
		acts[i] = models.Activity{
			Name:       fmt.Sprintf("Place %d", i),
			ExternalID: fmt.Sprintf("p%d", i),
			Lat:        float64(i%4) * 0.01,
			Lng:        float64(i/4) * 0.01,
		}
	}
	return acts
}
