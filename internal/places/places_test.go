package places

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner/internal/models"
)

type flakyProvider struct {
	failures int
	calls    int
}

func (f *flakyProvider) Name() string { return "flaky" }

func (f *flakyProvider) SearchAttractions(ctx context.Context, place string, limit int) ([]models.Activity, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, &ErrPlacesRequestFailed{Provider: "flaky", Query: place, Reason: "temporary"}
	}
	return []models.Activity{{Name: "Museum", ExternalID: "m"}}, nil
}

func (f *flakyProvider) Details(ctx context.Context, id string) (*models.PlaceDetails, error) {
	return nil, errors.New("not implemented")
}

func TestSearchWithRetry_RecoversAfterFailure(t *testing.T) {
	p := &flakyProvider{failures: 1}

	acts, err := SearchWithRetry(context.Background(), p, "Rome", 15, 3)

	require.NoError(t, err)
	assert.Len(t, acts, 1)
	assert.Equal(t, 2, p.calls)
}

func TestSearchWithRetry_GivesUp(t *testing.T) {
	p := &flakyProvider{failures: 5}

	_, err := SearchWithRetry(context.Background(), p, "Rome", 15, 1)

	var placesErr *ErrPlacesRequestFailed
	require.True(t, errors.As(err, &placesErr))
	assert.Equal(t, 1, p.calls)
}

func TestSearchWithRetry_StopsOnCancel(t *testing.T) {
	p := &flakyProvider{failures: 5}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SearchWithRetry(ctx, p, "Rome", 15, 3)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, p.calls)
}
