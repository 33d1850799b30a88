package planner

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner/internal/distance"
	"trip-planner/internal/itinerary"
	"trip-planner/internal/models"
	"trip-planner/internal/places"
	"trip-planner/internal/routing"
	"trip-planner/internal/testutil"
)

func newTestService(p *testutil.MockPlacesProvider, d *testutil.MockDistanceProvider, r itinerary.Ranker) *Service {
	return NewService(p, d, routing.NewDefaultOptimizer(routing.DefaultExactLimit), r, Options{DetailConcurrency: 2})
}

func TestDraft_OrdersByRoute(t *testing.T) {
	p := testutil.NewMockPlacesProvider(testutil.GridActivities(15))
	d := testutil.NewMockDistanceProvider()
	svc := newTestService(p, d, itinerary.IdentityRanker{})

	draft, err := svc.Draft(context.Background(), TripRequest{Place: "Paris", Days: 4})

	require.NoError(t, err)
	assert.False(t, draft.Degraded)
	assert.Empty(t, draft.Warnings)
	require.NotNil(t, draft.Route)
	assert.Equal(t, "nearest-neighbor+2opt", draft.Route.Solver)
	assert.Len(t, draft.Schedule.Days, 4)
	assert.Equal(t, []string{"Paris"}, p.Searches)
	require.Len(t, d.Calls, 1)
	assert.Len(t, d.Calls[0], 15)

	flat := draft.Pool.Flatten()
	ordered := draft.Ordered.Flatten()
	for i, idx := range draft.Route.Order {
		assert.Equal(t, flat[idx], ordered[i])
	}
	assert.NoError(t, itinerary.Reconcile(draft.Schedule, draft.Pool))
}

func TestDraft_DistanceFailureDegrades(t *testing.T) {
	p := testutil.NewMockPlacesProvider(testutil.GridActivities(15))
	d := testutil.NewMockDistanceProvider()
	d.Err = &distance.ErrDistanceCalculationFailed{Provider: "mock", Reason: "offline"}
	svc := newTestService(p, d, itinerary.IdentityRanker{})

	draft, err := svc.Draft(context.Background(), TripRequest{Place: "Paris", Days: 2})

	require.NoError(t, err)
	assert.True(t, draft.Degraded)
	assert.Nil(t, draft.Route)
	assert.Len(t, draft.Warnings, 1)
	assert.Equal(t, draft.Pool, draft.Ordered)
	assert.Len(t, draft.Schedule.Days, 2)
}

func TestDraft_MissingEdgeDegrades(t *testing.T) {
	p := testutil.NewMockPlacesProvider(testutil.GridActivities(15))
	d := testutil.NewMockDistanceProvider()
	d.SetCost("p0", "p7", models.MissingEdge)
	svc := newTestService(p, d, itinerary.IdentityRanker{})

	draft, err := svc.Draft(context.Background(), TripRequest{Place: "Paris", Days: 1})

	require.NoError(t, err)
	assert.True(t, draft.Degraded)
	assert.Contains(t, draft.Warnings[0], "invalid cost matrix")
}

func TestDraft_NoActivities(t *testing.T) {
	t.Run("provider failure", func(t *testing.T) {
		p := testutil.NewMockPlacesProvider(nil)
		p.SearchErr = &places.ErrPlacesRequestFailed{Provider: "mock", Query: "x", Reason: "HTTP 500"}

		_, err := newTestService(p, testutil.NewMockDistanceProvider(), nil).Draft(context.Background(), TripRequest{Place: "Atlantis", Days: 1})

		var noActs *ErrNoActivities
		require.True(t, errors.As(err, &noActs))
		assert.Equal(t, "Atlantis", noActs.Place)
	})

	t.Run("zero results", func(t *testing.T) {
		p := testutil.NewMockPlacesProvider([]models.Activity{})
		d := testutil.NewMockDistanceProvider()

		_, err := newTestService(p, d, nil).Draft(context.Background(), TripRequest{Place: "Atlantis", Days: 1})

		var noActs *ErrNoActivities
		assert.True(t, errors.As(err, &noActs))
		assert.Empty(t, d.Calls, "no matrix request without activities")
	})
}

func TestDraft_EmptyCategoryIsFatal(t *testing.T) {
	p := testutil.NewMockPlacesProvider(testutil.GridActivities(7))

	_, err := newTestService(p, testutil.NewMockDistanceProvider(), nil).Draft(context.Background(), TripRequest{Place: "Village", Days: 1})

	var empty *itinerary.ErrEmptyCategory
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, models.Evening, empty.Category)
}

func TestDraft_InvalidDays(t *testing.T) {
	p := testutil.NewMockPlacesProvider(testutil.GridActivities(15))

	_, err := newTestService(p, testutil.NewMockDistanceProvider(), nil).Draft(context.Background(), TripRequest{Place: "Paris", Days: 0})

	var badDays *itinerary.ErrInvalidDayCount
	assert.True(t, errors.As(err, &badDays))
	assert.Empty(t, p.Searches)
}

func TestDraft_SeededRankingIsReproducible(t *testing.T) {
	run := func() *models.Schedule {
		p := testutil.NewMockPlacesProvider(testutil.GridActivities(15))
		ranker := itinerary.NewShuffleRanker(rand.New(rand.NewSource(2024)))
		draft, err := newTestService(p, testutil.NewMockDistanceProvider(), ranker).Draft(context.Background(), TripRequest{Place: "Rome", Days: 3, Interests: []string{"food"}})
		require.NoError(t, err)
		return draft.Schedule
	}

	assert.Equal(t, run(), run())
}

func TestAdjust_UsesFetchedPool(t *testing.T) {
	p := testutil.NewMockPlacesProvider(testutil.GridActivities(15))
	svc := newTestService(p, testutil.NewMockDistanceProvider(), itinerary.IdentityRanker{})
	draft, err := svc.Draft(context.Background(), TripRequest{Place: "Paris", Days: 1})
	require.NoError(t, err)

	before := draft.Schedule.Days[0].Slots[models.Morning]
	wantNext := itinerary.Unused(draft.Schedule, draft.Pool)[0]

	result, err := svc.Adjust(draft, []models.SlotRating{{Day: 1, Slot: models.Morning, Rating: 1}})

	require.NoError(t, err)
	require.Len(t, result.Replacements, 1)
	assert.Equal(t, before, result.Replacements[0].Old)
	assert.Equal(t, wantNext, draft.Schedule.Days[0].Slots[models.Morning])
	assert.Same(t, result.Schedule, draft.Schedule)

	_, err = svc.Adjust(draft, []models.SlotRating{{Day: 9, Slot: models.Morning, Rating: 1}})
	var invalid *itinerary.ErrInvalidFeedback
	assert.True(t, errors.As(err, &invalid))
}

func TestDetails_SkipsFailures(t *testing.T) {
	acts := testutil.GridActivities(15)
	p := testutil.NewMockPlacesProvider(acts)
	svc := newTestService(p, testutil.NewMockDistanceProvider(), itinerary.IdentityRanker{})
	draft, err := svc.Draft(context.Background(), TripRequest{Place: "Paris", Days: 2})
	require.NoError(t, err)

	scheduled := draft.Schedule.Activities()
	p.PlaceDetails[scheduled[0].ExternalID] = &models.PlaceDetails{Name: scheduled[0].Name, Rating: 4.5}

	details, err := svc.Details(context.Background(), draft.Schedule)

	require.NoError(t, err)
	assert.Len(t, details, 1)
	assert.Equal(t, 4.5, details[scheduled[0].ExternalID].Rating)
	assert.Len(t, p.DetailCalls, 6, "one lookup per distinct scheduled activity")
}

func TestParseInterests(t *testing.T) {
	assert.Equal(t, []string{"museums", "food", "parks"}, ParseInterests(" museums, food ,,parks "))
	assert.Nil(t, ParseInterests(""))
}

func TestDraft_DropsDuplicateActivities(t *testing.T) {
	acts := testutil.GridActivities(15)
	acts = append(acts[:3:3], append([]models.Activity{acts[0]}, acts[3:]...)...)
	p := testutil.NewMockPlacesProvider(acts)
	svc := newTestService(p, testutil.NewMockDistanceProvider(), itinerary.IdentityRanker{})

	draft, err := svc.Draft(context.Background(), TripRequest{Place: "Paris", Days: 1})

	require.NoError(t, err)
	assert.Equal(t, 14, draft.Pool.Size())
	assert.NoError(t, itinerary.Reconcile(draft.Schedule, draft.Pool))
}
