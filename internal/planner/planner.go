package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"trip-planner/internal/distance"
	"trip-planner/internal/itinerary"
	"trip-planner/internal/logger"
	"trip-planner/internal/models"
	"trip-planner/internal/places"
	"trip-planner/internal/routing"
)

// TripRequest is what the traveller asks for
type TripRequest struct {
	Place     string
	Days      int
	Interests []string
}

// ParseInterests splits a comma-separated interest list, dropping blanks
func ParseInterests(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Draft is the working state of one planning session
type Draft struct {
	Request TripRequest
	// Pool is the fetched pool; feedback replacements are drawn from it
	Pool models.ActivityPool
	// Ordered is the pool after route ordering and ranking
	Ordered  models.ActivityPool
	Route    *models.Route
	Schedule *models.Schedule
	// Degraded is set when route ordering was skipped
	Degraded bool
	Warnings []string
}

// ErrNoActivities is returned when the places provider yields nothing to plan with
type ErrNoActivities struct {
	Place  string
	Reason string
}

func (e *ErrNoActivities) Error() string {
	return fmt.Sprintf("could not find activities for %s: %s", e.Place, e.Reason)
}

// Options configure a Service
type Options struct {
	ResultLimit       int
	MaxRetries        int
	DetailConcurrency int
}

// Service drafts and refines itineraries
type Service struct {
	places    places.Provider
	distances distance.Provider
	optimizer *routing.Optimizer
	ranker    itinerary.Ranker
	opts      Options
}

// NewService wires the collaborators of a planning session
func NewService(p places.Provider, d distance.Provider, o *routing.Optimizer, r itinerary.Ranker, opts Options) *Service {
	if opts.ResultLimit <= 0 {
		opts.ResultLimit = models.MaxPerCategory * len(models.Categories)
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	if opts.DetailConcurrency <= 0 {
		opts.DetailConcurrency = 4
	}
	if r == nil {
		r = itinerary.IdentityRanker{}
	}
	return &Service{places: p, distances: d, optimizer: o, ranker: r, opts: opts}
}

// Draft fetches activities for the request, orders them by travel cost and
// builds the first schedule. Missing or unusable distance data degrades to the
// fetched order instead of failing.
func (s *Service) Draft(ctx context.Context, req TripRequest) (*Draft, error) {
	if req.Days < 1 {
		return nil, &itinerary.ErrInvalidDayCount{Days: req.Days}
	}

	activities, err := places.SearchWithRetry(ctx, s.places, req.Place, s.opts.ResultLimit, s.opts.MaxRetries)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &ErrNoActivities{Place: req.Place, Reason: err.Error()}
	}
	if len(activities) == 0 {
		return nil, &ErrNoActivities{Place: req.Place, Reason: "the places provider returned no results"}
	}

	pool := models.PartitionPool(dedupe(activities))
	draft := &Draft{Request: req, Pool: pool}
	logger.Info("activity pool fetched", "component", "planner", "place", req.Place, "activities", pool.Size())

	route, err := s.optimize(ctx, pool)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		draft.Degraded = true
		draft.Warnings = append(draft.Warnings, fmt.Sprintf("Route optimization skipped: %v", err))
		logger.Warn("route optimization skipped, keeping fetched order", "component", "planner", "error", err)
	}
	draft.Route = route

	draft.Ordered = s.ranker.Rank(itinerary.Reorder(pool, route), req.Interests)

	schedule, err := itinerary.Build(draft.Ordered, req.Days)
	if err != nil {
		return nil, err
	}
	draft.Schedule = schedule

	return draft, nil
}

// dedupe drops repeated external IDs, keeping the first occurrence
func dedupe(activities []models.Activity) []models.Activity {
	seen := make(map[string]bool, len(activities))
	out := activities[:0:0]
	for _, a := range activities {
		if seen[a.ExternalID] {
			continue
		}
		seen[a.ExternalID] = true
		out = append(out, a)
	}
	return out
}

func (s *Service) optimize(ctx context.Context, pool models.ActivityPool) (*models.Route, error) {
	matrix, err := s.distances.CostMatrix(ctx, pool.Flatten())
	if err != nil {
		return nil, err
	}

	route, err := s.optimizer.Optimize(ctx, matrix)
	if err != nil {
		var invalid *routing.ErrInvalidCostMatrix
		var tooMany *routing.ErrTooManyStops
		if errors.As(err, &invalid) || errors.As(err, &tooMany) {
			return nil, err
		}
		return nil, fmt.Errorf("route optimization failed: %w", err)
	}
	return route, nil
}

// Adjust applies one round of ratings to the draft's schedule. Replacements
// come from the fetched pool, so each round uses up further unused activities.
func (s *Service) Adjust(draft *Draft, feedback []models.SlotRating) (*itinerary.AdjustResult, error) {
	result, err := itinerary.Adjust(draft.Schedule, feedback, draft.Pool)
	if err != nil {
		return nil, err
	}
	if err := itinerary.Reconcile(result.Schedule, draft.Pool); err != nil {
		return nil, fmt.Errorf("adjusted schedule is inconsistent: %w", err)
	}
	draft.Schedule = result.Schedule

	logger.Info("schedule adjusted", "component", "planner",
		"ratings", len(feedback), "replaced", len(result.Replacements), "unavailable", len(result.Unavailable))
	return result, nil
}

// Details fetches place details for every distinct scheduled activity with
// bounded concurrency. Failed lookups are logged and left out.
func (s *Service) Details(ctx context.Context, schedule *models.Schedule) (map[string]*models.PlaceDetails, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range schedule.Activities() {
		if !seen[a.ExternalID] {
			seen[a.ExternalID] = true
			ids = append(ids, a.ExternalID)
		}
	}
	sort.Strings(ids)

	results := make([]*models.PlaceDetails, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.DetailConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			details, err := s.places.Details(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("place details unavailable", "component", "planner", "id", id, "error", err)
				return nil
			}
			results[i] = details
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*models.PlaceDetails, len(ids))
	for i, id := range ids {
		if results[i] != nil {
			out[id] = results[i]
		}
	}
	return out, nil
}
