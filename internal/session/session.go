package session

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"trip-planner/internal/itinerary"
	"trip-planner/internal/logger"
	"trip-planner/internal/models"
	"trip-planner/internal/planner"
)

// ErrInvalidRating is returned for a rating that is not a whole number on the
// rating scale. Prompters re-ask instead of passing it on.
type ErrInvalidRating struct {
	Input  string
	Reason string
}

func (e *ErrInvalidRating) Error() string {
	return fmt.Sprintf("invalid rating %q: %s", e.Input, e.Reason)
}

// ParseRating parses one slot rating
func ParseRating(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ErrInvalidRating{Input: s, Reason: "please enter a valid number"}
	}
	if n < models.MinRating || n > models.MaxRating {
		return 0, &ErrInvalidRating{
			Input:  s,
			Reason: fmt.Sprintf("please enter a number between %d and %d", models.MinRating, models.MaxRating),
		}
	}
	return n, nil
}

// ParseDays parses a positive day count
func ParseDays(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("please enter a positive whole number of days")
	}
	return n, nil
}

// Prompter collects the traveller's input for one session
type Prompter interface {
	AskTrip(ctx context.Context) (*planner.TripRequest, error)
	// AskRatings returns one rating for every slot of the schedule
	AskRatings(ctx context.Context, schedule *models.Schedule) ([]models.SlotRating, error)
	AskContinue(ctx context.Context) (bool, error)
}

// slot is one scheduled activity in display order
type slot struct {
	Day      int
	Slot     models.TimeOfDay
	Activity models.Activity
}

func slotsOf(schedule *models.Schedule) []slot {
	var out []slot
	for _, d := range schedule.Days {
		for _, c := range models.Categories {
			if a, ok := d.Slots[c]; ok {
				out = append(out, slot{Day: d.Day, Slot: c, Activity: a})
			}
		}
	}
	return out
}

func (s slot) label() string {
	return fmt.Sprintf("Day %d - %s - %s", s.Day, s.Slot.Label(), s.Activity.Name)
}

// Options configure a Session
type Options struct {
	// Request skips the trip prompt when set
	Request *planner.TripRequest
	// Details fetches and shows place details with the final itinerary
	Details bool
	Plain   bool
}

// Session runs the draft, rate and adjust loop for one trip
type Session struct {
	ID string

	planner  *planner.Service
	prompter Prompter
	out      io.Writer
	opts     Options
}

// New creates a session writing its output to out
func New(svc *planner.Service, prompter Prompter, out io.Writer, opts Options) *Session {
	return &Session{
		ID:       uuid.NewString(),
		planner:  svc,
		prompter: prompter,
		out:      out,
		opts:     opts,
	}
}

// Run drafts an itinerary and refines it from ratings until the traveller
// stops. It returns the final draft.
func (s *Session) Run(ctx context.Context) (*planner.Draft, error) {
	req := s.opts.Request
	if req == nil {
		var err error
		req, err = s.prompter.AskTrip(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read trip: %w", err)
		}
	}

	logger.Info("session started", "component", "session", "session", s.ID,
		"place", req.Place, "days", req.Days, "interests", len(req.Interests))

	draft, err := s.planner.Draft(ctx, *req)
	if err != nil {
		return nil, err
	}

	view := newView(s.out, s.opts.Plain)
	for _, w := range draft.Warnings {
		view.Warning(w)
	}

	round := 0
	for {
		round++
		view.Itinerary("Itinerary for "+req.Place, draft.Schedule, nil)

		ratings, err := s.prompter.AskRatings(ctx, draft.Schedule)
		if err != nil {
			return nil, fmt.Errorf("failed to read ratings: %w", err)
		}

		result, err := s.planner.Adjust(draft, ratings)
		if err != nil {
			return nil, err
		}
		s.report(view, result)
		logger.Debug("feedback round complete", "component", "session", "session", s.ID,
			"round", round, "replaced", len(result.Replacements))

		more, err := s.prompter.AskContinue(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read answer: %w", err)
		}
		if !more {
			break
		}
	}

	var details map[string]*models.PlaceDetails
	if s.opts.Details {
		details, err = s.planner.Details(ctx, draft.Schedule)
		if err != nil {
			return nil, err
		}
	}
	view.Itinerary("Final Itinerary", draft.Schedule, details)

	logger.Info("session finished", "component", "session", "session", s.ID, "rounds", round)
	return draft, nil
}

func (s *Session) report(view *View, result *itinerary.AdjustResult) {
	for _, r := range result.Replacements {
		view.Line(fmt.Sprintf("Replaced %s with %s for Day %d - %s", r.Old.Name, r.New.Name, r.Day, r.Slot.Label()))
	}
	for _, u := range result.Unavailable {
		view.Warning(fmt.Sprintf("No more alternative activities available to replace %s for Day %d - %s",
			u.Current.Name, u.Day, u.Slot.Label()))
	}
}
