package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"trip-planner/internal/models"
	"trip-planner/internal/planner"
)

// FormPrompter asks questions with interactive terminal forms
type FormPrompter struct {
	theme *huh.Theme
}

func NewFormPrompter() *FormPrompter {
	return &FormPrompter{theme: huh.ThemeDracula()}
}

func (p *FormPrompter) AskTrip(ctx context.Context) (*planner.TripRequest, error) {
	var place, days, interests string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Where are you going?").
				Placeholder("e.g. Lisbon").
				Value(&place).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("place is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("How many days?").
				Value(&days).
				Validate(func(s string) error {
					_, err := ParseDays(s)
					return err
				}),
			huh.NewInput().
				Title("Interests").
				Description("Comma-separated, e.g. museums, food").
				Value(&interests),
		),
	).WithTheme(p.theme)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}

	n, err := ParseDays(days)
	if err != nil {
		return nil, err
	}
	return &planner.TripRequest{
		Place:     strings.TrimSpace(place),
		Days:      n,
		Interests: planner.ParseInterests(interests),
	}, nil
}

// AskRatings shows one form group per day with an input for each slot
func (p *FormPrompter) AskRatings(ctx context.Context, schedule *models.Schedule) ([]models.SlotRating, error) {
	slots := slotsOf(schedule)
	answers := make([]string, len(slots))

	var groups []*huh.Group
	var fields []huh.Field
	for i, s := range slots {
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("%s - %s", s.Slot.Label(), s.Activity.Name)).
			Placeholder(fmt.Sprintf("%d-%d", models.MinRating, models.MaxRating)).
			Value(&answers[i]).
			Validate(func(v string) error {
				_, err := ParseRating(v)
				return err
			}))

		if i == len(slots)-1 || slots[i+1].Day != s.Day {
			groups = append(groups, huh.NewGroup(fields...).
				Title(fmt.Sprintf("Day %d", s.Day)).
				Description(fmt.Sprintf("Rate each activity from %d (dislike) to %d (love)", models.MinRating, models.MaxRating)))
			fields = nil
		}
	}

	if err := huh.NewForm(groups...).WithTheme(p.theme).RunWithContext(ctx); err != nil {
		return nil, err
	}

	ratings := make([]models.SlotRating, len(slots))
	for i, s := range slots {
		r, err := ParseRating(answers[i])
		if err != nil {
			return nil, err
		}
		ratings[i] = models.SlotRating{Day: s.Day, Slot: s.Slot, Rating: r}
	}
	return ratings, nil
}

func (p *FormPrompter) AskContinue(ctx context.Context) (bool, error) {
	more := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Would you like to provide more feedback?").
				Affirmative("Yes").
				Negative("No").
				Value(&more),
		),
	).WithTheme(p.theme)

	if err := form.RunWithContext(ctx); err != nil {
		return false, err
	}
	return more, nil
}
