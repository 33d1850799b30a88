package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"trip-planner/internal/models"
	"trip-planner/internal/planner"
)

// LinePrompter asks questions one line at a time. It suits piped input and
// terminals where forms are unavailable.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter reading answers from r and writing
// questions to w
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(r), out: w}
}

// ask prints prompt and returns the next line of input without its newline.
// A final line without a newline is still returned; running out of input
// before any answer yields io.ErrUnexpectedEOF.
func (p *LinePrompter) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *LinePrompter) AskTrip(ctx context.Context) (*planner.TripRequest, error) {
	req := &planner.TripRequest{}

	for req.Place == "" {
		place, err := p.ask(ctx, "Enter a place: ")
		if err != nil {
			return nil, err
		}
		if place == "" {
			fmt.Fprintln(p.out, "Please enter a place name.")
		}
		req.Place = place
	}

	for req.Days == 0 {
		answer, err := p.ask(ctx, "Enter number of days: ")
		if err != nil {
			return nil, err
		}
		days, err := ParseDays(answer)
		if err != nil {
			fmt.Fprintf(p.out, "%s.\n", capitalize(err.Error()))
			continue
		}
		req.Days = days
	}

	interests, err := p.ask(ctx, "Enter interests (comma-separated): ")
	if err != nil {
		return nil, err
	}
	req.Interests = planner.ParseInterests(interests)

	return req, nil
}

func (p *LinePrompter) AskRatings(ctx context.Context, schedule *models.Schedule) ([]models.SlotRating, error) {
	fmt.Fprintf(p.out, "\nPlease rate each activity from %d (dislike) to %d (love):\n", models.MinRating, models.MaxRating)

	var ratings []models.SlotRating
	for _, s := range slotsOf(schedule) {
		for {
			answer, err := p.ask(ctx, s.label()+": ")
			if err != nil {
				return nil, err
			}
			rating, err := ParseRating(answer)
			if err != nil {
				var invalid *ErrInvalidRating
				if errors.As(err, &invalid) {
					fmt.Fprintf(p.out, "%s.\n", capitalize(invalid.Reason))
					continue
				}
				return nil, err
			}
			ratings = append(ratings, models.SlotRating{Day: s.Day, Slot: s.Slot, Rating: rating})
			break
		}
	}
	return ratings, nil
}

// AskContinue treats only "yes" or "y" as agreement. End of input means no.
func (p *LinePrompter) AskContinue(ctx context.Context) (bool, error) {
	answer, err := p.ask(ctx, "Would you like to provide more feedback? (yes/no): ")
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "yes", "y":
		return true, nil
	default:
		return false, nil
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
