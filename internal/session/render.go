package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trip-planner/internal/models"
)

type styles struct {
	title   lipgloss.Style
	day     lipgloss.Style
	slot    lipgloss.Style
	name    lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, plain bool) styles {
	if plain {
		s := r.NewStyle()
		return styles{title: s, day: s, slot: s, name: s, muted: s, warning: s}
	}
	return styles{
		title: r.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true),
		day:  r.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		slot: r.NewStyle().Foreground(lipgloss.Color("240")),
		name: r.NewStyle().Foreground(lipgloss.Color("252")),
		muted: r.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
		warning: r.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true),
	}
}

// View writes itineraries and notices. Colors follow the terminal behind w,
// so buffers and pipes get plain text.
type View struct {
	w     io.Writer
	style styles
}

func newView(w io.Writer, plain bool) *View {
	return &View{w: w, style: newStyles(lipgloss.NewRenderer(w), plain)}
}

// Render writes a styled itinerary for place to w
func Render(w io.Writer, place string, schedule *models.Schedule, details map[string]*models.PlaceDetails) {
	newView(w, false).Itinerary("Itinerary for "+place, schedule, details)
}

// Line writes a plain message
func (v *View) Line(msg string) {
	fmt.Fprintln(v.w, msg)
}

// Warning writes a highlighted notice
func (v *View) Warning(msg string) {
	fmt.Fprintln(v.w, v.style.warning.Render(msg))
}

// Itinerary writes the schedule one day block at a time, followed by place
// details for the activities that have them.
func (v *View) Itinerary(title string, schedule *models.Schedule, details map[string]*models.PlaceDetails) {
	fmt.Fprintln(v.w)
	fmt.Fprintln(v.w, v.style.title.Render(title))
	fmt.Fprintln(v.w)

	width := 0
	for _, c := range models.Categories {
		if n := len(c.Label()) + 1; n > width {
			width = n
		}
	}

	for _, d := range schedule.Days {
		fmt.Fprintln(v.w, v.style.day.Render(d.Label()+":"))
		for _, c := range models.Categories {
			a, ok := d.Slots[c]
			if !ok {
				continue
			}
			label := fmt.Sprintf("%-*s", width, c.Label()+":")
			fmt.Fprintf(v.w, "  %s %s\n", v.style.slot.Render(label), v.style.name.Render(a.Name))
		}
		fmt.Fprintln(v.w)
	}

	if len(details) == 0 {
		return
	}

	fmt.Fprintln(v.w, v.style.title.Render("Place Details"))
	fmt.Fprintln(v.w)
	seen := make(map[string]bool)
	for _, a := range schedule.Activities() {
		if seen[a.ExternalID] {
			continue
		}
		seen[a.ExternalID] = true
		if d, ok := details[a.ExternalID]; ok {
			v.details(a, d)
		}
	}
}

func (v *View) details(a models.Activity, d *models.PlaceDetails) {
	name := d.Name
	if name == "" {
		name = a.Name
	}
	fmt.Fprintf(v.w, "  Name: %s\n", v.style.name.Render(name))
	if d.Rating > 0 {
		fmt.Fprintf(v.w, "  Rating: %.1f\n", d.Rating)
	} else {
		fmt.Fprintf(v.w, "  Rating: %s\n", v.style.muted.Render("N/A"))
	}
	address := d.Address
	if address == "" {
		address = a.Address
	}
	if address != "" {
		fmt.Fprintf(v.w, "  Address: %s\n", address)
	}
	fmt.Fprintf(v.w, "  Price Level: %s\n", priceLevel(d.PriceLevel))
	if len(d.OpeningHours) > 0 {
		fmt.Fprintln(v.w, "  Opening Hours:")
		for _, h := range d.OpeningHours {
			fmt.Fprintf(v.w, "    %s\n", h)
		}
	}
	fmt.Fprintln(v.w)
}

func priceLevel(level int) string {
	if level <= 0 {
		return "N/A"
	}
	return strings.Repeat("$", level)
}
