package models

import "strconv"

// Coordinates represents a geographic point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TimeOfDay is both a pool category and a schedule slot
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// Categories lists the time-of-day categories in their fixed order
var Categories = []TimeOfDay{Morning, Afternoon, Evening}

// Label returns the capitalized slot name used in the itinerary display
func (t TimeOfDay) Label() string {
	switch t {
	case Morning:
		return "Morning"
	case Afternoon:
		return "Afternoon"
	case Evening:
		return "Evening"
	default:
		return string(t)
	}
}

// ParseTimeOfDay accepts either the category or the label form
func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	for _, c := range Categories {
		if s == string(c) || s == c.Label() {
			return c, true
		}
	}
	return "", false
}

// MaxPerCategory caps each pool category so exact route search stays tractable
const MaxPerCategory = 5

// Activity is a candidate attraction returned by a places provider
type Activity struct {
	Name       string  `json:"name"`
	ExternalID string  `json:"external_id"`
	Address    string  `json:"address,omitempty"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// GetCoords returns the coordinates of the activity
func (a *Activity) GetCoords() Coordinates {
	return Coordinates{Lat: a.Lat, Lng: a.Lng}
}

// ActivityPool holds the candidate activities partitioned by time of day
type ActivityPool map[TimeOfDay][]Activity

// PartitionPool splits a fetched list into consecutive blocks of MaxPerCategory
// per category. Activities past the last block are dropped.
func PartitionPool(activities []Activity) ActivityPool {
	pool := make(ActivityPool, len(Categories))
	for i, c := range Categories {
		start := i * MaxPerCategory
		end := start + MaxPerCategory
		if start > len(activities) {
			start = len(activities)
		}
		if end > len(activities) {
			end = len(activities)
		}
		pool[c] = append([]Activity{}, activities[start:end]...)
	}
	return pool
}

// Flatten returns every activity in category order (morning, afternoon, evening)
func (p ActivityPool) Flatten() []Activity {
	var all []Activity
	for _, c := range Categories {
		all = append(all, p[c]...)
	}
	return all
}

// Size returns the total number of activities in the pool
func (p ActivityPool) Size() int {
	n := 0
	for _, c := range Categories {
		n += len(p[c])
	}
	return n
}

// Clone returns a copy whose category slices can be modified independently
func (p ActivityPool) Clone() ActivityPool {
	out := make(ActivityPool, len(p))
	for c, acts := range p {
		out[c] = append([]Activity{}, acts...)
	}
	return out
}

// MissingEdge marks a matrix entry the distance provider could not price
const MissingEdge int64 = -1

// CostMatrix holds pairwise travel costs indexed by flattened pool position.
// CostMatrix[i][j] is the cost from activity i to activity j.
type CostMatrix [][]int64

// Route is a visiting order over pool indices and its closed-tour cost
type Route struct {
	Order  []int  `json:"order"`
	Cost   int64  `json:"cost"`
	Solver string `json:"solver"`
}

// DayPlan holds the activity for each slot of one day
type DayPlan struct {
	Day   int                    `json:"day"`
	Slots map[TimeOfDay]Activity `json:"slots"`
}

// Label returns the display name of the day, e.g. "Day 2"
func (d *DayPlan) Label() string {
	return "Day " + strconv.Itoa(d.Day)
}

// Schedule is the day-by-day itinerary
type Schedule struct {
	Days []DayPlan `json:"days"`
}

// Day returns the plan for a 1-indexed day, or nil if out of range
func (s *Schedule) Day(day int) *DayPlan {
	if day < 1 || day > len(s.Days) {
		return nil
	}
	return &s.Days[day-1]
}

// Clone returns a deep copy of the schedule
func (s *Schedule) Clone() *Schedule {
	out := &Schedule{Days: make([]DayPlan, len(s.Days))}
	for i, d := range s.Days {
		slots := make(map[TimeOfDay]Activity, len(d.Slots))
		for k, v := range d.Slots {
			slots[k] = v
		}
		out.Days[i] = DayPlan{Day: d.Day, Slots: slots}
	}
	return out
}

// Activities returns every scheduled activity in day then slot order
func (s *Schedule) Activities() []Activity {
	var acts []Activity
	for _, d := range s.Days {
		for _, c := range Categories {
			if a, ok := d.Slots[c]; ok {
				acts = append(acts, a)
			}
		}
	}
	return acts
}

// SlotRating is one feedback entry for a scheduled slot
type SlotRating struct {
	Day    int       `json:"day"`
	Slot   TimeOfDay `json:"slot"`
	Rating int       `json:"rating"`
}

const (
	MinRating = 1
	MaxRating = 5
)

// PlaceDetails is display-only information about an activity
type PlaceDetails struct {
	Name         string   `json:"name"`
	Rating       float64  `json:"rating"`
	Address      string   `json:"address"`
	OpeningHours []string `json:"opening_hours,omitempty"`
	PriceLevel   int      `json:"price_level"`
}

// DistanceCacheEntry represents a cached distance lookup between two activities
type DistanceCacheEntry struct {
	OriginID       string  `json:"origin_id"`
	DestinationID  string  `json:"destination_id"`
	DistanceMeters float64 `json:"distance_meters"`
	DurationSecs   float64 `json:"duration_secs"`
}
