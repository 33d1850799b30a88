package itinerary

import (
	"trip-planner/internal/models"
)

// Build lays the pool out over the requested number of days. Day d takes
// pool[c][d % len(pool[c])] for each category c, so short categories repeat
// and day 1 starts at the second activity when a category has more than one.
func Build(pool models.ActivityPool, days int) (*models.Schedule, error) {
	if days < 1 {
		return nil, &ErrInvalidDayCount{Days: days}
	}
	for _, c := range models.Categories {
		if len(pool[c]) == 0 {
			return nil, &ErrEmptyCategory{Category: c}
		}
	}

	schedule := &models.Schedule{Days: make([]models.DayPlan, 0, days)}
	for d := 1; d <= days; d++ {
		slots := make(map[models.TimeOfDay]models.Activity, len(models.Categories))
		for _, c := range models.Categories {
			acts := pool[c]
			slots[c] = acts[d%len(acts)]
		}
		schedule.Days = append(schedule.Days, models.DayPlan{Day: d, Slots: slots})
	}

	return schedule, nil
}
