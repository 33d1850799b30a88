package itinerary

import (
	"trip-planner/internal/models"
)

// Reorder lays the flattened pool out in route order and refills the
// categories in morning, afternoon, evening order, each keeping its original
// size. A full pool therefore splits the route 5/5/5. A nil route or one that
// does not cover the pool leaves the order unchanged.
func Reorder(pool models.ActivityPool, route *models.Route) models.ActivityPool {
	flat := pool.Flatten()
	if route == nil || len(route.Order) != len(flat) {
		return pool.Clone()
	}

	ordered := make([]models.Activity, len(flat))
	for i, idx := range route.Order {
		ordered[i] = flat[idx]
	}

	out := make(models.ActivityPool, len(models.Categories))
	start := 0
	for _, c := range models.Categories {
		end := start + len(pool[c])
		out[c] = append([]models.Activity{}, ordered[start:end]...)
		start = end
	}
	return out
}
