package routing

import (
	"context"
	"time"

	"trip-planner/internal/logger"
	"trip-planner/internal/models"
)

// DefaultExactLimit is the largest instance handed to exhaustive search.
// Search time grows as (n-1)!, so 10 stops is about 363k tours.
const DefaultExactLimit = 10

// exactSolver enumerates every closed tour and keeps the cheapest
type exactSolver struct {
	maxStops int
}

// NewExactSolver creates a solver that returns the globally optimal closed tour.
// Instances larger than maxStops are rejected with ErrTooManyStops; maxStops <= 0
// disables the limit.
func NewExactSolver(maxStops int) RouteSolver {
	return &exactSolver{maxStops: maxStops}
}

func (s *exactSolver) Name() string { return "exact" }

// Solve walks permutations in lexicographic order and keeps the first one with
// the lowest cost. Only permutations starting at 0 are visited: every tour has a
// rotation starting at 0 with the same cost, and those permutations come first in
// lexicographic order, so the winner matches a scan of all n! orders.
func (s *exactSolver) Solve(ctx context.Context, m models.CostMatrix) (*models.Route, error) {
	if err := ValidateCostMatrix(m); err != nil {
		return nil, err
	}

	n := len(m)
	if s.maxStops > 0 && n > s.maxStops {
		return nil, &ErrTooManyStops{Stops: n, Limit: s.maxStops}
	}
	if n == 1 {
		return &models.Route{Order: []int{0}, Cost: 0, Solver: s.Name()}, nil
	}

	start := time.Now()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	best := make([]int, n)
	copy(best, perm)
	bestCost := tourCost(m, perm)

	checked := 1
	for nextPermutation(perm[1:]) {
		checked++
		if checked&4095 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		cost := tourCost(m, perm)
		if cost < bestCost {
			bestCost = cost
			copy(best, perm)
		}
	}

	logger.Debug("exact search complete", "component", "routing", "stops", n, "tours", checked, "cost", bestCost, "elapsed", time.Since(start))

	return &models.Route{Order: best, Cost: bestCost, Solver: s.Name()}, nil
}

// nextPermutation rearranges a into the next lexicographic permutation.
// It returns false once a is the last permutation.
func nextPermutation(a []int) bool {
	i := len(a) - 2
	for i >= 0 && a[i] >= a[i+1] {
		i--
	}
	if i < 0 {
		return false
	}

	j := len(a) - 1
	for a[j] <= a[i] {
		j--
	}
	a[i], a[j] = a[j], a[i]
	reverse(a, i+1, len(a)-1)
	return true
}

func reverse(a []int, i, j int) {
	for i < j {
		a[i], a[j] = a[j], a[i]
		i++
		j--
	}
}
