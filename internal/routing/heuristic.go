package routing

import (
	"context"
	"time"

	"trip-planner/internal/logger"
	"trip-planner/internal/models"
)

// maxTwoOptPasses bounds improvement passes; each accepted move restarts the scan
const maxTwoOptPasses = 1000

// heuristicSolver builds a nearest-neighbor tour and improves it with 2-opt
type heuristicSolver struct{}

// NewHeuristicSolver creates a solver for instances too large for exhaustive search.
// The result is a local optimum, not guaranteed to be the global one.
func NewHeuristicSolver() RouteSolver {
	return &heuristicSolver{}
}

func (s *heuristicSolver) Name() string { return "nearest-neighbor+2opt" }

func (s *heuristicSolver) Solve(ctx context.Context, m models.CostMatrix) (*models.Route, error) {
	if err := ValidateCostMatrix(m); err != nil {
		return nil, err
	}

	n := len(m)
	if n == 1 {
		return &models.Route{Order: []int{0}, Cost: 0, Solver: s.Name()}, nil
	}

	start := time.Now()
	order := nearestNeighbor(m)
	seedCost := tourCost(m, order)

	order, cost, passes, err := twoOpt(ctx, m, order)
	if err != nil {
		return nil, err
	}

	logger.Debug("heuristic search complete", "component", "routing", "stops", n,
		"seed_cost", seedCost, "cost", cost, "passes", passes, "elapsed", time.Since(start))

	return &models.Route{Order: order, Cost: cost, Solver: s.Name()}, nil
}

// nearestNeighbor starts at 0 and always moves to the cheapest unvisited stop.
// Ties go to the lower index.
func nearestNeighbor(m models.CostMatrix) []int {
	n := len(m)
	visited := make([]bool, n)
	order := make([]int, 0, n)

	current := 0
	visited[0] = true
	order = append(order, 0)

	for len(order) < n {
		next := -1
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if next == -1 || m[current][j] < m[current][next] {
				next = j
			}
		}
		visited[next] = true
		order = append(order, next)
		current = next
	}

	return order
}

// twoOpt reverses segments of the tour while doing so lowers the closed-tour cost.
// The whole tour is re-priced for each candidate so asymmetric matrices are handled
// correctly; pools are small enough that this stays cheap.
func twoOpt(ctx context.Context, m models.CostMatrix, order []int) ([]int, int64, int, error) {
	n := len(order)
	best := make([]int, n)
	copy(best, order)
	bestCost := tourCost(m, best)

	if n < 4 {
		return best, bestCost, 0, nil
	}

	candidate := make([]int, n)
	passes := 0
	improved := true
	for improved && passes < maxTwoOptPasses {
		if err := ctx.Err(); err != nil {
			return nil, 0, passes, err
		}
		improved = false
		passes++

		// Position 0 stays fixed so the tour keeps its starting stop
		for i := 1; i < n-1 && !improved; i++ {
			for j := i + 1; j < n; j++ {
				copy(candidate, best)
				reverse(candidate, i, j)

				cost := tourCost(m, candidate)
				if cost < bestCost {
					copy(best, candidate)
					bestCost = cost
					improved = true
					break
				}
			}
		}
	}

	return best, bestCost, passes, nil
}
