package routing

import (
	"context"
	"time"

	"trip-planner/internal/logger"
	"trip-planner/internal/models"
)

// Optimizer picks a solver by instance size: exact search up to exactLimit
// stops, the heuristic beyond it.
type Optimizer struct {
	exact      RouteSolver
	heuristic  RouteSolver
	exactLimit int
}

// NewOptimizer creates an optimizer from explicit strategies. A nil heuristic
// makes instances above exactLimit fail with ErrTooManyStops.
func NewOptimizer(exact, heuristic RouteSolver, exactLimit int) *Optimizer {
	if exactLimit <= 0 {
		exactLimit = DefaultExactLimit
	}
	return &Optimizer{
		exact:      exact,
		heuristic:  heuristic,
		exactLimit: exactLimit,
	}
}

// NewDefaultOptimizer wires the exact and nearest-neighbor+2-opt solvers
func NewDefaultOptimizer(exactLimit int) *Optimizer {
	if exactLimit <= 0 {
		exactLimit = DefaultExactLimit
	}
	return NewOptimizer(NewExactSolver(exactLimit), NewHeuristicSolver(), exactLimit)
}

// SolverFor returns the strategy used for an instance with n stops
func (o *Optimizer) SolverFor(n int) RouteSolver {
	if n <= o.exactLimit || o.heuristic == nil {
		return o.exact
	}
	return o.heuristic
}

// Optimize validates the matrix and returns the cheapest closed tour the
// selected strategy can find.
func (o *Optimizer) Optimize(ctx context.Context, m models.CostMatrix) (*models.Route, error) {
	if err := ValidateCostMatrix(m); err != nil {
		logger.Warn("cost matrix rejected", "component", "routing", "error", err)
		return nil, err
	}

	n := len(m)
	solver := o.SolverFor(n)
	if n > o.exactLimit && o.heuristic == nil {
		return nil, &ErrTooManyStops{Stops: n, Limit: o.exactLimit}
	}

	start := time.Now()
	logger.Info("optimizing route", "component", "routing", "stops", n, "solver", solver.Name())

	route, err := solver.Solve(ctx, m)
	if err != nil {
		return nil, err
	}

	logger.Info("route optimized", "component", "routing", "stops", n, "cost", route.Cost, "elapsed", time.Since(start))
	return route, nil
}
