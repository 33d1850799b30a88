package routing

import (
	"context"
	"fmt"

	"trip-planner/internal/models"
)

// RouteSolver finds a closed visiting order over every index of a cost matrix
type RouteSolver interface {
	Name() string
	Solve(ctx context.Context, m models.CostMatrix) (*models.Route, error)
}

// ErrInvalidCostMatrix is returned when a matrix cannot be used for routing:
// empty, ragged, non-square, or holding a negative or missing edge.
type ErrInvalidCostMatrix struct {
	Reason string
	Row    int
	Col    int
}

func (e *ErrInvalidCostMatrix) Error() string {
	return fmt.Sprintf("invalid cost matrix: %s", e.Reason)
}

// ErrTooManyStops is returned by the exact solver when the instance exceeds its size limit
type ErrTooManyStops struct {
	Stops int
	Limit int
}

func (e *ErrTooManyStops) Error() string {
	return fmt.Sprintf("routing failed: %d stops exceeds exact search limit of %d", e.Stops, e.Limit)
}

// ValidateCostMatrix checks shape and edge values
func ValidateCostMatrix(m models.CostMatrix) error {
	n := len(m)
	if n == 0 {
		return &ErrInvalidCostMatrix{Reason: "matrix is empty"}
	}
	for i, row := range m {
		if len(row) != n {
			return &ErrInvalidCostMatrix{
				Reason: fmt.Sprintf("row %d has %d entries, want %d", i, len(row), n),
				Row:    i,
				Col:    len(row),
			}
		}
		for j, v := range row {
			if v == models.MissingEdge {
				return &ErrInvalidCostMatrix{Reason: fmt.Sprintf("missing edge %d->%d", i, j), Row: i, Col: j}
			}
			if v < 0 {
				return &ErrInvalidCostMatrix{Reason: fmt.Sprintf("negative edge %d->%d: %d", i, j, v), Row: i, Col: j}
			}
		}
	}
	return nil
}

// TourCost returns the closed-tour cost of order: consecutive edges plus the
// edge from the last stop back to the first. A single stop costs nothing.
func TourCost(m models.CostMatrix, order []int) (int64, error) {
	n := len(m)
	if len(order) != n {
		return 0, &ErrInvalidCostMatrix{Reason: fmt.Sprintf("route visits %d stops, matrix has %d", len(order), n)}
	}
	if n <= 1 {
		return 0, nil
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return 0, &ErrInvalidCostMatrix{Reason: fmt.Sprintf("route is not a permutation: %v", order)}
		}
		seen[idx] = true
	}
	return tourCost(m, order), nil
}

// tourCost assumes order is a valid permutation of a validated matrix
func tourCost(m models.CostMatrix, order []int) int64 {
	n := len(order)
	if n <= 1 {
		return 0
	}
	var total int64
	for i := 0; i < n-1; i++ {
		total += m[order[i]][order[i+1]]
	}
	return total + m[order[n-1]][order[0]]
}
