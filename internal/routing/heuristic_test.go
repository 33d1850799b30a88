package routing

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner/internal/models"
)

func assertPermutation(t *testing.T, order []int, n int) {
	t.Helper()
	sorted := append([]int{}, order...)
	sort.Ints(sorted)
	for i := 0; i < n; i++ {
		require.Equal(t, i, sorted[i], "order %v is not a permutation of 0..%d", order, n-1)
	}
}

func TestNearestNeighbor(t *testing.T) {
	m := models.CostMatrix{
		{0, 5, 1, 9},
		{5, 0, 2, 1},
		{1, 2, 0, 8},
		{9, 1, 8, 0},
	}

	assert.Equal(t, []int{0, 2, 1, 3}, nearestNeighbor(m))
}

func TestHeuristicSolver_NeverWorseThanSeed(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	solver := NewHeuristicSolver()

	for n := 2; n <= 15; n++ {
		m := randomMatrix(rng, n, n%2 == 0)

		route, err := solver.Solve(context.Background(), m)
		require.NoError(t, err)
		assertPermutation(t, route.Order, n)
		assert.Equal(t, 0, route.Order[0])

		seedCost := tourCost(m, nearestNeighbor(m))
		assert.LessOrEqual(t, route.Cost, seedCost)

		got, err := TourCost(m, route.Order)
		require.NoError(t, err)
		assert.Equal(t, got, route.Cost)
	}
}

func TestHeuristicSolver_NotBetterThanExact(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for n := 1; n <= 7; n++ {
		m := randomMatrix(rng, n, true)

		exact, err := NewExactSolver(0).Solve(context.Background(), m)
		require.NoError(t, err)
		heuristic, err := NewHeuristicSolver().Solve(context.Background(), m)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, heuristic.Cost, exact.Cost)
	}
}

func TestHeuristicSolver_UncrossesSquare(t *testing.T) {
	// Corners of a unit square, scaled; seed order crosses the diagonals
	m := models.CostMatrix{
		{0, 14, 10, 10},
		{14, 0, 10, 10},
		{10, 10, 0, 14},
		{10, 10, 14, 0},
	}
	order, cost, _, err := twoOpt(context.Background(), m, []int{0, 1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, int64(40), cost)
	assertPermutation(t, order, 4)
}

func TestHeuristicSolver_InvalidMatrix(t *testing.T) {
	_, err := NewHeuristicSolver().Solve(context.Background(), models.CostMatrix{{0, 1}, {1}})

	var invalid *ErrInvalidCostMatrix
	assert.True(t, errors.As(err, &invalid))
}
