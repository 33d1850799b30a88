package routing

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner/internal/models"
)

func TestOptimizer_SolverFor(t *testing.T) {
	o := NewDefaultOptimizer(5)

	assert.Equal(t, "exact", o.SolverFor(1).Name())
	assert.Equal(t, "exact", o.SolverFor(5).Name())
	assert.Equal(t, "nearest-neighbor+2opt", o.SolverFor(6).Name())
}

func TestOptimizer_DefaultLimit(t *testing.T) {
	o := NewDefaultOptimizer(0)

	assert.Equal(t, "exact", o.SolverFor(DefaultExactLimit).Name())
	assert.Equal(t, "nearest-neighbor+2opt", o.SolverFor(DefaultExactLimit+1).Name())
}

func TestOptimizer_Optimize(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	t.Run("small instance is exact", func(t *testing.T) {
		m := randomMatrix(rng, 6, true)

		route, err := NewDefaultOptimizer(10).Optimize(context.Background(), m)

		require.NoError(t, err)
		assert.Equal(t, "exact", route.Solver)
		assert.Equal(t, allPermutationsMinCost(m), route.Cost)
	})

	t.Run("large instance uses heuristic", func(t *testing.T) {
		m := randomMatrix(rng, 15, true)

		route, err := NewDefaultOptimizer(10).Optimize(context.Background(), m)

		require.NoError(t, err)
		assert.Equal(t, "nearest-neighbor+2opt", route.Solver)
		assertPermutation(t, route.Order, 15)
	})

	t.Run("invalid matrix", func(t *testing.T) {
		m := models.CostMatrix{{0, models.MissingEdge}, {3, 0}}

		_, err := NewDefaultOptimizer(10).Optimize(context.Background(), m)

		var invalid *ErrInvalidCostMatrix
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, 0, invalid.Row)
		assert.Equal(t, 1, invalid.Col)
	})

	t.Run("no heuristic configured", func(t *testing.T) {
		m := randomMatrix(rng, 6, true)

		_, err := NewOptimizer(NewExactSolver(4), nil, 4).Optimize(context.Background(), m)

		var tooMany *ErrTooManyStops
		require.True(t, errors.As(err, &tooMany))
		assert.Equal(t, 6, tooMany.Stops)
	})
}
