package itinerary

import (
	"math/rand"

	"trip-planner/internal/logger"
	"trip-planner/internal/models"
)

// Ranking strategy names accepted by NewRanker
const (
	RankingShuffle = "shuffle"
	RankingNone    = "none"
)

// Ranker orders each pool category before the schedule is built
type Ranker interface {
	Name() string
	Rank(pool models.ActivityPool, interests []string) models.ActivityPool
}

// NewRanker returns the ranker registered under name, defaulting to shuffle
func NewRanker(name string, rng *rand.Rand) Ranker {
	if name == RankingNone {
		return IdentityRanker{}
	}
	return NewShuffleRanker(rng)
}

type shuffleRanker struct {
	rng *rand.Rand
}

// NewShuffleRanker returns a ranker that shuffles every category with rng.
// The same seed always yields the same order.
func NewShuffleRanker(rng *rand.Rand) Ranker {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &shuffleRanker{rng: rng}
}

func (r *shuffleRanker) Name() string { return RankingShuffle }

// Rank ignores interests; matching them against activities needs place types
// from the provider, which the pool does not carry yet.
func (r *shuffleRanker) Rank(pool models.ActivityPool, interests []string) models.ActivityPool {
	if len(interests) > 0 {
		logger.Debug("interests are not used for ranking", "component", "itinerary", "interests", interests)
	}

	out := pool.Clone()
	for _, c := range models.Categories {
		acts := out[c]
		r.rng.Shuffle(len(acts), func(i, j int) {
			acts[i], acts[j] = acts[j], acts[i]
		})
	}
	return out
}

// IdentityRanker keeps the incoming order
type IdentityRanker struct{}

func (IdentityRanker) Name() string { return RankingNone }

func (IdentityRanker) Rank(pool models.ActivityPool, _ []string) models.ActivityPool {
	return pool.Clone()
}
