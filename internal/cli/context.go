package cli

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"trip-planner/internal/config"
	"trip-planner/internal/database"
	"trip-planner/internal/distance"
	"trip-planner/internal/itinerary"
	"trip-planner/internal/logger"
	"trip-planner/internal/places"
	"trip-planner/internal/planner"
	"trip-planner/internal/routing"
	"trip-planner/internal/sqlite"
)

// Context is shared by every command
type Context struct {
	Ctx    context.Context
	Config *config.Config
}

// OpenCache opens the configured distance cache backend. The returned close
// function is always safe to call.
func OpenCache(ctx context.Context, cfg *config.Config) (database.DistanceCacheRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Cache.Backend {
	case config.CacheMemory:
		return database.NewMemoryDistanceCache(), noop, nil
	case config.CacheFile:
		cache, err := database.NewFileDistanceCache(cfg.Cache.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open distance cache: %w", err)
		}
		return cache, noop, nil
	default:
		path := cfg.Cache.Path
		if path == "" {
			var err error
			if path, err = database.GetDefaultDBPath(); err != nil {
				return nil, noop, err
			}
		}
		store, err := sqlite.New(path)
		if err != nil {
			return nil, noop, err
		}
		if err := store.HealthCheck(ctx); err != nil {
			store.Close()
			return nil, noop, fmt.Errorf("distance cache database unavailable: %w", err)
		}
		return store.DistanceCache(), store.Close, nil
	}
}

// NewProviders builds the places and distance clients for the configured provider
func NewProviders(cfg *config.Config, cache database.DistanceCacheRepository) (places.Provider, distance.Provider) {
	dcfg := distance.Config{
		Timeout: cfg.HTTP.Timeout,
		Metric:  distance.Metric(cfg.Routing.Metric),
	}

	if cfg.Provider == config.ProviderOSM {
		p := places.NewNominatimProvider(places.Config{
			BaseURL:   cfg.OSM.NominatimURL,
			Timeout:   cfg.HTTP.Timeout,
			UserAgent: cfg.OSM.UserAgent,
		})
		dcfg.BaseURL = cfg.OSM.OSRMURL
		return p, distance.NewOSRMProvider(dcfg, cache)
	}

	p := places.NewGoogleProvider(places.Config{
		BaseURL: cfg.Google.BaseURL,
		APIKey:  cfg.Google.APIKey,
		Timeout: cfg.HTTP.Timeout,
	})
	dcfg.BaseURL = cfg.Google.BaseURL
	dcfg.APIKey = cfg.Google.APIKey
	return p, distance.NewGoogleProvider(dcfg, cache)
}

// NewPlanner wires a planning service from configuration
func NewPlanner(cfg *config.Config, cache database.DistanceCacheRepository) *planner.Service {
	seed := cfg.Ranking.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug("ranking configured", "component", "cli", "strategy", cfg.Ranking.Strategy, "seed", seed)

	p, d := NewProviders(cfg, cache)
	return planner.NewService(p, d,
		routing.NewDefaultOptimizer(cfg.Routing.ExactLimit),
		itinerary.NewRanker(cfg.Ranking.Strategy, rand.New(rand.NewSource(seed))),
		planner.Options{
			ResultLimit:       cfg.Planner.ResultLimit,
			MaxRetries:        cfg.HTTP.MaxRetries,
			DetailConcurrency: cfg.Planner.DetailConcurrency,
		})
}
