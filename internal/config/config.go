package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"trip-planner/internal/database"
)

// Provider names
const (
	ProviderGoogle = "google"
	ProviderOSM    = "osm"
)

// Cache backends
const (
	CacheSQLite = "sqlite"
	CacheFile   = "file"
	CacheMemory = "memory"
)

// Config aggregates runtime configuration for the planner.
type Config struct {
	Provider string        `yaml:"provider"`
	Google   GoogleConfig  `yaml:"google"`
	OSM      OSMConfig     `yaml:"osm"`
	HTTP     HTTPConfig    `yaml:"http"`
	Cache    CacheConfig   `yaml:"cache"`
	Routing  RoutingConfig `yaml:"routing"`
	Ranking  RankingConfig `yaml:"ranking"`
	Planner  PlannerConfig `yaml:"planner"`
	Log      LogConfig     `yaml:"log"`
}

// GoogleConfig holds Google Maps Platform settings.
// An empty APIKey falls back to PLANNER_GOOGLE_API_KEY and then the OS keyring.
type GoogleConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseUrl"`
}

// OSMConfig holds OpenStreetMap service endpoints.
type OSMConfig struct {
	NominatimURL string `yaml:"nominatimUrl"`
	OSRMURL      string `yaml:"osrmUrl"`
	UserAgent    string `yaml:"userAgent"`
}

// HTTPConfig controls outbound API calls.
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"maxRetries"`
}

// CacheConfig selects where priced distances are kept between runs.
type CacheConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// RoutingConfig tunes the route optimizer.
type RoutingConfig struct {
	ExactLimit int    `yaml:"exactLimit"`
	Metric     string `yaml:"metric"`
}

// RankingConfig controls how each category is ordered before scheduling.
// Seed 0 means a new seed every run.
type RankingConfig struct {
	Strategy string `yaml:"strategy"`
	Seed     int64  `yaml:"seed"`
}

// PlannerConfig holds itinerary defaults.
type PlannerConfig struct {
	ResultLimit       int `yaml:"resultLimit"`
	DetailConcurrency int `yaml:"detailConcurrency"`
}

// LogConfig controls the rotated log file. An empty Dir means ~/.trip-planner/logs.
type LogConfig struct {
	Level      string `yaml:"level"`
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

// Load reads configuration from path (or the default config file when path is
// empty), then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if defaultPath, err := database.GetConfigFilePath(); err == nil {
		if _, err := os.Stat(defaultPath); err == nil {
			if err := hydrateFromFile(cfg, defaultPath); err != nil {
				return nil, err
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PLANNER_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("PLANNER_GOOGLE_API_KEY"); v != "" {
		cfg.Google.APIKey = v
	}
	if v := os.Getenv("PLANNER_GOOGLE_BASE_URL"); v != "" {
		cfg.Google.BaseURL = v
	}
	if v := os.Getenv("PLANNER_NOMINATIM_URL"); v != "" {
		cfg.OSM.NominatimURL = v
	}
	if v := os.Getenv("PLANNER_OSRM_URL"); v != "" {
		cfg.OSM.OSRMURL = v
	}
	if v := os.Getenv("PLANNER_HTTP_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Timeout = parsed
		}
	}
	if v := os.Getenv("PLANNER_HTTP_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.MaxRetries = parsed
		}
	}
	if v := os.Getenv("PLANNER_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("PLANNER_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("PLANNER_EXACT_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Routing.ExactLimit = parsed
		}
	}
	if v := os.Getenv("PLANNER_ROUTING_METRIC"); v != "" {
		cfg.Routing.Metric = v
	}
	if v := os.Getenv("PLANNER_RANKING"); v != "" {
		cfg.Ranking.Strategy = v
	}
	if v := os.Getenv("PLANNER_SEED"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Ranking.Seed = parsed
		}
	}
	if v := os.Getenv("PLANNER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PLANNER_LOG_DIR"); v != "" {
		cfg.Log.Dir = v
	}
	if v := os.Getenv("PLANNER_RESULT_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Planner.ResultLimit = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		Provider: ProviderGoogle,
		Google: GoogleConfig{
			BaseURL: "https://maps.googleapis.com",
		},
		OSM: OSMConfig{
			NominatimURL: "https://nominatim.openstreetmap.org",
			OSRMURL:      "https://router.project-osrm.org",
			UserAgent:    "TripPlanner/1.0",
		},
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Cache: CacheConfig{
			Backend: CacheSQLite,
		},
		Routing: RoutingConfig{
			ExactLimit: 10,
			Metric:     "distance",
		},
		Ranking: RankingConfig{
			Strategy: "shuffle",
		},
		Planner: PlannerConfig{
			ResultLimit:       15,
			DetailConcurrency: 4,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 14,
			Compress:   true,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGoogle, ProviderOSM:
	default:
		return fmt.Errorf("provider must be %q or %q, got %q", ProviderGoogle, ProviderOSM, c.Provider)
	}
	switch c.Cache.Backend {
	case CacheSQLite, CacheFile, CacheMemory:
	default:
		return fmt.Errorf("cache.backend must be sqlite, file or memory, got %q", c.Cache.Backend)
	}
	switch c.Routing.Metric {
	case "distance", "duration":
	default:
		return fmt.Errorf("routing.metric must be distance or duration, got %q", c.Routing.Metric)
	}
	switch c.Ranking.Strategy {
	case "shuffle", "none":
	default:
		return fmt.Errorf("ranking.strategy must be shuffle or none, got %q", c.Ranking.Strategy)
	}
	if c.HTTP.Timeout <= 0 {
		return errors.New("http.timeout must be positive")
	}
	if c.HTTP.MaxRetries < 1 {
		return errors.New("http.maxRetries must be at least 1")
	}
	if c.Routing.ExactLimit < 1 {
		return errors.New("routing.exactLimit must be at least 1")
	}
	if c.Planner.ResultLimit < 1 {
		return errors.New("planner.resultLimit must be at least 1")
	}
	if c.Planner.DetailConcurrency < 1 {
		return errors.New("planner.detailConcurrency must be at least 1")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Log.MaxSizeMB < 1 {
		return errors.New("log.maxSizeMB must be at least 1")
	}
	if c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return errors.New("log.maxBackups and log.maxAgeDays cannot be negative")
	}
	if c.Provider == ProviderOSM && strings.TrimSpace(c.OSM.UserAgent) == "" {
		return errors.New("osm.userAgent cannot be empty")
	}
	return nil
}
