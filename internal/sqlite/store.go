package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"trip-planner/internal/database"
	"trip-planner/internal/logger"

	_ "modernc.org/sqlite"
)

const (
	DefaultDBFileName = "planner.db"
	schemaVersion     = 1
)

// Store is a SQLite-backed store for data that outlives one planning session.
// Only provider responses are kept; itineraries are never persisted.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	distanceCacheRepo database.DistanceCacheRepository
}

// New creates a new SQLite store at the specified path
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	logger.Info("opening SQLite database", "component", "sqlite", "path", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -16000", // 16MB cache
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	store.distanceCacheRepo = &distanceCacheRepository{store: store}

	return store, nil
}

func (s *Store) initSchema() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist, create everything
		return s.createSchema()
	}

	if version < schemaVersion {
		if err := s.runMigrations(version); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);
	INSERT INTO schema_version (version) VALUES (1);

	-- Directed distances between provider place IDs
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin_id TEXT NOT NULL,
		dest_id TEXT NOT NULL,
		distance_meters REAL NOT NULL,
		duration_secs REAL NOT NULL,
		cached_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (origin_id, dest_id)
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("SQLite schema initialized", "component", "sqlite", "version", schemaVersion)
	return nil
}

func (s *Store) runMigrations(fromVersion int) error {
	logger.Info("migrating SQLite schema", "component", "sqlite", "from", fromVersion, "to", schemaVersion)
	_, err := s.db.Exec("UPDATE schema_version SET version = ?", schemaVersion)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		// Checkpoint WAL before closing
		s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		return s.db.Close()
	}
	return nil
}

// HealthCheck verifies the database connection
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DistanceCache returns the distance cache repository
func (s *Store) DistanceCache() database.DistanceCacheRepository { return s.distanceCacheRepo }
