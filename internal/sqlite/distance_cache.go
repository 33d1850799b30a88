package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"trip-planner/internal/database"
	"trip-planner/internal/models"
)

type distanceCacheRepository struct {
	store *Store
}

const selectDistanceQuery = `SELECT origin_id, dest_id, distance_meters, duration_secs
	FROM distance_cache
	WHERE origin_id = ? AND dest_id = ?`

const upsertDistanceQuery = `INSERT OR REPLACE INTO distance_cache
	(origin_id, dest_id, distance_meters, duration_secs)
	VALUES (?, ?, ?, ?)`

func (r *distanceCacheRepository) Get(ctx context.Context, originID, destID string) (*models.DistanceCacheEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var entry models.DistanceCacheEntry
	err := r.store.db.QueryRowContext(ctx, selectDistanceQuery, originID, destID).Scan(
		&entry.OriginID, &entry.DestinationID,
		&entry.DistanceMeters, &entry.DurationSecs,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get distance cache entry: %w", err)
	}

	return &entry, nil
}

func (r *distanceCacheRepository) GetBatch(ctx context.Context, pairs []database.CachePair) (map[string]*models.DistanceCacheEntry, error) {
	result := make(map[string]*models.DistanceCacheEntry)
	if len(pairs) == 0 {
		return result, nil
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stmt, err := r.store.db.PrepareContext(ctx, selectDistanceQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare batch query: %w", err)
	}
	defer stmt.Close()

	for _, pair := range pairs {
		var entry models.DistanceCacheEntry
		err := stmt.QueryRowContext(ctx, pair.OriginID, pair.DestinationID).Scan(
			&entry.OriginID, &entry.DestinationID,
			&entry.DistanceMeters, &entry.DurationSecs,
		)

		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query batch entry: %w", err)
		}

		result[database.CacheKey(pair.OriginID, pair.DestinationID)] = &entry
	}

	return result, nil
}

func (r *distanceCacheRepository) Set(ctx context.Context, entry *models.DistanceCacheEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, err := r.store.db.ExecContext(ctx, upsertDistanceQuery,
		entry.OriginID, entry.DestinationID,
		entry.DistanceMeters, entry.DurationSecs,
	)
	if err != nil {
		return fmt.Errorf("failed to set distance cache entry: %w", err)
	}

	return nil
}

func (r *distanceCacheRepository) SetBatch(ctx context.Context, entries []models.DistanceCacheEntry) error {
	if len(entries) == 0 {
		return nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertDistanceQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		_, err := stmt.ExecContext(ctx, entry.OriginID, entry.DestinationID,
			entry.DistanceMeters, entry.DurationSecs)
		if err != nil {
			return fmt.Errorf("failed to insert batch entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *distanceCacheRepository) Clear(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, err := r.store.db.ExecContext(ctx, "DELETE FROM distance_cache")
	if err != nil {
		return fmt.Errorf("failed to clear distance cache: %w", err)
	}

	return nil
}
