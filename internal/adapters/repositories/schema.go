package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"grocery-route-service/internal/platform/db"
)

// InitSchema creates the store and cache tables if they do not exist.
func InitSchema(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	realType := dialect.RealType()

	createStoresQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS stores (
		name TEXT PRIMARY KEY,
		address TEXT NOT NULL DEFAULT '',
		lat %[1]s NOT NULL,
		lon %[1]s NOT NULL
	);
	`, realType)

	createTravelCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS travel_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		minutes %[1]s NOT NULL,
		cost %[1]s NOT NULL,
		distance_meters INTEGER NOT NULL,
		updated_at BIGINT NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`, realType)

	createGeocodeCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat %[1]s NOT NULL,
		lon %[1]s NOT NULL
	);
	`, realType)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_travel_cache_destination_origin
	ON travel_cache(destination, origin);
	`

	statements := []string{
		createStoresQuery,
		createTravelCacheQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
