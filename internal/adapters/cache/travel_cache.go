package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"grocery-route-service/internal/platform/db"
	"grocery-route-service/internal/platform/obs"
	"grocery-route-service/internal/ports"
)

// SQLTravelCache is a SQL-backed cache for origin->destination travel
// estimates. Keys are coordinate strings ("lat,lon").
type SQLTravelCache struct {
	DB      *sql.DB
	Dialect db.Dialect
	// MaxAge hides entries older than this; zero keeps entries forever.
	MaxAge time.Duration

	now func() time.Time
}

func NewSQLTravelCache(conn *sql.DB, dialect db.Dialect, maxAge time.Duration) *SQLTravelCache {
	return &SQLTravelCache{DB: conn, Dialect: dialect, MaxAge: maxAge, now: time.Now}
}

func (s *SQLTravelCache) cutoff() int64 {
	if s.MaxAge <= 0 {
		return 0
	}
	return s.now().Add(-s.MaxAge).Unix()
}

// Fetch cached estimates for one origin and multiple destinations.
func (s *SQLTravelCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.TravelEstimate, err error) {
	defer obs.Time(ctx, "travel.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("travel cache: db is nil")
	}
	if strings.TrimSpace(origin) == "" {
		return nil, errors.New("get travel cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.TravelEstimate{}, nil
	}

	q := fmt.Sprintf(`
	SELECT destination, minutes, cost, distance_meters
	FROM travel_cache
	WHERE origin = %s
		AND updated_at >= %s
		AND destination IN (%s);
	`, s.Dialect.Placeholder(1), s.Dialect.Placeholder(2), s.Dialect.Placeholders(3, len(uniq)))

	rows, err := s.DB.QueryContext(ctx, q, toArgs([]any{origin, s.cutoff()}, uniq)...)
	if err != nil {
		return nil, fmt.Errorf("get travel cache: query travel_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.TravelEstimate, len(uniq))
	for rows.Next() {
		var dest string
		var e ports.TravelEstimate
		if err := rows.Scan(&dest, &e.Minutes, &e.Cost, &e.DistanceMeters); err != nil {
			return nil, fmt.Errorf("get travel cache: scan rows: %w", err)
		}
		out[dest] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get travel cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many estimates for a single origin.
func (s *SQLTravelCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.TravelEstimate,
) error {
	if s.DB == nil {
		return errors.New("travel cache: db is nil")
	}
	if strings.TrimSpace(origin) == "" {
		return errors.New("insert travel cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert travel cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
	INSERT INTO travel_cache (origin, destination, minutes, cost, distance_meters, updated_at)
	VALUES (%s)
	ON CONFLICT (origin, destination) DO UPDATE
	SET minutes = excluded.minutes,
		cost = excluded.cost,
		distance_meters = excluded.distance_meters,
		updated_at = excluded.updated_at;
	`, s.Dialect.Placeholders(1, 6)))
	if err != nil {
		return fmt.Errorf("insert travel cache: db prepare: %w", err)
	}
	defer stmt.Close()

	now := s.now().Unix()
	for dest, e := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert travel cache: empty destination key")
		}
		if _, err := stmt.ExecContext(ctx, origin, dest, e.Minutes, e.Cost, e.DistanceMeters, now); err != nil {
			return fmt.Errorf("insert travel cache dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert travel cache commit: %w", err)
	}

	return nil
}
