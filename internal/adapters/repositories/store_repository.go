package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"grocery-route-service/internal/domain"
)

// SQL-backed implementation of the StoreRepository port. The query is
// portable across Postgres and SQLite.
type SQLStoreRepository struct{ DB *sql.DB }

func NewSQLStoreRepository(conn *sql.DB) *SQLStoreRepository {
	return &SQLStoreRepository{DB: conn}
}

// Return all stores ordered by name.
func (s *SQLStoreRepository) ListStores(ctx context.Context) ([]domain.Store, error) {
	if s.DB == nil {
		return nil, errors.New("store repository: DB is nil")
	}

	query := `
	SELECT
		name,
		address,
		lat,
		lon
	FROM stores
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stores: query stores table: %w", err)
	}
	defer rows.Close()

	stores := make([]domain.Store, 0, 16)
	for rows.Next() {
		var name, addr string
		var loc domain.GeoCoordinate
		if err := rows.Scan(&name, &addr, &loc.Lat, &loc.Lon); err != nil {
			return nil, fmt.Errorf("list stores: scan row: %w", err)
		}
		stores = append(stores, domain.NewStore(name, addr, loc))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stores: row iteration: %w", err)
	}

	return stores, nil
}

// StaticStoreRepository serves a fixed store list, e.g. one loaded from a seed file.
type StaticStoreRepository struct {
	Stores []domain.Store
}

func (s StaticStoreRepository) ListStores(context.Context) ([]domain.Store, error) {
	out := make([]domain.Store, len(s.Stores))
	copy(out, s.Stores)
	return out, nil
}
