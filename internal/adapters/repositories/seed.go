package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/platform/db"
)

type StoreSeed struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// LoadStoreSeeds reads and validates a JSON array of stores.
func LoadStoreSeeds(jsonPath string) ([]domain.Store, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load store seeds: read %q: %w", jsonPath, err)
	}

	var data []StoreSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load store seeds: parse json: %w", err)
	}

	stores := make([]domain.Store, 0, len(data))
	for i, item := range data {
		loc := domain.GeoCoordinate{Lat: item.Lat, Lon: item.Lon}
		if !loc.Valid() {
			return nil, fmt.Errorf("load store seeds: item at index %d: invalid coordinate %v", i+1, loc)
		}
		stores = append(stores, domain.NewStore(strings.TrimSpace(item.Name), strings.TrimSpace(item.Address), loc))
	}

	if err := domain.ValidateStores(stores); err != nil {
		return nil, fmt.Errorf("load store seeds: %w", err)
	}
	return stores, nil
}

// SeedFromJSON upserts the stores listed in a JSON file.
func SeedFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) error {
	stores, err := LoadStoreSeeds(jsonPath)
	if err != nil {
		return fmt.Errorf("seed stores: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed stores: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
	INSERT INTO stores (name, address, lat, lon)
	VALUES (%s)
	ON CONFLICT (name) DO UPDATE
	SET address = excluded.address,
		lat = excluded.lat,
		lon = excluded.lon;
	`, dialect.Placeholders(1, 4))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed stores: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range stores {
		if _, err := stmt.ExecContext(ctx, s.Name, s.Address, s.Location.Lat, s.Location.Lon); err != nil {
			return fmt.Errorf("seed stores: insert name=%q: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stores: commit tx: %w", err)
	}

	return nil
}
