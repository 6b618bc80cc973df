package domain

import (
	"fmt"
	"strings"
)

// Store is a node in the shopping graph.
//
// Inventory maps ingredient names to availability. It is derived from the
// price matrix whenever prices are (re)fetched; the solver only reads it.
type Store struct {
	Name      string
	Address   string
	Location  GeoCoordinate
	Inventory map[string]bool
}

func NewStore(name, address string, loc GeoCoordinate) Store {
	return Store{
		Name:      name,
		Address:   address,
		Location:  loc,
		Inventory: map[string]bool{},
	}
}

// HasItem reports whether the store is known to carry ingredient.
func (s Store) HasItem(ingredient string) bool {
	return s.Inventory[ingredient]
}

// ValidateStores enforces that store names are non-empty, unique and not reserved.
// Edge and price lookups are keyed by name, so duplicates would silently alias.
func ValidateStores(stores []Store) error {
	seen := make(map[string]struct{}, len(stores))
	for i, s := range stores {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("validate stores: store at index %d: %w: name must not be empty", i, ErrInvalidStore)
		}
		if name != s.Name {
			return fmt.Errorf("validate stores: store %q: %w: name has surrounding whitespace", s.Name, ErrInvalidStore)
		}
		if name == HomeName || name == NotAvailableName {
			return fmt.Errorf("validate stores: store %q: %w: name is reserved", name, ErrInvalidStore)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("validate stores: %w: %q", ErrDuplicateStore, name)
		}
		seen[name] = struct{}{}
	}

	return nil
}

// StoreNames returns the names of stores in input order.
func StoreNames(stores []Store) []string {
	names := make([]string, 0, len(stores))
	for _, s := range stores {
		names = append(names, s.Name)
	}
	return names
}
