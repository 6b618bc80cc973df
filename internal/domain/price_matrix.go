package domain

import (
	"fmt"
	"math"
)

// PriceMatrix holds the price of every (ingredient, store) cell.
//
// Both axes are fixed at construction. Every cell starts at +Inf, meaning
// "not offered by this store". Writers touching disjoint cells may run
// concurrently; the matrix has no internal locking.
type PriceMatrix struct {
	ingredients []string
	stores      []string
	rowIndex    map[string]int
	colIndex    map[string]int
	cells       [][]float64
}

// NewPriceMatrix builds an all-unavailable matrix. Repeated ingredient or
// store names collapse onto a single row or column.
func NewPriceMatrix(ingredients []string, storeNames []string) *PriceMatrix {
	m := &PriceMatrix{
		rowIndex: make(map[string]int, len(ingredients)),
		colIndex: make(map[string]int, len(storeNames)),
	}

	for _, ing := range ingredients {
		if _, ok := m.rowIndex[ing]; ok {
			continue
		}
		m.rowIndex[ing] = len(m.ingredients)
		m.ingredients = append(m.ingredients, ing)
	}

	for _, s := range storeNames {
		if _, ok := m.colIndex[s]; ok {
			continue
		}
		m.colIndex[s] = len(m.stores)
		m.stores = append(m.stores, s)
	}

	m.cells = make([][]float64, len(m.ingredients))
	for i := range m.cells {
		row := make([]float64, len(m.stores))
		for j := range row {
			row[j] = math.Inf(1)
		}
		m.cells[i] = row
	}

	return m
}

// Ingredients returns the ingredient axis in construction order.
func (m *PriceMatrix) Ingredients() []string {
	return append([]string(nil), m.ingredients...)
}

// Stores returns the store axis in construction order.
func (m *PriceMatrix) Stores() []string {
	return append([]string(nil), m.stores...)
}

func (m *PriceMatrix) HasIngredient(ingredient string) bool {
	_, ok := m.rowIndex[ingredient]
	return ok
}

func (m *PriceMatrix) HasStore(store string) bool {
	_, ok := m.colIndex[store]
	return ok
}

func (m *PriceMatrix) index(ingredient, store string) (int, int, error) {
	r, ok := m.rowIndex[ingredient]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownIngredient, ingredient)
	}
	c, ok := m.colIndex[store]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownStore, store)
	}
	return r, c, nil
}

// SetPrice records the price of ingredient at store. +Inf marks it unavailable.
func (m *PriceMatrix) SetPrice(ingredient, store string, price float64) error {
	r, c, err := m.index(ingredient, store)
	if err != nil {
		return fmt.Errorf("set price: %w", err)
	}
	if math.IsNaN(price) || price < 0 {
		return fmt.Errorf("set price %q@%q: %w: %v", ingredient, store, ErrInvalidPrice, price)
	}

	m.cells[r][c] = price
	return nil
}

// Price returns the price of ingredient at store (+Inf if not offered).
func (m *PriceMatrix) Price(ingredient, store string) (float64, error) {
	r, c, err := m.index(ingredient, store)
	if err != nil {
		return 0, fmt.Errorf("get price: %w", err)
	}
	return m.cells[r][c], nil
}

// Coverage returns the fraction of ingredients priced at one or more of stores.
func (m *PriceMatrix) Coverage(stores ...string) (float64, error) {
	if len(m.ingredients) == 0 {
		return 0, nil
	}

	cols := make([]int, 0, len(stores))
	for _, s := range stores {
		c, ok := m.colIndex[s]
		if !ok {
			return 0, fmt.Errorf("coverage: %w: %q", ErrUnknownStore, s)
		}
		cols = append(cols, c)
	}

	covered := 0
	for r := range m.ingredients {
		for _, c := range cols {
			if !math.IsInf(m.cells[r][c], 1) {
				covered++
				break
			}
		}
	}

	return float64(covered) / float64(len(m.ingredients)), nil
}

// ApplyInventory rewrites store.Inventory from the store's column: an
// ingredient is available iff its price is finite.
func (m *PriceMatrix) ApplyInventory(store *Store) error {
	c, ok := m.colIndex[store.Name]
	if !ok {
		return fmt.Errorf("apply inventory: %w: %q", ErrUnknownStore, store.Name)
	}

	inv := make(map[string]bool, len(m.ingredients))
	for r, ing := range m.ingredients {
		inv[ing] = !math.IsInf(m.cells[r][c], 1)
	}
	store.Inventory = inv
	return nil
}
