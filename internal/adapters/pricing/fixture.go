package pricing

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"grocery-route-service/internal/domain"
)

// FixtureSource serves prices from a static table, keyed store -> ingredient.
// Ingredient matching is case-insensitive. Absent entries are unavailable.
type FixtureSource struct {
	prices map[string]map[string]float64
}

type fixtureFile struct {
	Prices map[string]map[string]float64 `yaml:"prices"`
}

func NewFixtureSource(prices map[string]map[string]float64) *FixtureSource {
	norm := make(map[string]map[string]float64, len(prices))
	for store, row := range prices {
		m := make(map[string]float64, len(row))
		for ing, p := range row {
			m[normalizeName(ing)] = p
		}
		norm[store] = m
	}
	return &FixtureSource{prices: norm}
}

// LoadFixtureSource reads a YAML file of the form
//
//	prices:
//	  Safeway:
//	    milk: 3.49
func LoadFixtureSource(path string) (*FixtureSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read price fixture at '%s': %w", path, err)
	}

	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse price fixture: %w", err)
	}
	return NewFixtureSource(f.Prices), nil
}

func (f *FixtureSource) StorePrices(ctx context.Context, store domain.Store, ingredients []string) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	row := f.prices[store.Name]
	out := make(map[string]float64, len(ingredients))
	for _, ing := range ingredients {
		if p, ok := row[normalizeName(ing)]; ok {
			out[ing] = p
		}
	}
	return out, nil
}
