// Package fixture loads self-contained shopping scenarios from YAML.
package fixture

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"grocery-route-service/internal/domain"
)

type StoreEntry struct {
	Name    string             `yaml:"name"`
	Address string             `yaml:"address"`
	Lat     float64            `yaml:"lat"`
	Lon     float64            `yaml:"lon"`
	Prices  map[string]float64 `yaml:"prices"`
}

type EdgeEntry struct {
	From    string  `yaml:"from"`
	To      string  `yaml:"to"`
	Minutes float64 `yaml:"minutes"`
	Cost    float64 `yaml:"cost"`

	// Symmetric also adds the reverse edge.
	Symmetric bool `yaml:"symmetric"`
}

// Scenario is a complete solver input. Edges are optional; without them the
// caller derives travel from store coordinates.
type Scenario struct {
	Home               domain.GeoCoordinate `yaml:"home"`
	HourlyRate         float64              `yaml:"hourly_rate"`
	Ingredients        []string             `yaml:"ingredients"`
	MissingItemPenalty *float64             `yaml:"missing_item_penalty"`
	Stores             []StoreEntry         `yaml:"stores"`
	Edges              []EdgeEntry          `yaml:"edges"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario at '%s': %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := domain.ValidateStores(s.DomainStores()); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return &s, nil
}

func (s *Scenario) Request() domain.ShoppingRequest {
	return domain.ShoppingRequest{
		Ingredients:     s.Ingredients,
		Home:            s.Home,
		HourlyTimeValue: s.HourlyRate,
	}
}

func (s *Scenario) DomainStores() []domain.Store {
	out := make([]domain.Store, 0, len(s.Stores))
	for _, st := range s.Stores {
		out = append(out, domain.NewStore(st.Name, st.Address, domain.GeoCoordinate{Lat: st.Lat, Lon: st.Lon}))
	}
	return out
}

// PriceTable returns prices keyed store -> ingredient.
func (s *Scenario) PriceTable() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(s.Stores))
	for _, st := range s.Stores {
		out[st.Name] = st.Prices
	}
	return out
}

// PriceMatrix builds the matrix over the scenario's ingredients and stores.
// Prices for ingredients not on the shopping list are ignored.
func (s *Scenario) PriceMatrix() (*domain.PriceMatrix, error) {
	stores := s.DomainStores()
	m := domain.NewPriceMatrix(s.Ingredients, domain.StoreNames(stores))
	for _, st := range s.Stores {
		for ing, p := range st.Prices {
			if !m.HasIngredient(ing) {
				continue
			}
			if err := m.SetPrice(ing, st.Name, p); err != nil {
				return nil, fmt.Errorf("scenario prices: %w", err)
			}
		}
	}
	return m, nil
}

// Segments converts the explicit edges. Stop names are store names or HOME.
func (s *Scenario) Segments() ([]domain.RouteSegment, error) {
	known := make(map[string]bool, len(s.Stores))
	for _, st := range s.Stores {
		known[st.Name] = true
	}

	loc := func(name string) (domain.Location, error) {
		name = strings.TrimSpace(name)
		if strings.EqualFold(name, domain.HomeName) {
			return domain.Home(), nil
		}
		if !known[name] {
			return domain.Location{}, fmt.Errorf("%w: %q", domain.ErrUnknownStore, name)
		}
		return domain.StoreLocation(name), nil
	}

	out := make([]domain.RouteSegment, 0, len(s.Edges)*2)
	for i, e := range s.Edges {
		from, err := loc(e.From)
		if err != nil {
			return nil, fmt.Errorf("scenario edge %d: %w", i, err)
		}
		to, err := loc(e.To)
		if err != nil {
			return nil, fmt.Errorf("scenario edge %d: %w", i, err)
		}

		out = append(out, domain.RouteSegment{Origin: from, Destination: to, TravelMinutes: e.Minutes, TravelCost: e.Cost})
		if e.Symmetric {
			out = append(out, domain.RouteSegment{Origin: to, Destination: from, TravelMinutes: e.Minutes, TravelCost: e.Cost})
		}
	}
	return out, nil
}
