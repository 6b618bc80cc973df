package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"grocery-route-service/internal/domain"
)

var home = domain.GeoCoordinate{Lat: 37.77, Lon: -122.42}

func mkStores(names ...string) []domain.Store {
	out := make([]domain.Store, 0, len(names))
	for i, n := range names {
		out = append(out, domain.NewStore(n, "", domain.GeoCoordinate{Lat: 37.7 + float64(i)*0.01, Lon: -122.4}))
	}
	return out
}

// symmetricEdges connects every pair of stops (home included) in both
// directions with the same minutes and cost.
func symmetricEdges(stores []domain.Store, minutes, cost float64) []domain.RouteSegment {
	locs := []domain.Location{domain.Home()}
	for _, s := range stores {
		locs = append(locs, domain.StoreLocation(s.Name))
	}

	var out []domain.RouteSegment
	for _, a := range locs {
		for _, b := range locs {
			if a == b {
				continue
			}
			out = append(out, domain.RouteSegment{Origin: a, Destination: b, TravelMinutes: minutes, TravelCost: cost})
		}
	}
	return out
}

func mkPrices(t *testing.T, ingredients []string, stores []domain.Store, cells map[string]map[string]float64) *domain.PriceMatrix {
	t.Helper()

	m := domain.NewPriceMatrix(ingredients, domain.StoreNames(stores))
	for store, row := range cells {
		for ing, p := range row {
			require.NoError(t, m.SetPrice(ing, store, p))
		}
	}
	return m
}
