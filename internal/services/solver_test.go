package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-route-service/internal/domain"
)

// Two stores 10 min / $1 from home each way with no store-to-store edges.
func scenarioA(t *testing.T) (domain.ShoppingRequest, []domain.Store, *domain.PriceMatrix, []domain.RouteSegment) {
	t.Helper()

	stores := mkStores("Store1", "Store2")
	prices := mkPrices(t, []string{"milk"}, stores, map[string]map[string]float64{
		"Store1": {"milk": 3.00},
		"Store2": {"milk": 3.50},
	})

	var edges []domain.RouteSegment
	for _, s := range stores {
		loc := domain.StoreLocation(s.Name)
		edges = append(edges,
			domain.RouteSegment{Origin: domain.Home(), Destination: loc, TravelMinutes: 10, TravelCost: 1},
			domain.RouteSegment{Origin: loc, Destination: domain.Home(), TravelMinutes: 10, TravelCost: 1},
		)
	}

	req := domain.ShoppingRequest{Ingredients: []string{"milk"}, Home: home, HourlyTimeValue: 60}
	return req, stores, prices, edges
}

func TestSolve_EquidistantStoresPickCheaper(t *testing.T) {
	req, stores, prices, edges := scenarioA(t)

	res, err := Solve(req, stores, prices, edges)
	require.NoError(t, err)

	assert.Equal(t, []string{"HOME", "Store1", "HOME"}, res.Winner.StopNames())
	assert.InDelta(t, 20.0, res.Winner.TimeValueCost, 1e-9)
	assert.InDelta(t, 23.0, res.Winner.Total, 1e-9)
	assert.InDelta(t, 0.5, res.Margin, 1e-9)
	assert.Len(t, res.Candidates, 4)

	for _, c := range res.Candidates[2:] {
		assert.False(t, c.Viable(), "pair routes have no store-to-store edge")
	}
}

func TestSolve_UnavailableEverywhere(t *testing.T) {
	stores := mkStores("A", "B")
	prices := mkPrices(t, []string{"milk", "truffle"}, stores, map[string]map[string]float64{
		"A": {"milk": 2},
		"B": {"milk": 3},
	})
	req := domain.ShoppingRequest{Ingredients: []string{"milk", "truffle"}, Home: home, HourlyTimeValue: 12}

	res, err := Solve(req, stores, prices, symmetricEdges(stores, 5, 1))
	require.NoError(t, err)

	for _, c := range res.Candidates {
		assert.Equal(t, 1, c.MissingItems)
		assert.Equal(t, domain.NotAvailableName, c.Assignments[1].StoreName)
		assert.Equal(t, 10.0, c.Assignments[1].Price)
	}
	assert.Equal(t, []string{"A"}, res.Winner.StoresVisited())
	assert.InDelta(t, 12.0, res.Winner.BasketSubtotal, 1e-9)
}

func TestSolve_ZeroRateIgnoresDistance(t *testing.T) {
	stores := mkStores("Near", "Far")
	prices := mkPrices(t, []string{"milk"}, stores, map[string]map[string]float64{
		"Near": {"milk": 4},
		"Far":  {"milk": 2},
	})
	edges := []domain.RouteSegment{
		{Origin: domain.Home(), Destination: domain.StoreLocation("Near"), TravelMinutes: 1, TravelCost: 0.1},
		{Origin: domain.StoreLocation("Near"), Destination: domain.Home(), TravelMinutes: 1, TravelCost: 0.1},
		{Origin: domain.Home(), Destination: domain.StoreLocation("Far"), TravelMinutes: 90, TravelCost: 30},
		{Origin: domain.StoreLocation("Far"), Destination: domain.Home(), TravelMinutes: 90, TravelCost: 30},
	}
	req := domain.ShoppingRequest{Ingredients: []string{"milk"}, Home: home, HourlyTimeValue: 0}

	res, err := Solve(req, stores, prices, edges)
	require.NoError(t, err)

	for _, c := range res.Candidates {
		if c.Viable() {
			assert.Equal(t, 0.0, c.TimeValueCost)
		}
	}
	assert.Equal(t, []string{"Far"}, res.Winner.StoresVisited())
	assert.Equal(t, 2.0, res.Winner.Total)
}

func TestSolve_SingleStore(t *testing.T) {
	stores := mkStores("Only")
	prices := mkPrices(t, []string{"milk"}, stores, map[string]map[string]float64{"Only": {"milk": 3}})
	req := domain.ShoppingRequest{Ingredients: []string{"milk"}, Home: home, HourlyTimeValue: 20}

	res, err := Solve(req, stores, prices, symmetricEdges(stores, 15, 2))
	require.NoError(t, err)

	require.Len(t, res.Candidates, 1)
	assert.Equal(t, []string{"Only"}, res.Winner.StoresVisited())
	assert.Equal(t, 0.0, res.Margin)
}

func TestSolve_TotalsAndDeterminism(t *testing.T) {
	stores := mkStores("A", "B", "C", "D")
	prices := mkPrices(t, []string{"milk", "eggs", "rice"}, stores, map[string]map[string]float64{
		"A": {"milk": 3, "eggs": 4},
		"B": {"milk": 3, "rice": 2},
		"C": {"eggs": 3.5, "rice": 2.5},
		"D": {"milk": 2.75, "eggs": 4.25, "rice": 1.5},
	})
	edges := symmetricEdges(stores, 8, 1.5)
	req := domain.ShoppingRequest{Ingredients: []string{"milk", "eggs", "rice"}, Home: home, HourlyTimeValue: 25}

	first, err := Solve(req, stores, prices, edges)
	require.NoError(t, err)
	assert.Len(t, first.Candidates, 16)

	for _, c := range first.Candidates {
		assert.Equal(t, c.TimeValueCost+c.BasketSubtotal, c.Total)
	}

	for i := 0; i < 5; i++ {
		again, err := Solve(req, stores, prices, edges)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSolve_HigherRateNeverLowersTotals(t *testing.T) {
	stores := mkStores("A", "B", "C")
	prices := mkPrices(t, []string{"milk", "eggs"}, stores, map[string]map[string]float64{
		"A": {"milk": 3},
		"B": {"eggs": 2},
		"C": {"milk": 4, "eggs": 4},
	})
	edges := symmetricEdges(stores, 12, 1)

	totals := func(rate float64) map[string]float64 {
		req := domain.ShoppingRequest{Ingredients: []string{"milk", "eggs"}, Home: home, HourlyTimeValue: rate}
		res, err := Solve(req, stores, prices, edges)
		require.NoError(t, err)

		out := make(map[string]float64, len(res.Candidates))
		for _, c := range res.Candidates {
			key := ""
			for _, n := range c.StopNames() {
				key += n + ">"
			}
			out[key] = c.Total
		}
		return out
	}

	low, high := totals(5), totals(50)
	require.Len(t, high, len(low))
	for k, v := range low {
		assert.GreaterOrEqual(t, high[k], v, k)
	}
}

func TestSolve_PenaltyOption(t *testing.T) {
	stores := mkStores("A")
	prices := mkPrices(t, []string{"milk", "caviar"}, stores, map[string]map[string]float64{"A": {"milk": 3}})
	req := domain.ShoppingRequest{Ingredients: []string{"milk", "caviar"}, Home: home}

	res, err := Solve(req, stores, prices, symmetricEdges(stores, 5, 1), WithMissingItemPenalty(50))
	require.NoError(t, err)
	assert.Equal(t, 53.0, res.Winner.BasketSubtotal)

	_, err = Solve(req, stores, prices, nil, WithMissingItemPenalty(math.NaN()))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestSolve_NoViableRoute(t *testing.T) {
	stores := mkStores("A", "B")
	prices := mkPrices(t, []string{"milk"}, stores, nil)
	req := domain.ShoppingRequest{Ingredients: []string{"milk"}, Home: home, HourlyTimeValue: 20}

	_, err := Solve(req, stores, prices, nil)
	assert.ErrorIs(t, err, domain.ErrNoViableRoute)
}

func TestSolve_InputValidation(t *testing.T) {
	stores := mkStores("A")
	prices := mkPrices(t, []string{"milk"}, stores, nil)
	ok := domain.ShoppingRequest{Ingredients: []string{"milk"}, Home: home, HourlyTimeValue: 10}

	tests := []struct {
		name   string
		req    domain.ShoppingRequest
		stores []domain.Store
		prices *domain.PriceMatrix
		want   error
	}{
		{"no stores", ok, nil, prices, domain.ErrNoStores},
		{"empty list", domain.ShoppingRequest{Home: home}, stores, prices, domain.ErrInvalidRequest},
		{"negative rate", domain.ShoppingRequest{Ingredients: []string{"milk"}, Home: home, HourlyTimeValue: -1}, stores, prices, domain.ErrInvalidRequest},
		{"duplicate store", ok, mkStores("A", "A"), prices, domain.ErrDuplicateStore},
		{"reserved name", ok, mkStores("HOME"), prices, domain.ErrInvalidStore},
		{"nil prices", ok, stores, nil, domain.ErrInvalidRequest},
		{"unknown ingredient", domain.ShoppingRequest{Ingredients: []string{"tea"}, Home: home}, stores, prices, domain.ErrUnknownIngredient},
		{"store off matrix", ok, mkStores("Z"), prices, domain.ErrUnknownStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solve(tt.req, tt.stores, tt.prices, nil)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, domain.IsInputError(err))
		})
	}
}

func TestSolve_DoesNotMutateInputs(t *testing.T) {
	req, stores, prices, edges := scenarioA(t)
	before := prices.Ingredients()

	_, err := Solve(req, stores, prices, edges)
	require.NoError(t, err)

	assert.Equal(t, before, prices.Ingredients())
	p, err := prices.Price("milk", "Store2")
	require.NoError(t, err)
	assert.Equal(t, 3.5, p)
	assert.Empty(t, stores[0].Inventory)
}
