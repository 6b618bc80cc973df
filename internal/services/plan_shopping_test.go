package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-route-service/internal/domain"
)

type fakeRepo struct {
	stores []domain.Store
	err    error
}

func (r fakeRepo) ListStores(context.Context) ([]domain.Store, error) { return r.stores, r.err }

func TestPlanShopping_EndToEnd(t *testing.T) {
	repo := fakeRepo{stores: mkStores("A", "B", "C")}
	prices := &fakePrices{byStore: map[string]map[string]float64{
		"A": {"milk": 3, "eggs": 6},
		"B": {"milk": 4, "eggs": 2},
		"C": {"milk": 1, "eggs": 1},
	}}
	req := PlanShoppingRequest{
		Shopping:   domain.ShoppingRequest{Ingredients: []string{"milk", "eggs"}, Home: home, HourlyTimeValue: 0},
		StoreNames: []string{"A", "B"},
	}

	res, err := PlanShopping(context.Background(), req, repo, prices, &fakeRouting{})
	require.NoError(t, err)

	assert.Len(t, res.Graph.Stores, 2)
	assert.Len(t, res.Result.Candidates, 4)
	assert.InDelta(t, 5.0, res.Result.Winner.BasketSubtotal, 1e-9)
}

func TestPlanShopping_MaxStoresKeepsNearest(t *testing.T) {
	stores := []domain.Store{
		domain.NewStore("Far", "", domain.GeoCoordinate{Lat: 37.95, Lon: -122.42}),
		domain.NewStore("Mid", "", domain.GeoCoordinate{Lat: 37.80, Lon: -122.42}),
		domain.NewStore("Near", "", domain.GeoCoordinate{Lat: 37.775, Lon: -122.42}),
	}
	req := PlanShoppingRequest{
		Shopping:  domain.ShoppingRequest{Ingredients: []string{"milk"}, Home: home},
		MaxStores: 2,
	}

	got, err := selectStores(stores, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Near", "Mid"}, domain.StoreNames(got))
}

func TestPlanShopping_ServiceArea(t *testing.T) {
	stores := []domain.Store{
		domain.NewStore("SF", "", domain.GeoCoordinate{Lat: 37.77, Lon: -122.41}),
		domain.NewStore("Sacramento", "", domain.GeoCoordinate{Lat: 38.58, Lon: -121.49}),
	}
	req := PlanShoppingRequest{
		Shopping:    domain.ShoppingRequest{Ingredients: []string{"milk"}, Home: home},
		ServiceArea: domain.WestBayBounds,
	}

	got, err := selectStores(stores, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"SF"}, domain.StoreNames(got))

	req.Shopping.Home = domain.GeoCoordinate{Lat: 40.7, Lon: -74.0}
	_, err = PlanShopping(context.Background(), req, fakeRepo{stores: stores}, &fakePrices{}, &fakeRouting{})
	assert.ErrorIs(t, err, domain.ErrOutsideServiceArea)
}

func TestPlanShopping_Errors(t *testing.T) {
	req := PlanShoppingRequest{Shopping: domain.ShoppingRequest{Ingredients: []string{"milk"}, Home: home}}

	_, err := PlanShopping(context.Background(), req, fakeRepo{err: errors.New("db down")}, &fakePrices{}, &fakeRouting{})
	assert.ErrorContains(t, err, "list stores")

	_, err = PlanShopping(context.Background(), req, fakeRepo{}, &fakePrices{}, &fakeRouting{})
	assert.ErrorIs(t, err, domain.ErrNoStores)

	req.StoreNames = []string{"Ghost"}
	_, err = PlanShopping(context.Background(), req, fakeRepo{stores: mkStores("A")}, &fakePrices{}, &fakeRouting{})
	assert.ErrorIs(t, err, domain.ErrUnknownStore)

	req.StoreNames = nil
	_, err = PlanShopping(context.Background(), PlanShoppingRequest{}, fakeRepo{}, &fakePrices{}, &fakeRouting{})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
