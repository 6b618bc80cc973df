package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-route-service/internal/domain"
)

func TestHaversineRouter_Travel(t *testing.T) {
	h := NewHaversineRouter()
	a := domain.GeoCoordinate{Lat: 37.7749, Lon: -122.4194}
	b := domain.GeoCoordinate{Lat: 37.8044, Lon: -122.2712}

	e, err := h.Travel(context.Background(), a, b)
	require.NoError(t, err)

	km := a.DistanceKm(b)
	assert.InDelta(t, km/40*60, e.Minutes, 1e-9)
	assert.InDelta(t, km*0.621371*0.67, e.Cost, 1e-9)
	assert.InDelta(t, km*1000, float64(e.DistanceMeters), 1)

	back, err := h.Travel(context.Background(), b, a)
	require.NoError(t, err)
	assert.InDelta(t, e.Minutes, back.Minutes, 1e-9)

	same, err := h.Travel(context.Background(), a, a)
	require.NoError(t, err)
	assert.Zero(t, same.Minutes)
}

func TestHaversineRouter_TravelFrom(t *testing.T) {
	h := &HaversineRouter{SpeedKmh: 60}
	origin := domain.GeoCoordinate{Lat: 37.0, Lon: -122.0}
	dests := []domain.GeoCoordinate{{Lat: 37.1, Lon: -122.0}, {Lat: 37.2, Lon: -122.0}}

	out, err := h.TravelFrom(context.Background(), origin, dests)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Less(t, out[0].Minutes, out[1].Minutes)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.TravelFrom(ctx, origin, dests)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDrivingCost(t *testing.T) {
	assert.InDelta(t, 0.621371*0.67*10, DrivingCost(10000), 1e-9)
}
