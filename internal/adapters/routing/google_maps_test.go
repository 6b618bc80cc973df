package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	maps "googlemaps.github.io/maps"

	"grocery-route-service/internal/domain"
)

func TestGoogleMapsRouter_PrefersTraffic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/distancematrix/json", r.URL.Path)
		assert.Equal(t, "driving", r.URL.Query().Get("mode"))
		assert.Equal(t, "now", r.URL.Query().Get("departure_time"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [
				{"status": "OK", "duration": {"value": 600}, "duration_in_traffic": {"value": 900}, "distance": {"value": 8000}},
				{"status": "OK", "duration": {"value": 300}, "distance": {"value": 4000}}
			]}]
		}`))
	}))
	defer srv.Close()

	g, err := NewGoogleMapsRouter("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	out, err := g.TravelFrom(context.Background(),
		domain.GeoCoordinate{Lat: 37.7, Lon: -122.4},
		[]domain.GeoCoordinate{{Lat: 37.8, Lon: -122.4}, {Lat: 37.75, Lon: -122.4}},
	)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.InDelta(t, 15.0, out[0].Minutes, 1e-9)
	assert.InDelta(t, 5.0, out[1].Minutes, 1e-9)
	assert.Equal(t, 8000, out[0].DistanceMeters)
	assert.InDelta(t, DrivingCost(4000), out[1].Cost, 1e-9)
}

func TestGoogleMapsRouter_ElementNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","rows":[{"elements":[{"status":"ZERO_RESULTS"}]}]}`))
	}))
	defer srv.Close()

	g, err := NewGoogleMapsRouter("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = g.Travel(context.Background(), domain.GeoCoordinate{}, domain.GeoCoordinate{Lat: 1})
	assert.ErrorContains(t, err, "ZERO_RESULTS")
}
