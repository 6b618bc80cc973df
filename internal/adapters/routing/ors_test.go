package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-route-service/internal/domain"
)

func testORSOpts(url string) []ORSOption {
	return []ORSOption{WithORSBaseURL(url), WithORSRateLimit(1000, 10), WithORSBackoff(time.Millisecond)}
}

func TestORSRouter_TravelFrom(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// first call fails transiently
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "/v2/matrix/driving-car", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("Authorization"))

		var req matrixRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []int{0}, req.Sources)
		assert.Equal(t, []int{1, 2}, req.Destinations)
		assert.Equal(t, []float64{-122.4, 37.7}, req.Locations[0])

		_, _ = w.Write([]byte(`{"distances":[[1609.34,3218.68]],"durations":[[120,300]]}`))
	}))
	defer srv.Close()

	o, err := NewORSRouter("key", testORSOpts(srv.URL)...)
	require.NoError(t, err)

	out, err := o.TravelFrom(context.Background(),
		domain.GeoCoordinate{Lat: 37.7, Lon: -122.4},
		[]domain.GeoCoordinate{{Lat: 37.71, Lon: -122.4}, {Lat: 37.72, Lon: -122.4}},
	)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.EqualValues(t, 2, calls.Load())
	assert.InDelta(t, 2.0, out[0].Minutes, 1e-9)
	assert.InDelta(t, 5.0, out[1].Minutes, 1e-9)
	assert.InDelta(t, 0.67, out[0].Cost, 1e-3)
	assert.Equal(t, 3219, out[1].DistanceMeters)
}

func TestORSRouter_NullRouteAndClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"distances":[[null]],"durations":[[null]]}`))
	}))
	defer srv.Close()

	o, err := NewORSRouter("key", testORSOpts(srv.URL)...)
	require.NoError(t, err)

	_, err = o.Travel(context.Background(), domain.GeoCoordinate{}, domain.GeoCoordinate{Lat: 1})
	assert.ErrorContains(t, err, "no route")

	var calls atomic.Int32
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer bad.Close()

	o, err = NewORSRouter("key", testORSOpts(bad.URL)...)
	require.NoError(t, err)
	_, err = o.Travel(context.Background(), domain.GeoCoordinate{}, domain.GeoCoordinate{Lat: 1})

	var he *httpStatusError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.EqualValues(t, 1, calls.Load(), "4xx is not retried")
}

func TestORSGeocoder_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "1 Market St San Francisco", r.URL.Query().Get("text"))
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[-122.39,37.79]}}]}`))
	}))
	defer srv.Close()

	g, err := NewORSGeocoder("key", testORSOpts(srv.URL)...)
	require.NoError(t, err)

	c, err := g.Geocode(context.Background(), "  1 Market St   San Francisco ")
	require.NoError(t, err)
	assert.Equal(t, domain.GeoCoordinate{Lat: 37.79, Lon: -122.39}, c)

	_, err = g.Geocode(context.Background(), "   ")
	assert.Error(t, err)
}

func TestNewORSRouter_RequiresKey(t *testing.T) {
	_, err := NewORSRouter("")
	assert.Error(t, err)
}
