package pricing

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestSerp(t *testing.T, h http.HandlerFunc) *SerpAPISource {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	s, err := NewSerpAPISource("key",
		WithSerpBaseURL(srv.URL),
		WithSerpRateLimit(rate.NewLimiter(rate.Inf, 1)),
		WithSerpBackoff(time.Millisecond),
	)
	require.NoError(t, err)
	return s
}

func TestSerpAPISource_CheapestAtStore(t *testing.T) {
	s := newTestSerp(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "google_shopping", q.Get("engine"))
		assert.Equal(t, DefaultSerpLocation, q.Get("location"))

		switch {
		case strings.HasPrefix(q.Get("q"), "milk"):
			_, _ = w.Write([]byte(`{"shopping_results":[
				{"source":"Safeway","price":"$4.29","extracted_price":4.29},
				{"source":"Safeway.com","price":"$3.79"},
				{"source":"Target","price":"$2.00","extracted_price":2.0}
			]}`))
		default:
			_, _ = w.Write([]byte(`{"shopping_results":[{"source":"Target","price":"$1.00"}]}`))
		}
	})

	got, err := s.StorePrices(context.Background(), safeway, []string{"milk", "eggs"})
	require.NoError(t, err)
	assert.InDelta(t, 3.79, got["milk"], 1e-9)
	assert.True(t, math.IsInf(got["eggs"], 1), "searched but not sold there")
}

func TestSerpAPISource_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	s := newTestSerp(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"shopping_results":[{"source":"Safeway","extracted_price":1.5}]}`))
	})

	got, err := s.StorePrices(context.Background(), safeway, []string{"milk"})
	require.NoError(t, err)
	assert.Equal(t, 1.5, got["milk"])
	assert.EqualValues(t, 3, calls.Load())
}

func TestSerpAPISource_RateLimitedReturnsPartial(t *testing.T) {
	s := newTestSerp(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Query().Get("q"), "ing6") {
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"shopping_results":[{"source":"Safeway","extracted_price":2}]}`))
	})

	ings := []string{"ing1", "ing2", "ing3", "ing4", "ing5", "ing6", "ing7", "ing8", "ing9", "ing10", "ing11"}
	got, err := s.StorePrices(context.Background(), safeway, ings)
	require.NoError(t, err)

	assert.Len(t, got, 9, "first batch plus the rest of the rate-limited batch")
	assert.NotContains(t, got, "ing6")
	assert.NotContains(t, got, "ing11", "no batch after the 429")
}

func TestSerpAPISource_AllFailed(t *testing.T) {
	s := newTestSerp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := s.StorePrices(context.Background(), safeway, []string{"milk"})
	assert.Error(t, err)

	limited := newTestSerp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err = limited.StorePrices(context.Background(), safeway, []string{"milk"})
	assert.ErrorIs(t, err, ErrRateLimited)
}
