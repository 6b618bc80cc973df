package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-route-service/internal/domain"
)

func TestEnumerateRoutes_Counts(t *testing.T) {
	for n := 0; n <= 5; n++ {
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('A' + i))
		}
		routes := EnumerateRoutes(mkStores(names...))
		assert.Len(t, routes, n*n, "n=%d", n)
	}
}

func TestEnumerateRoutes_Order(t *testing.T) {
	routes := EnumerateRoutes(mkStores("A", "B", "C"))
	require.Len(t, routes, 9)

	var got [][]string
	for _, r := range routes {
		names := make([]string, 0, len(r))
		for _, l := range r {
			names = append(names, l.Name())
		}
		got = append(got, names)
	}

	want := [][]string{
		{"HOME", "A", "HOME"},
		{"HOME", "B", "HOME"},
		{"HOME", "C", "HOME"},
		{"HOME", "A", "B", "HOME"},
		{"HOME", "A", "C", "HOME"},
		{"HOME", "B", "A", "HOME"},
		{"HOME", "B", "C", "HOME"},
		{"HOME", "C", "A", "HOME"},
		{"HOME", "C", "B", "HOME"},
	}
	assert.Equal(t, want, got)

	for _, r := range routes {
		assert.True(t, r[0].IsHome())
		assert.True(t, r[len(r)-1].IsHome())
		assert.Equal(t, domain.LocationStore, r[1].Kind)
	}
}
