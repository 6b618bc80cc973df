package routing

import (
	"context"
	"fmt"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/ports"
)

type MockPair struct {
	From, To domain.GeoCoordinate
	Meters   int
	Seconds  int
}

// MockRouter serves fixed estimates for known coordinate pairs.
type MockRouter struct {
	m map[string]ports.TravelEstimate
}

func NewMockRouter(pairs []MockPair) *MockRouter {
	m := make(map[string]ports.TravelEstimate, len(pairs))
	for _, p := range pairs {
		m[p.From.String()+"|"+p.To.String()] = estimate(float64(p.Meters), float64(p.Seconds))
	}
	return &MockRouter{m: m}
}

func (p *MockRouter) Travel(ctx context.Context, origin, destination domain.GeoCoordinate) (ports.TravelEstimate, error) {
	r, ok := p.m[origin.String()+"|"+destination.String()]
	if !ok {
		return ports.TravelEstimate{}, fmt.Errorf("missing pair %s -> %s", origin, destination)
	}

	return r, nil
}
