package routing

import (
	"context"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/ports"
)

// DefaultSpeedKmh is the assumed average urban driving speed.
const DefaultSpeedKmh = 40.0

// HaversineRouter estimates travel from great-circle distance at a fixed
// speed. It never calls out and never fails, so it also serves as the
// fallback when no routing API is configured.
type HaversineRouter struct {
	SpeedKmh float64
}

func NewHaversineRouter() *HaversineRouter {
	return &HaversineRouter{SpeedKmh: DefaultSpeedKmh}
}

func (h *HaversineRouter) Travel(ctx context.Context, origin, destination domain.GeoCoordinate) (ports.TravelEstimate, error) {
	if err := ctx.Err(); err != nil {
		return ports.TravelEstimate{}, err
	}

	speed := h.SpeedKmh
	if speed <= 0 {
		speed = DefaultSpeedKmh
	}

	km := origin.DistanceKm(destination)
	return estimate(km*1000, km/speed*3600), nil
}

func (h *HaversineRouter) TravelFrom(ctx context.Context, origin domain.GeoCoordinate, destinations []domain.GeoCoordinate) ([]ports.TravelEstimate, error) {
	out := make([]ports.TravelEstimate, 0, len(destinations))
	for _, d := range destinations {
		e, err := h.Travel(ctx, origin, d)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
