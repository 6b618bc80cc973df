package ports

import (
	"context"

	"grocery-route-service/internal/domain"
)

// Travel time and cost between two locations.
type TravelEstimate struct {
	Minutes        float64
	Cost           float64
	DistanceMeters int
}

// Contract for retrieving travel estimates between coordinates.
type RoutingSource interface {
	// Return travel time and cost from origin to destination.
	Travel(ctx context.Context, origin, destination domain.GeoCoordinate) (TravelEstimate, error)
}

// Optional extension of RoutingSource that supports batched lookups.
type RoutingMatrixSource interface {
	RoutingSource
	// Return estimates from one origin to many destinations, in destination order.
	TravelFrom(ctx context.Context, origin domain.GeoCoordinate, destinations []domain.GeoCoordinate) ([]TravelEstimate, error)
}
