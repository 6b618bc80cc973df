package ports

import (
	"context"

	"grocery-route-service/internal/domain"
)

// Resolves a free-form address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.GeoCoordinate, error)
}
