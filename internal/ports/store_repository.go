package ports

import (
	"context"

	"grocery-route-service/internal/domain"
)

// Port: a boundary for retrieving candidate stores from a data source.
type StoreRepository interface {
	// Retrieve all stores available for shopping.
	ListStores(ctx context.Context) ([]domain.Store, error)
}
