package ports

import (
	"context"

	"grocery-route-service/internal/domain"
)

// Contract for fetching ingredient prices at one store.
//
// Ingredients missing from the returned map, or priced at +Inf, are
// unavailable. A partial map with a nil error is a valid answer.
type PriceSource interface {
	StorePrices(ctx context.Context, store domain.Store, ingredients []string) (map[string]float64, error)
}
