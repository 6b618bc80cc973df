package pricing

import (
	"context"
	"errors"
	"math"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/ports"
)

// ChainSource asks each source in turn for the ingredients earlier sources
// did not price. It fails only when every source fails.
type ChainSource []ports.PriceSource

func (c ChainSource) StorePrices(ctx context.Context, store domain.Store, ingredients []string) (map[string]float64, error) {
	out := make(map[string]float64, len(ingredients))
	remaining := ingredients
	var errs []error

	for _, src := range c {
		if len(remaining) == 0 {
			break
		}

		got, err := src.StorePrices(ctx, store, remaining)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			errs = append(errs, err)
			continue
		}

		next := remaining[:0:0]
		for _, ing := range remaining {
			if p, ok := got[ing]; ok && !math.IsInf(p, 1) {
				out[ing] = p
				continue
			}
			next = append(next, ing)
		}
		remaining = next
	}

	if len(errs) == len(c) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
