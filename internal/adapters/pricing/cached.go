package pricing

import (
	"context"
	"fmt"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/platform/obs"
	"grocery-route-service/internal/ports"
)

// PriceCache persists per-store ingredient prices. +Inf entries record
// confirmed unavailability.
type PriceCache interface {
	GetMany(ctx context.Context, store string, ingredients []string) (map[string]float64, error)
	PutMany(ctx context.Context, store string, prices map[string]float64) error
}

// CachedSource checks the cache before calling the wrapped source and
// stores every answer it receives. Ingredients the source left out are not
// cached, so a partial answer is retried on the next call.
type CachedSource struct {
	inner ports.PriceSource
	cache PriceCache
}

func NewCachedSource(inner ports.PriceSource, cache PriceCache) *CachedSource {
	return &CachedSource{inner: inner, cache: cache}
}

func (c *CachedSource) StorePrices(ctx context.Context, store domain.Store, ingredients []string) (map[string]float64, error) {
	logger := obs.Component("pricing")

	hits, err := c.cache.GetMany(ctx, store.Name, ingredients)
	if err != nil {
		logger.Warn().Err(err).Str("store", store.Name).Msg("price cache read failed")
		hits = map[string]float64{}
	}

	var misses []string
	for _, ing := range ingredients {
		if _, ok := hits[ing]; !ok {
			misses = append(misses, ing)
		}
	}
	if len(misses) == 0 {
		return hits, nil
	}

	fresh, err := c.inner.StorePrices(ctx, store, misses)
	if err != nil {
		if len(hits) > 0 {
			logger.Warn().Err(err).Str("store", store.Name).Msg("serving cached prices only")
			return hits, nil
		}
		return nil, fmt.Errorf("cached prices %q: %w", store.Name, err)
	}

	put := make(map[string]float64, len(fresh))
	for _, ing := range misses {
		if p, ok := fresh[ing]; ok {
			put[ing] = p
			hits[ing] = p
		}
	}
	if err := c.cache.PutMany(ctx, store.Name, put); err != nil {
		logger.Warn().Err(err).Str("store", store.Name).Msg("price cache write failed")
	}

	return hits, nil
}
