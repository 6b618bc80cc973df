package routing

import (
	"context"
	"fmt"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/platform/obs"
	"grocery-route-service/internal/ports"
)

// TravelCache persists estimates keyed by origin and destination coordinate strings.
type TravelCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]ports.TravelEstimate, error)
	PutMany(ctx context.Context, origin string, results map[string]ports.TravelEstimate) error
}

// GeocodeCache persists resolved coordinates keyed by normalized address.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.GeoCoordinate, error)
	PutMany(ctx context.Context, coords map[string]domain.GeoCoordinate) error
}

// CachedRouter checks a persistent cache before calling the wrapped source.
// Cache write failures are logged and otherwise ignored.
type CachedRouter struct {
	inner ports.RoutingSource
	cache TravelCache
}

func NewCachedRouter(inner ports.RoutingSource, cache TravelCache) *CachedRouter {
	return &CachedRouter{inner: inner, cache: cache}
}

func (c *CachedRouter) Travel(ctx context.Context, origin, destination domain.GeoCoordinate) (ports.TravelEstimate, error) {
	out, err := c.TravelFrom(ctx, origin, []domain.GeoCoordinate{destination})
	if err != nil {
		return ports.TravelEstimate{}, err
	}
	return out[0], nil
}

func (c *CachedRouter) TravelFrom(
	ctx context.Context,
	origin domain.GeoCoordinate,
	destinations []domain.GeoCoordinate,
) ([]ports.TravelEstimate, error) {
	originKey := origin.String()

	keys := make([]string, 0, len(destinations))
	seen := make(map[string]struct{}, len(destinations))
	for _, d := range destinations {
		k := d.String()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	hits, err := c.cache.GetMany(ctx, originKey, keys)
	if err != nil {
		return nil, fmt.Errorf("travel cache get: %w", err)
	}

	var misses []domain.GeoCoordinate
	for _, d := range destinations {
		k := d.String()
		if _, ok := hits[k]; ok {
			continue
		}
		if _, ok := seen[k]; !ok {
			continue
		}
		delete(seen, k)
		misses = append(misses, d)
	}

	if len(misses) > 0 {
		fresh, err := c.fetch(ctx, origin, misses)
		if err != nil {
			return nil, err
		}

		put := make(map[string]ports.TravelEstimate, len(fresh))
		for i, d := range misses {
			put[d.String()] = fresh[i]
			hits[d.String()] = fresh[i]
		}
		if err := c.cache.PutMany(ctx, originKey, put); err != nil {
			l := obs.Component("routing")
			l.Warn().Err(err).Msg("travel cache write failed")
		}
	}

	out := make([]ports.TravelEstimate, len(destinations))
	for i, d := range destinations {
		out[i] = hits[d.String()]
	}
	return out, nil
}

func (c *CachedRouter) fetch(ctx context.Context, origin domain.GeoCoordinate, dests []domain.GeoCoordinate) ([]ports.TravelEstimate, error) {
	if mp, ok := c.inner.(ports.RoutingMatrixSource); ok {
		return mp.TravelFrom(ctx, origin, dests)
	}

	out := make([]ports.TravelEstimate, 0, len(dests))
	for _, d := range dests {
		e, err := c.inner.Travel(ctx, origin, d)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// CachedGeocoder checks a persistent cache before calling the wrapped geocoder.
type CachedGeocoder struct {
	inner ports.Geocoder
	cache GeocodeCache
}

func NewCachedGeocoder(inner ports.Geocoder, cache GeocodeCache) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, cache: cache}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (domain.GeoCoordinate, error) {
	key := NormalizeAddress(address)

	hits, err := c.cache.GetMany(ctx, []string{key})
	if err != nil {
		return domain.GeoCoordinate{}, fmt.Errorf("geocode cache get: %w", err)
	}
	if coord, ok := hits[key]; ok {
		return coord, nil
	}

	coord, err := c.inner.Geocode(ctx, key)
	if err != nil {
		return domain.GeoCoordinate{}, err
	}

	if err := c.cache.PutMany(ctx, map[string]domain.GeoCoordinate{key: coord}); err != nil {
		l := obs.Component("routing")
		l.Warn().Err(err).Msg("geocode cache write failed")
	}
	return coord, nil
}
