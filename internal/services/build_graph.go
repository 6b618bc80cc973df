package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/platform/obs"
	"grocery-route-service/internal/ports"
)

const (
	DefaultPriceTimeout     = 10 * time.Second
	DefaultEdgeTimeout      = 15 * time.Second
	DefaultGraphConcurrency = 5
)

// GraphOptions bounds the fan-out of BuildShoppingGraph. Zero values take defaults.
type GraphOptions struct {
	PriceTimeout time.Duration
	EdgeTimeout  time.Duration
	Concurrency  int
}

func (o GraphOptions) withDefaults() GraphOptions {
	if o.PriceTimeout <= 0 {
		o.PriceTimeout = DefaultPriceTimeout
	}
	if o.EdgeTimeout <= 0 {
		o.EdgeTimeout = DefaultEdgeTimeout
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultGraphConcurrency
	}
	return o
}

// UnitFailure records one population unit that degraded to +Inf.
type UnitFailure struct {
	Kind   string // "prices" or "travel"
	Target string // store name or origin stop name
	Err    error
}

func (f UnitFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Kind, f.Target, f.Err)
}

// ShoppingGraph is the fully populated solver input.
type ShoppingGraph struct {
	Stores   []domain.Store
	Prices   *domain.PriceMatrix
	Edges    []domain.RouteSegment
	Failures []UnitFailure
}

type stop struct {
	loc   domain.Location
	coord domain.GeoCoordinate
}

type edgeResult struct {
	segments []domain.RouteSegment
	failure  *UnitFailure
}

// BuildShoppingGraph fetches prices for every store and travel for every
// ordered pair of stops (home included), in parallel.
//
// Individual failures never abort the build: an unreachable price source
// leaves that store's column at +Inf and a failed routing call leaves the
// affected edges unusable. Only cancellation of ctx is returned as an error.
func BuildShoppingGraph(
	ctx context.Context,
	req domain.ShoppingRequest,
	stores []domain.Store,
	prices ports.PriceSource,
	routing ports.RoutingSource,
	opts GraphOptions,
) (g *ShoppingGraph, err error) {
	defer obs.Time(ctx, "build_shopping_graph")(&err)

	if err := domain.ValidateStores(stores); err != nil {
		return nil, fmt.Errorf("build shopping graph: %w", err)
	}
	opts = opts.withDefaults()
	logger := obs.Component("graph")

	out := make([]domain.Store, len(stores))
	for i, s := range stores {
		out[i] = s
		out[i].Inventory = nil
	}
	matrix := domain.NewPriceMatrix(req.Ingredients, domain.StoreNames(out))

	priceFailures := make([]*UnitFailure, len(out))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Concurrency)

	for i := range out {
		eg.Go(func() error {
			priceFailures[i] = populateStorePrices(egCtx, &out[i], req.Ingredients, matrix, prices, opts.PriceTimeout)
			return nil
		})
	}

	stops := make([]stop, 0, len(out)+1)
	stops = append(stops, stop{loc: domain.Home(), coord: req.Home})
	for _, s := range out {
		stops = append(stops, stop{loc: domain.StoreLocation(s.Name), coord: s.Location})
	}

	edgeResults := make([]edgeResult, len(stops))
	for i := range stops {
		eg.Go(func() error {
			edgeResults[i] = populateEdgesFrom(egCtx, i, stops, routing, opts.EdgeTimeout)
			return nil
		})
	}

	_ = eg.Wait()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("build shopping graph: %w", ctx.Err())
	}

	g = &ShoppingGraph{Stores: out, Prices: matrix}

	for i := range out {
		if err := matrix.ApplyInventory(&out[i]); err != nil {
			return nil, fmt.Errorf("build shopping graph: %w", err)
		}
		if f := priceFailures[i]; f != nil {
			g.Failures = append(g.Failures, *f)
		}
	}
	for _, r := range edgeResults {
		g.Edges = append(g.Edges, r.segments...)
		if r.failure != nil {
			g.Failures = append(g.Failures, *r.failure)
		}
	}

	for _, f := range g.Failures {
		logger.Warn().Str("kind", f.Kind).Str("target", f.Target).Err(f.Err).Msg("graph unit degraded")
	}
	logger.Debug().
		Int("stores", len(out)).
		Int("edges", len(g.Edges)).
		Int("failures", len(g.Failures)).
		Msg("shopping graph built")

	return g, nil
}

// populateStorePrices fills the matrix column owned by store.
func populateStorePrices(
	ctx context.Context,
	store *domain.Store,
	ingredients []string,
	matrix *domain.PriceMatrix,
	source ports.PriceSource,
	timeout time.Duration,
) *UnitFailure {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	got, err := source.StorePrices(ctx, *store, ingredients)
	if err != nil {
		return &UnitFailure{Kind: "prices", Target: store.Name, Err: err}
	}

	for ing, p := range got {
		if !matrix.HasIngredient(ing) {
			continue
		}
		if math.IsNaN(p) || p < 0 {
			log.Debug().Str("store", store.Name).Str("ingredient", ing).Float64("price", p).Msg("dropping invalid price")
			continue
		}
		if err := matrix.SetPrice(ing, store.Name, p); err != nil {
			return &UnitFailure{Kind: "prices", Target: store.Name, Err: err}
		}
	}
	return nil
}

// populateEdgesFrom produces every outgoing segment of stops[from].
func populateEdgesFrom(
	ctx context.Context,
	from int,
	stops []stop,
	routing ports.RoutingSource,
	timeout time.Duration,
) edgeResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	origin := stops[from]
	targets := make([]stop, 0, len(stops)-1)
	for j, s := range stops {
		if j != from {
			targets = append(targets, s)
		}
	}

	var res edgeResult
	fail := func(err error) {
		if res.failure == nil {
			res.failure = &UnitFailure{Kind: "travel", Target: origin.loc.Name(), Err: err}
		}
	}

	// Prefer a single origin->many lookup when supported to reduce external API calls.
	if mp, ok := routing.(ports.RoutingMatrixSource); ok {
		coords := make([]domain.GeoCoordinate, len(targets))
		for j, t := range targets {
			coords[j] = t.coord
		}

		est, err := mp.TravelFrom(ctx, origin.coord, coords)
		if err == nil && len(est) != len(targets) {
			err = fmt.Errorf("matrix returned %d estimates for %d destinations", len(est), len(targets))
		}
		if err != nil {
			fail(err)
			for _, t := range targets {
				res.segments = append(res.segments, domain.UnusableSegment(origin.loc, t.loc))
			}
			return res
		}

		for j, t := range targets {
			res.segments = append(res.segments, segmentFrom(origin.loc, t.loc, est[j]))
		}
		return res
	}

	for _, t := range targets {
		est, err := routing.Travel(ctx, origin.coord, t.coord)
		if err != nil {
			fail(fmt.Errorf("to %s: %w", t.loc.Name(), err))
			res.segments = append(res.segments, domain.UnusableSegment(origin.loc, t.loc))
			continue
		}
		res.segments = append(res.segments, segmentFrom(origin.loc, t.loc, est))
	}
	return res
}

// segmentFrom turns an estimate into a segment; NaN or negative figures are unusable.
func segmentFrom(from, to domain.Location, est ports.TravelEstimate) domain.RouteSegment {
	if math.IsNaN(est.Minutes) || math.IsNaN(est.Cost) || est.Minutes < 0 || est.Cost < 0 {
		return domain.UnusableSegment(from, to)
	}
	return domain.RouteSegment{
		Origin:        from,
		Destination:   to,
		TravelMinutes: est.Minutes,
		TravelCost:    est.Cost,
	}
}
