package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/platform/obs"
	"grocery-route-service/internal/ports"
)

// DefaultMaxStores caps how many stores are considered per plan.
const DefaultMaxStores = 5

type PlanShoppingRequest struct {
	Shopping domain.ShoppingRequest

	// StoreNames restricts planning to these stores when non-empty.
	StoreNames []string
	// ServiceArea drops stores outside the box and rejects a home outside it.
	ServiceArea domain.Bounds
	// MaxStores keeps only the nearest stores to home. Zero means DefaultMaxStores.
	MaxStores int

	MissingItemPenalty *float64
	Graph              GraphOptions
}

type PlanResult struct {
	Result *domain.SolverResult
	Graph  *ShoppingGraph
}

// PlanShopping loads candidate stores, populates the shopping graph and
// solves it.
func PlanShopping(
	ctx context.Context,
	req PlanShoppingRequest,
	repo ports.StoreRepository,
	prices ports.PriceSource,
	routing ports.RoutingSource,
) (res *PlanResult, err error) {
	defer obs.Time(ctx, "plan_shopping")(&err)

	if err := req.Shopping.Validate(); err != nil {
		return nil, fmt.Errorf("plan shopping: %w", err)
	}
	if !req.ServiceArea.IsZero() && !req.ServiceArea.Contains(req.Shopping.Home) {
		return nil, fmt.Errorf("plan shopping: home %v: %w", req.Shopping.Home, domain.ErrOutsideServiceArea)
	}

	all, err := repo.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan shopping: list stores: %w", err)
	}

	stores, err := selectStores(all, req)
	if err != nil {
		return nil, fmt.Errorf("plan shopping: %w", err)
	}
	if len(stores) == 0 {
		return nil, fmt.Errorf("plan shopping: %w", domain.ErrNoStores)
	}

	graph, err := BuildShoppingGraph(ctx, req.Shopping, stores, prices, routing, req.Graph)
	if err != nil {
		return nil, fmt.Errorf("plan shopping: %w", err)
	}

	var opts []Option
	if req.MissingItemPenalty != nil {
		opts = append(opts, WithMissingItemPenalty(*req.MissingItemPenalty))
	}

	result, err := Solve(req.Shopping, graph.Stores, graph.Prices, graph.Edges, opts...)
	if err != nil {
		return &PlanResult{Graph: graph}, fmt.Errorf("plan shopping: %w", err)
	}

	return &PlanResult{Result: result, Graph: graph}, nil
}

// selectStores applies the name filter, the service area and the nearest-N cap.
// The surviving stores are ordered by distance from home, ties by name.
func selectStores(all []domain.Store, req PlanShoppingRequest) ([]domain.Store, error) {
	var wanted map[string]bool
	if len(req.StoreNames) > 0 {
		wanted = make(map[string]bool, len(req.StoreNames))
		for _, n := range req.StoreNames {
			wanted[strings.TrimSpace(n)] = true
		}
	}

	out := make([]domain.Store, 0, len(all))
	for _, s := range all {
		if wanted != nil && !wanted[s.Name] {
			continue
		}
		if !req.ServiceArea.IsZero() && !req.ServiceArea.Contains(s.Location) {
			continue
		}
		out = append(out, s)
	}

	for _, n := range req.StoreNames {
		n = strings.TrimSpace(n)
		if !slices.ContainsFunc(all, func(s domain.Store) bool { return s.Name == n }) {
			return nil, fmt.Errorf("select stores: %w: %q", domain.ErrUnknownStore, n)
		}
	}

	home := req.Shopping.Home
	slices.SortStableFunc(out, func(a, b domain.Store) int {
		da, db := home.DistanceKm(a.Location), home.DistanceKm(b.Location)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		default:
			return strings.Compare(a.Name, b.Name)
		}
	})

	limit := req.MaxStores
	if limit <= 0 {
		limit = DefaultMaxStores
	}
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
