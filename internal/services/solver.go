package services

import (
	"fmt"
	"math"

	"grocery-route-service/internal/domain"
)

// Option customizes a single Solve call.
type Option func(*Policy)

// WithMissingItemPenalty overrides the per-item penalty for unavailable ingredients.
func WithMissingItemPenalty(p float64) Option {
	return func(pol *Policy) { pol.MissingItemPenalty = p }
}

// Solve finds the route and per-item store assignment minimizing
// time-value cost plus basket subtotal.
//
// It is a pure function of its inputs: it never mutates stores, prices or
// edges and keeps no state between calls, so concurrent calls are safe.
func Solve(
	req domain.ShoppingRequest,
	stores []domain.Store,
	prices *domain.PriceMatrix,
	edges []domain.RouteSegment,
	opts ...Option,
) (*domain.SolverResult, error) {
	policy := DefaultPolicy()
	for _, opt := range opts {
		opt(&policy)
	}

	if err := validateSolveInput(req, stores, prices, policy); err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	edgeSet := domain.NewEdgeSet(edges)
	routes := EnumerateRoutes(stores)

	candidates := make([]domain.RouteCandidate, 0, len(routes))
	for _, r := range routes {
		candidates = append(candidates, EvaluateRoute(r, edgeSet, prices, req, policy))
	}

	res, err := SelectRoute(candidates)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	return res, nil
}

func validateSolveInput(
	req domain.ShoppingRequest,
	stores []domain.Store,
	prices *domain.PriceMatrix,
	policy Policy,
) error {
	if len(stores) == 0 {
		return domain.ErrNoStores
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := domain.ValidateStores(stores); err != nil {
		return err
	}
	if prices == nil {
		return fmt.Errorf("%w: price matrix is nil", domain.ErrInvalidRequest)
	}
	if p := policy.MissingItemPenalty; math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return fmt.Errorf("%w: missing item penalty must be finite and non-negative, got %v", domain.ErrInvalidRequest, p)
	}

	for _, ing := range req.Ingredients {
		if !prices.HasIngredient(ing) {
			return fmt.Errorf("%w: %q", domain.ErrUnknownIngredient, ing)
		}
	}
	for _, s := range stores {
		if !prices.HasStore(s.Name) {
			return fmt.Errorf("%w: %q", domain.ErrUnknownStore, s.Name)
		}
	}

	return nil
}
