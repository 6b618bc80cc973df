package services

import (
	"fmt"
	"slices"

	"grocery-route-service/internal/domain"
)

// NoViableRouteError reports that every candidate has infinite cost. The
// ranked candidates are kept so callers can still explain the failure.
type NoViableRouteError struct {
	Candidates []domain.RouteCandidate
}

func (e *NoViableRouteError) Error() string {
	return fmt.Sprintf("select route: %d candidates evaluated, none with finite cost", len(e.Candidates))
}

func (e *NoViableRouteError) Is(target error) bool { return target == domain.ErrNoViableRoute }

// SelectRoute ranks candidates by total cost and picks the cheapest.
//
// The sort is stable: exactly tied totals keep enumeration order, so the
// first-generated candidate wins.
func SelectRoute(candidates []domain.RouteCandidate) (*domain.SolverResult, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("select route: %w", domain.ErrNoStores)
	}

	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b domain.RouteCandidate) int {
		switch {
		case a.Total < b.Total:
			return -1
		case a.Total > b.Total:
			return 1
		default:
			return 0
		}
	})

	winner := ranked[0]
	if !winner.Viable() {
		return nil, &NoViableRouteError{Candidates: ranked}
	}

	margin := 0.0
	if len(ranked) > 1 {
		margin = ranked[1].Total - winner.Total
	}

	return &domain.SolverResult{
		Winner:     winner,
		Candidates: ranked,
		Margin:     margin,
	}, nil
}
