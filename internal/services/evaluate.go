package services

import (
	"math"

	"grocery-route-service/internal/domain"
)

// DefaultMissingItemPenalty is charged for an ingredient no visited store carries.
// It keeps totals finite so routes missing more items still rank worse.
const DefaultMissingItemPenalty = 10.0

// Policy holds the tunable parameters of candidate evaluation.
type Policy struct {
	MissingItemPenalty float64
}

func DefaultPolicy() Policy {
	return Policy{MissingItemPenalty: DefaultMissingItemPenalty}
}

// EvaluateRoute scores one candidate route.
//
// The price matrix must contain every ingredient of req and every store of
// route; Solve validates this before evaluation, so cells outside the axes
// are treated as unavailable here. A missing edge never fails evaluation: the
// candidate's travel figures become +Inf and it sorts last.
func EvaluateRoute(
	route Route,
	edges *domain.EdgeSet,
	prices *domain.PriceMatrix,
	req domain.ShoppingRequest,
	policy Policy,
) domain.RouteCandidate {
	legs, minutes, cost := aggregateTravel(route, edges)
	timeValue := req.TimeValueCost(minutes)

	assignments, subtotal, missing := optimizeBasket(route.Stores(), req.Ingredients, prices, policy)

	stops := make([]domain.Location, len(route))
	copy(stops, route)

	return domain.RouteCandidate{
		Stops:          stops,
		Legs:           legs,
		TravelMinutes:  minutes,
		TravelCost:     cost,
		TimeValueCost:  timeValue,
		Assignments:    assignments,
		BasketSubtotal: subtotal,
		MissingItems:   missing,
		Total:          timeValue + subtotal,
	}
}

// aggregateTravel walks consecutive stop pairs. Once any leg is missing both
// totals are +Inf; remaining legs are still reported for transparency.
func aggregateTravel(route Route, edges *domain.EdgeSet) ([]domain.Leg, float64, float64) {
	legs := make([]domain.Leg, 0, len(route)-1)
	var minutes, cost float64
	broken := false

	for i := 0; i+1 < len(route); i++ {
		from, to := route[i], route[i+1]

		seg, ok := edges.Lookup(from, to)
		if !ok {
			broken = true
			legs = append(legs, domain.Leg{
				From:    from,
				To:      to,
				Minutes: math.Inf(1),
				Cost:    math.Inf(1),
			})
			continue
		}

		legs = append(legs, domain.Leg{
			From:    from,
			To:      to,
			Minutes: seg.TravelMinutes,
			Cost:    seg.TravelCost,
			Found:   true,
		})
		minutes += seg.TravelMinutes
		cost += seg.TravelCost
	}

	if broken {
		return legs, math.Inf(1), math.Inf(1)
	}
	return legs, minutes, cost
}

// optimizeBasket assigns each ingredient to its cheapest visited store.
//
// Ties keep the store met first in visiting order (strict less-than), so
// results are reproducible. Ingredients no visited store carries are bound
// to NOT_AVAILABLE at the penalty price.
func optimizeBasket(
	visited []string,
	ingredients []string,
	prices *domain.PriceMatrix,
	policy Policy,
) ([]domain.ItemAssignment, float64, int) {
	assignments := make([]domain.ItemAssignment, 0, len(ingredients))
	var subtotal float64
	missing := 0

	for _, ing := range ingredients {
		best := math.Inf(1)
		bestStore := ""

		for _, store := range visited {
			p, err := prices.Price(ing, store)
			if err != nil {
				continue
			}
			if p < best {
				best = p
				bestStore = store
			}
		}

		if bestStore == "" {
			assignments = append(assignments, domain.ItemAssignment{
				Ingredient: ing,
				StoreName:  domain.NotAvailableName,
				Price:      policy.MissingItemPenalty,
			})
			subtotal += policy.MissingItemPenalty
			missing++
			continue
		}

		assignments = append(assignments, domain.ItemAssignment{
			Ingredient: ing,
			StoreName:  bestStore,
			Price:      best,
		})
		subtotal += best
	}

	return assignments, subtotal, missing
}
