package dto

import (
	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/services"
)

type OptimizeRequest struct {
	Ingredients        []string              `json:"ingredients"`
	Home               *domain.GeoCoordinate `json:"home"`
	HomeAddress        string                `json:"home_address"`
	HourlyRate         *float64              `json:"hourly_rate"`
	StoreNames         []string              `json:"store_names"`
	MaxStores          int                   `json:"max_stores"`
	MissingItemPenalty *float64              `json:"missing_item_penalty"`
}

type LegResponse struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Minutes Minutes `json:"minutes"`
	Cost    Money   `json:"cost"`
}

type ItemResponse struct {
	Ingredient string `json:"ingredient"`
	Store      string `json:"store"`
	Price      Money  `json:"price"`
}

type CandidateResponse struct {
	Route          []string       `json:"route"`
	Stores         []string       `json:"stores"`
	Legs           []LegResponse  `json:"legs"`
	TravelMinutes  Minutes        `json:"travel_minutes"`
	TravelCost     Money          `json:"travel_cost"`
	TimeValueCost  Money          `json:"time_value_cost"`
	Items          []ItemResponse `json:"items"`
	BasketSubtotal Money          `json:"basket_subtotal"`
	MissingItems   int            `json:"missing_items"`
	Coverage       float64        `json:"coverage"`
	Total          Money          `json:"total"`
}

type CandidateSummary struct {
	Route        []string `json:"route"`
	Total        Money    `json:"total"`
	MissingItems int      `json:"missing_items"`
	Coverage     float64  `json:"coverage"`
}

// StoreCoverageResponse tells how much of the basket one store could price.
type StoreCoverageResponse struct {
	Store    string   `json:"store"`
	Coverage float64  `json:"coverage"`
	Missing  []string `json:"missing"`
}

type FailureResponse struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
	Error  string `json:"error"`
}

type OptimizeResponse struct {
	Winner              CandidateResponse       `json:"winner"`
	TotalRoutesAnalyzed int                     `json:"total_routes_analyzed"`
	SavingsVsSecondBest Money                   `json:"savings_vs_second_best"`
	Candidates          []CandidateSummary      `json:"candidates"`
	StoreCoverage       []StoreCoverageResponse `json:"store_coverage,omitempty"`
	Failures            []FailureResponse       `json:"failures,omitempty"`
}

// NoViableRouteResponse explains a plan with no finite-cost route.
type NoViableRouteResponse struct {
	Error               string             `json:"error"`
	TotalRoutesAnalyzed int                `json:"total_routes_analyzed"`
	Candidates          []CandidateSummary `json:"candidates"`
	Failures            []FailureResponse  `json:"failures,omitempty"`
}

func NewCandidateResponse(c domain.RouteCandidate) CandidateResponse {
	legs := make([]LegResponse, 0, len(c.Legs))
	for _, l := range c.Legs {
		legs = append(legs, LegResponse{
			From:    l.From.Name(),
			To:      l.To.Name(),
			Minutes: Minutes(l.Minutes),
			Cost:    Money(l.Cost),
		})
	}

	items := make([]ItemResponse, 0, len(c.Assignments))
	for _, a := range c.Assignments {
		items = append(items, ItemResponse{
			Ingredient: a.Ingredient,
			Store:      a.StoreName,
			Price:      Money(a.Price),
		})
	}

	return CandidateResponse{
		Route:          c.StopNames(),
		Stores:         c.StoresVisited(),
		Legs:           legs,
		TravelMinutes:  Minutes(c.TravelMinutes),
		TravelCost:     Money(c.TravelCost),
		TimeValueCost:  Money(c.TimeValueCost),
		Items:          items,
		BasketSubtotal: Money(c.BasketSubtotal),
		MissingItems:   c.MissingItems,
		Coverage:       c.Coverage(),
		Total:          Money(c.Total),
	}
}

func NewCandidateSummaries(cs []domain.RouteCandidate) []CandidateSummary {
	out := make([]CandidateSummary, 0, len(cs))
	for _, c := range cs {
		out = append(out, CandidateSummary{
			Route:        c.StopNames(),
			Total:        Money(c.Total),
			MissingItems: c.MissingItems,
			Coverage:     c.Coverage(),
		})
	}
	return out
}

func NewFailures(fs []services.UnitFailure) []FailureResponse {
	if len(fs) == 0 {
		return nil
	}
	out := make([]FailureResponse, 0, len(fs))
	for _, f := range fs {
		out = append(out, FailureResponse{Kind: f.Kind, Target: f.Target, Error: f.Err.Error()})
	}
	return out
}

// NewOptimizeResponse renders a solver result. graph may be nil when the
// caller supplied the solver inputs directly.
func NewOptimizeResponse(res *domain.SolverResult, graph *services.ShoppingGraph) OptimizeResponse {
	out := OptimizeResponse{
		Winner:              NewCandidateResponse(res.Winner),
		TotalRoutesAnalyzed: len(res.Candidates),
		SavingsVsSecondBest: Money(res.Margin),
		Candidates:          NewCandidateSummaries(res.Candidates),
	}
	if graph != nil {
		out.StoreCoverage = NewStoreCoverage(graph)
		out.Failures = NewFailures(graph.Failures)
	}
	return out
}

// NewStoreCoverage reports, per populated store, the share of the basket it
// prices and the ingredients it lacks.
func NewStoreCoverage(graph *services.ShoppingGraph) []StoreCoverageResponse {
	if graph == nil || graph.Prices == nil {
		return nil
	}

	out := make([]StoreCoverageResponse, 0, len(graph.Stores))
	for _, s := range graph.Stores {
		cov, err := graph.Prices.Coverage(s.Name)
		if err != nil {
			continue
		}
		missing := []string{}
		for _, ing := range graph.Prices.Ingredients() {
			if !s.HasItem(ing) {
				missing = append(missing, ing)
			}
		}
		out = append(out, StoreCoverageResponse{Store: s.Name, Coverage: cov, Missing: missing})
	}
	return out
}
