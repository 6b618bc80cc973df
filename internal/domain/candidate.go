package domain

import "math"

// ItemAssignment binds one ingredient to the store it is bought at.
// StoreName is NotAvailableName when no visited store carries it, in which
// case Price is the missing-item penalty.
type ItemAssignment struct {
	Ingredient string
	StoreName  string
	Price      float64
}

func (a ItemAssignment) Available() bool { return a.StoreName != NotAvailableName }

// Leg is one traversed edge of a candidate route.
type Leg struct {
	From    Location
	To      Location
	Minutes float64
	Cost    float64
	Found   bool
}

// RouteCandidate is one enumerated stop sequence and its full cost breakdown.
// Values are computed once by the evaluator and not changed afterwards.
type RouteCandidate struct {
	Stops          []Location // home, 1-2 stores, home
	Legs           []Leg
	TravelMinutes  float64
	TravelCost     float64
	TimeValueCost  float64
	Assignments    []ItemAssignment
	BasketSubtotal float64
	MissingItems   int
	Total          float64 // TimeValueCost + BasketSubtotal
}

// StoresVisited returns the store names of the route, home excluded.
func (c RouteCandidate) StoresVisited() []string {
	out := make([]string, 0, len(c.Stops))
	for _, s := range c.Stops {
		if !s.IsHome() {
			out = append(out, s.Store)
		}
	}
	return out
}

// StopNames returns display names for every stop, e.g. [HOME A B HOME].
func (c RouteCandidate) StopNames() []string {
	out := make([]string, 0, len(c.Stops))
	for _, s := range c.Stops {
		out = append(out, s.Name())
	}
	return out
}

// Viable reports whether the candidate has a finite total.
func (c RouteCandidate) Viable() bool {
	return !math.IsInf(c.Total, 0) && !math.IsNaN(c.Total)
}

// Coverage is the fraction of basket items bought at a visited store.
func (c RouteCandidate) Coverage() float64 {
	if len(c.Assignments) == 0 {
		return 0
	}
	return float64(len(c.Assignments)-c.MissingItems) / float64(len(c.Assignments))
}

// SolverResult is the ranked outcome of one optimization.
type SolverResult struct {
	Winner     RouteCandidate
	Candidates []RouteCandidate // ascending by Total
	Margin     float64          // runner-up Total minus winner Total, 0 with one candidate
}
