package domain

import "math"

// RouteSegment is a directed edge of the shopping graph.
// A round trip needs both A->B and B->A, even when travel is symmetric.
type RouteSegment struct {
	Origin        Location
	Destination   Location
	TravelMinutes float64
	TravelCost    float64
}

// UnusableSegment returns an edge that can never be part of a viable route.
func UnusableSegment(origin, destination Location) RouteSegment {
	return RouteSegment{
		Origin:        origin,
		Destination:   destination,
		TravelMinutes: math.Inf(1),
		TravelCost:    math.Inf(1),
	}
}

// Usable reports whether both travel figures are finite.
func (s RouteSegment) Usable() bool {
	return !math.IsInf(s.TravelMinutes, 0) && !math.IsInf(s.TravelCost, 0) &&
		!math.IsNaN(s.TravelMinutes) && !math.IsNaN(s.TravelCost)
}

type edgeKey struct {
	from Location
	to   Location
}

// EdgeSet indexes segments by (origin, destination). If several segments share
// a key the first one wins, matching a linear scan over the input slice.
type EdgeSet struct {
	edges map[edgeKey]RouteSegment
}

func NewEdgeSet(segments []RouteSegment) *EdgeSet {
	m := make(map[edgeKey]RouteSegment, len(segments))
	for _, s := range segments {
		k := edgeKey{from: s.Origin, to: s.Destination}
		if _, ok := m[k]; ok {
			continue
		}
		m[k] = s
	}
	return &EdgeSet{edges: m}
}

// Lookup returns the segment from origin to destination, if any.
func (e *EdgeSet) Lookup(origin, destination Location) (RouteSegment, bool) {
	if e == nil {
		return RouteSegment{}, false
	}
	s, ok := e.edges[edgeKey{from: origin, to: destination}]
	return s, ok
}

func (e *EdgeSet) Len() int {
	if e == nil {
		return 0
	}
	return len(e.edges)
}
