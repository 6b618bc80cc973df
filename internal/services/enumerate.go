package services

import "grocery-route-service/internal/domain"

// Route is an ordered stop sequence: home, one or two stores, home.
type Route []domain.Location

// Stores returns the store names of the route in visiting order.
func (r Route) Stores() []string {
	out := make([]string, 0, 2)
	for _, l := range r {
		if !l.IsHome() {
			out = append(out, l.Store)
		}
	}
	return out
}

// EnumerateRoutes generates every candidate route of one or two stores.
//
// All single-store routes come first in input order, followed by every
// ordered pair of distinct stores (permutations, so A->B and B->A are both
// present). For n stores this yields n + n(n-1) = n² routes. Routes longer
// than two stores are not generated.
func EnumerateRoutes(stores []domain.Store) []Route {
	n := len(stores)
	routes := make([]Route, 0, n*n)

	for _, s := range stores {
		routes = append(routes, Route{
			domain.Home(),
			domain.StoreLocation(s.Name),
			domain.Home(),
		})
	}

	for i := range stores {
		for j := range stores {
			if i == j {
				continue
			}
			routes = append(routes, Route{
				domain.Home(),
				domain.StoreLocation(stores[i].Name),
				domain.StoreLocation(stores[j].Name),
				domain.Home(),
			})
		}
	}

	return routes
}
