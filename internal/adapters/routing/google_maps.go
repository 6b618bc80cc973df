package routing

import (
	"context"
	"errors"
	"fmt"

	maps "googlemaps.github.io/maps"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/platform/obs"
	"grocery-route-service/internal/ports"
)

// Distance Matrix accepts at most 25 destinations per request.
const googleMaxDestinations = 25

// GoogleMapsRouter implements RoutingMatrixSource on the Google Distance
// Matrix API. Durations use live traffic when Google returns them.
type GoogleMapsRouter struct {
	client *maps.Client
}

func NewGoogleMapsRouter(apiKey string, opts ...maps.ClientOption) (*GoogleMapsRouter, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("maps.NewClient: %w", err)
	}
	return &GoogleMapsRouter{client: client}, nil
}

func (g *GoogleMapsRouter) Travel(ctx context.Context, origin, destination domain.GeoCoordinate) (ports.TravelEstimate, error) {
	out, err := g.TravelFrom(ctx, origin, []domain.GeoCoordinate{destination})
	if err != nil {
		return ports.TravelEstimate{}, err
	}
	return out[0], nil
}

func (g *GoogleMapsRouter) TravelFrom(
	ctx context.Context,
	origin domain.GeoCoordinate,
	destinations []domain.GeoCoordinate,
) (_ []ports.TravelEstimate, err error) {
	defer obs.Time(ctx, "google.TravelFrom")(&err)

	out := make([]ports.TravelEstimate, 0, len(destinations))
	for start := 0; start < len(destinations); start += googleMaxDestinations {
		end := min(start+googleMaxDestinations, len(destinations))

		batch, err := g.fetchRow(ctx, origin, destinations[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (g *GoogleMapsRouter) fetchRow(ctx context.Context, origin domain.GeoCoordinate, destinations []domain.GeoCoordinate) ([]ports.TravelEstimate, error) {
	dests := make([]string, len(destinations))
	for i, d := range destinations {
		dests[i] = d.String()
	}

	resp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:       []string{origin.String()},
		Destinations:  dests,
		Mode:          maps.TravelModeDriving,
		DepartureTime: "now",
		TrafficModel:  maps.TrafficModelBestGuess,
	})
	if err != nil {
		return nil, fmt.Errorf("distance matrix: %w", err)
	}

	if len(resp.Rows) != 1 || len(resp.Rows[0].Elements) != len(destinations) {
		return nil, fmt.Errorf("distance matrix: unexpected shape for %d destinations", len(destinations))
	}

	out := make([]ports.TravelEstimate, len(destinations))
	for i, el := range resp.Rows[0].Elements {
		if el == nil || el.Status != "OK" {
			status := "missing"
			if el != nil {
				status = el.Status
			}
			return nil, fmt.Errorf("distance matrix: element %s -> %s: status %s", origin, destinations[i], status)
		}

		dur := el.Duration
		if el.DurationInTraffic > 0 {
			dur = el.DurationInTraffic
		}
		out[i] = estimate(float64(el.Distance.Meters), dur.Seconds())
	}
	return out, nil
}
