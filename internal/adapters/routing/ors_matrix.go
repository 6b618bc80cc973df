package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/platform/obs"
	"grocery-route-service/internal/ports"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// ORSRouter implements RoutingMatrixSource using the OpenRouteService
// matrix endpoint.
type ORSRouter struct {
	*orsClient
	profile string
}

func NewORSRouter(apiKey string, opts ...ORSOption) (*ORSRouter, error) {
	c, err := newORSClient(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &ORSRouter{orsClient: c, profile: "driving-car"}, nil
}

// Delegate to the batched path.
func (o *ORSRouter) Travel(ctx context.Context, origin, destination domain.GeoCoordinate) (ports.TravelEstimate, error) {
	out, err := o.TravelFrom(ctx, origin, []domain.GeoCoordinate{destination})
	if err != nil {
		return ports.TravelEstimate{}, fmt.Errorf("ors travel %s -> %s: %w", origin, destination, err)
	}
	return out[0], nil
}

// TravelFrom retrieves one origin->many matrix row.
func (o *ORSRouter) TravelFrom(
	ctx context.Context,
	origin domain.GeoCoordinate,
	destinations []domain.GeoCoordinate,
) (_ []ports.TravelEstimate, err error) {
	defer obs.Time(ctx, "ors.TravelFrom")(&err)

	if len(destinations) == 0 {
		return []ports.TravelEstimate{}, nil
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, 1+len(destinations))
	locations = append(locations, origin.CoordsToList())
	for _, c := range destinations {
		locations = append(locations, c.CoordsToList())
	}

	destIdx := make([]int, 0, len(destinations))
	for i := 1; i < len(locations); i++ {
		destIdx = append(destIdx, i)
	}

	payload, err := json.Marshal(matrixRequest{
		Locations:    locations,
		Destinations: destIdx,
		Metrics:      []string{"distance", "duration"},
		Sources:      []int{0},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != 1 || len(mr.Durations) != 1 {
		return nil, fmt.Errorf(
			"expected 1 source row; got distances=%d durations=%d",
			len(mr.Distances), len(mr.Durations),
		)
	}

	rowDistances := mr.Distances[0]
	rowDurations := mr.Durations[0]

	if len(rowDistances) != len(destinations) || len(rowDurations) != len(destinations) {
		return nil, fmt.Errorf(
			"row lengths do not match destinations: distances=%d durations=%d destinations=%d",
			len(rowDistances), len(rowDurations), len(destinations),
		)
	}

	out := make([]ports.TravelEstimate, len(destinations))
	for i, dest := range destinations {
		if rowDistances[i] == nil || rowDurations[i] == nil {
			return nil, fmt.Errorf("matrix returned no route to %s", dest)
		}
		out[i] = estimate(*rowDistances[i], *rowDurations[i])
	}

	return out, nil
}
