package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSGeocoder resolves free-form addresses with /geocode/search.
type ORSGeocoder struct {
	*orsClient
	country string
}

func NewORSGeocoder(apiKey string, opts ...ORSOption) (*ORSGeocoder, error) {
	c, err := newORSClient(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &ORSGeocoder{orsClient: c, country: "US"}, nil
}

// NormalizeAddress collapses whitespace for consistent cache keys.
func NormalizeAddress(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (o *ORSGeocoder) Geocode(ctx context.Context, address string) (_ domain.GeoCoordinate, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := NormalizeAddress(address)
	if norm == "" {
		return domain.GeoCoordinate{}, errors.New("address must be non-empty")
	}

	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("boundary.country", o.country)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.GeoCoordinate{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.GeoCoordinate{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.GeoCoordinate{}, fmt.Errorf("no geocode results for %q", norm)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.GeoCoordinate{}, fmt.Errorf("invalid coordinate format for %q", norm)
	}

	return domain.GeoCoordinate{Lon: coords[0], Lat: coords[1]}, nil
}
