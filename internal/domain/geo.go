package domain

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// Immutable geographic coordinates (latitude, longitude) in degrees.
type GeoCoordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c GeoCoordinate) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// String renders the "lat,lon" form accepted by most routing APIs.
func (c GeoCoordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// Valid reports whether both components are finite and in range.
func (c GeoCoordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// DistanceKm returns the great-circle (haversine) distance to other in kilometers.
//
// It is only a reference/fallback when real travel data is unavailable.
func (c GeoCoordinate) DistanceKm(other GeoCoordinate) float64 {
	lat1 := toRadians(c.Lat)
	lat2 := toRadians(other.Lat)
	dLat := lat2 - lat1
	dLon := toRadians(other.Lon - c.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Asin(math.Min(1, math.Sqrt(a)))
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

// Bounds is a latitude/longitude bounding box used to restrict a service area.
type Bounds struct {
	North float64 `json:"north" yaml:"north"`
	South float64 `json:"south" yaml:"south"`
	West  float64 `json:"west" yaml:"west"`
	East  float64 `json:"east" yaml:"east"`
}

// WestBayBounds covers the San Francisco to San Jose corridor.
var WestBayBounds = Bounds{North: 37.81, South: 37.33, West: -122.52, East: -121.80}

// IsZero reports whether no bounds were configured.
func (b Bounds) IsZero() bool { return b == Bounds{} }

func (b Bounds) Contains(c GeoCoordinate) bool {
	return c.Lat >= b.South && c.Lat <= b.North && c.Lon >= b.West && c.Lon <= b.East
}
