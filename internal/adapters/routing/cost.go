package routing

import (
	"math"

	"grocery-route-service/internal/ports"
)

const (
	milesPerKm = 0.621371
	// CostPerMile is the IRS standard mileage rate.
	CostPerMile = 0.67
)

// DrivingCost converts a driving distance into vehicle cost.
func DrivingCost(meters float64) float64 {
	return meters / 1000 * milesPerKm * CostPerMile
}

// estimate builds a TravelEstimate from raw meters and seconds.
func estimate(meters, seconds float64) ports.TravelEstimate {
	return ports.TravelEstimate{
		Minutes:        seconds / 60,
		Cost:           DrivingCost(meters),
		DistanceMeters: int(math.Round(meters)),
	}
}
