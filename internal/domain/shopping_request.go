package domain

import (
	"fmt"
	"math"
	"strings"
)

// ShoppingRequest is the user's shopping list plus how they value their time.
// Duplicate ingredients are kept as given; deduplication is the caller's job.
type ShoppingRequest struct {
	Ingredients     []string
	Home            GeoCoordinate
	HourlyTimeValue float64 // currency per hour
}

// Validate requires at least one non-blank ingredient, a finite non-negative
// hourly rate and an in-range home coordinate.
func (r ShoppingRequest) Validate() error {
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("%w: ingredient list must not be empty", ErrInvalidRequest)
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing) == "" {
			return fmt.Errorf("%w: ingredient at index %d is empty", ErrInvalidRequest, i)
		}
	}
	if math.IsNaN(r.HourlyTimeValue) || math.IsInf(r.HourlyTimeValue, 0) || r.HourlyTimeValue < 0 {
		return fmt.Errorf("%w: hourly time value must be finite and non-negative, got %v", ErrInvalidRequest, r.HourlyTimeValue)
	}
	if !r.Home.Valid() {
		return fmt.Errorf("%w: home coordinate %v out of range", ErrInvalidRequest, r.Home)
	}
	return nil
}

// TimeValueCost converts travel minutes into money at the hourly rate.
// Infinite travel stays infinite even at a zero rate.
func (r ShoppingRequest) TimeValueCost(minutes float64) float64 {
	if math.IsInf(minutes, 1) {
		return math.Inf(1)
	}
	return minutes * (r.HourlyTimeValue / 60)
}
