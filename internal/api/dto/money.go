package dto

import (
	"math"
	"strconv"
)

// Money is a currency amount rounded to cents when serialized. Infinite
// amounts (unreachable routes) serialize as null.
type Money float64

func (m Money) MarshalJSON() ([]byte, error) {
	v := float64(m)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return []byte("null"), nil
	}
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return []byte(strconv.FormatFloat(r, 'f', 2, 64)), nil
}

// Minutes is a duration in minutes with the same null convention as Money.
type Minutes float64

func (m Minutes) MarshalJSON() ([]byte, error) {
	return Money(m).MarshalJSON()
}
