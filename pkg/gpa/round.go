package gpa

import "math"

// Round rounds half-to-even to the given number of decimal places. It is
// meant for presentation only; accumulate with full precision.
func Round(value float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	p := math.Pow(10, float64(places))
	return math.RoundToEven(value*p) / p
}
