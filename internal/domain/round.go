package domain

import "math"

// Round rounds half away from zero to the given number of decimal places.
// It exists so presentation layers share one rounding rule; engines keep
// full precision.
func Round(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}

// RoundPtr rounds a nullable value, passing nil through.
func RoundPtr(x *float64, places int) *float64 {
	if x == nil {
		return nil
	}
	r := Round(*x, places)
	return &r
}
