package domain

import "math"

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(v*ratio) / ratio
}
