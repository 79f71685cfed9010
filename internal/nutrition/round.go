package nutrition

import "math"

// Round rounds half away from zero to the given number of decimals.
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}

func round1(x float64) float64 { return Round(x, 1) }
