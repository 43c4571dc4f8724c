package metrics

import "math"

// CAGR converts a total return percentage over a number of years into a
// compound annual growth rate percentage. Non-positive spans give 0; a total
// multiplier at or below zero caps at -100.
func CAGR(totalReturnPct, years float64) float64 {
	if years <= 0 {
		return 0
	}
	multiplier := 1 + totalReturnPct/100
	if multiplier <= 0 {
		return -100
	}
	return round2((math.Pow(multiplier, 1/years) - 1) * 100)
}
