package calculator

import (
	"fmt"
	"math"

	"SlopeLab/internal/model"
)

// Slope computes the rolling trend indicator over closing prices.
//
// For bar i the slope is the least-squares regression slope of the trailing
// `window` closes against x = 0..window-1, scaled to the fractional move over
// the window relative to the window's first close, expressed as a percent:
//
//	slopePct[i] = b * (window-1) / closes[i-window+1] * 100
//
// The first window-1 entries are NaN: the indicator is undefined there and
// every comparison against a threshold fails.
func Slope(closes []float64, window int) ([]float64, error) {
	if window < 2 {
		return nil, fmt.Errorf("%w: slope window must be >= 2, got %d", model.ErrInvalidParameter, window)
	}
	if len(closes) < window {
		return nil, fmt.Errorf("%w: need %d closes for slope window, have %d",
			model.ErrInsufficientData, window, len(closes))
	}

	// x statistics are constant across windows.
	xMean := float64(window-1) / 2.0
	xVar := 0.0
	for x := 0; x < window; x++ {
		d := float64(x) - xMean
		xVar += d * d
	}

	slopes := make([]float64, len(closes))
	for i := 0; i < window-1; i++ {
		slopes[i] = math.NaN()
	}
	for i := window - 1; i < len(closes); i++ {
		win := closes[i-window+1 : i+1]
		yMean := 0.0
		for _, y := range win {
			yMean += y
		}
		yMean /= float64(window)

		cov := 0.0
		for x, y := range win {
			cov += (float64(x) - xMean) * (y - yMean)
		}
		b := cov / xVar

		base := win[0]
		if base == 0 {
			slopes[i] = 0
			continue
		}
		slopes[i] = b * float64(window-1) / base * 100
	}
	return slopes, nil
}
