package calculator

import (
	"errors"
	"math"
	"testing"

	"SlopeLab/internal/model"
)

func TestSlope_LinearUptrend(t *testing.T) {
	// Perfectly linear prices: regression slope is exact, so the percent move
	// over the window is (last-first)/first * 100.
	closes := []float64{100, 101, 102, 103, 104, 105}
	slopes, err := Slope(closes, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slopes) != len(closes) {
		t.Fatalf("expected %d slopes, got %d", len(closes), len(slopes))
	}
	for i := 0; i < 2; i++ {
		if !math.IsNaN(slopes[i]) {
			t.Errorf("slopes[%d]: expected NaN, got %f", i, slopes[i])
		}
	}
	// Window [100,101,102]: move of 2 over base 100 = 2%.
	if math.Abs(slopes[2]-2.0) > 1e-9 {
		t.Errorf("slopes[2]: expected 2.0, got %f", slopes[2])
	}
	// Window [103,104,105]: move of 2 over base 103.
	want := 2.0 / 103.0 * 100
	if math.Abs(slopes[5]-want) > 1e-9 {
		t.Errorf("slopes[5]: expected %f, got %f", want, slopes[5])
	}
}

func TestSlope_Monotonicity(t *testing.T) {
	up := []float64{10, 11, 12, 13, 14}
	down := []float64{14, 13, 12, 11, 10}
	flat := []float64{10, 10, 10, 10, 10}

	upSlopes, _ := Slope(up, 5)
	downSlopes, _ := Slope(down, 5)
	flatSlopes, _ := Slope(flat, 5)

	if upSlopes[4] <= 0 {
		t.Errorf("rising prices: expected positive slope, got %f", upSlopes[4])
	}
	if downSlopes[4] >= 0 {
		t.Errorf("falling prices: expected negative slope, got %f", downSlopes[4])
	}
	if flatSlopes[4] != 0 {
		t.Errorf("flat prices: expected zero slope, got %f", flatSlopes[4])
	}
}

func TestSlope_Deterministic(t *testing.T) {
	closes := []float64{50, 52, 51, 55, 54, 58, 57, 60}
	first, err := Slope(closes, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := Slope(closes, 4)
	for i := range first {
		if math.IsNaN(first[i]) && math.IsNaN(second[i]) {
			continue
		}
		if first[i] != second[i] {
			t.Errorf("index %d: %f != %f", i, first[i], second[i])
		}
	}
}

func TestSlope_Errors(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		window int
		want   error
	}{
		{"too short", []float64{1, 2}, 3, model.ErrInsufficientData},
		{"window one", []float64{1, 2, 3}, 1, model.ErrInvalidParameter},
		{"empty", nil, 2, model.ErrInsufficientData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Slope(tt.closes, tt.window); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSlope_ZeroBase(t *testing.T) {
	closes := []float64{0, 1, 2}
	slopes, err := Slope(closes, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slopes[2] != 0 {
		t.Errorf("zero base price should give zero slope, got %f", slopes[2])
	}
}
