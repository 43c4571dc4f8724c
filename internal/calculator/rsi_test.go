package calculator

import (
	"math"
	"testing"
)

func TestRSISeries_AllGains(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15, 16}
	rsi, err := RSISeries(closes, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rsi) != len(closes) {
		t.Fatalf("expected %d values, got %d", len(closes), len(rsi))
	}
	for i := 0; i < 3; i++ {
		if !math.IsNaN(rsi[i]) {
			t.Errorf("rsi[%d]: expected NaN, got %f", i, rsi[i])
		}
	}
	for i := 3; i < len(rsi); i++ {
		if rsi[i] != 100.0 {
			t.Errorf("rsi[%d]: expected 100 for all-gains series, got %f", i, rsi[i])
		}
	}
}

func TestRSISeries_AllLosses(t *testing.T) {
	closes := []float64{16, 15, 14, 13, 12, 11}
	rsi, err := RSISeries(closes, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 3; i < len(rsi); i++ {
		if rsi[i] != 0.0 {
			t.Errorf("rsi[%d]: expected 0 for all-losses series, got %f", i, rsi[i])
		}
	}
}

func TestRSISeries_Bounds(t *testing.T) {
	closes := []float64{50, 52, 51, 55, 54, 58, 57, 60, 59, 62, 61, 64}
	rsi, err := RSISeries(closes, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 5; i < len(rsi); i++ {
		if rsi[i] < 0 || rsi[i] > 100 {
			t.Errorf("rsi[%d] = %f outside [0, 100]", i, rsi[i])
		}
	}
}

func TestRSISeries_Errors(t *testing.T) {
	if _, err := RSISeries([]float64{1, 2, 3}, 0); err == nil {
		t.Error("expected error for non-positive period")
	}
	if _, err := RSISeries([]float64{1, 2}, 14); err == nil {
		t.Error("expected error for short series")
	}
}
