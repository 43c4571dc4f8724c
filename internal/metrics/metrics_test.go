package metrics

import (
	"math"
	"testing"
	"time"

	"SlopeLab/internal/model"
)

func trade(exitYear int, returnPct float64, daysHeld int) model.Trade {
	entry := model.NewDate(exitYear, time.March, 1)
	return model.Trade{
		EntryDate: entry,
		ExitDate:  model.NewDate(exitYear, time.March, 1+daysHeld),
		ReturnPct: returnPct,
		DaysHeld:  daysHeld,
	}
}

func TestCompute_ZeroTrades(t *testing.T) {
	m := Compute(nil, 1000)
	if m.TotalReturn != 0 || m.WinRate != 0 || m.MaxDrawdown != 0 ||
		m.SharpeRatio != 0 || m.Volatility != 0 || m.NumTrades != 0 ||
		m.TimeInMarket != 0 || m.AvgDaysHeld != 0 || m.AvgReturn != 0 {
		t.Errorf("zero trades must give zero-valued metrics, got %+v", m)
	}
}

func TestCompute_SingleTrade(t *testing.T) {
	m := Compute([]model.Trade{trade(2023, 10, 5)}, 100)
	if m.NumTrades != 1 {
		t.Fatalf("expected 1 trade, got %d", m.NumTrades)
	}
	if m.TotalReturn != 10 {
		t.Errorf("total return: expected 10, got %f", m.TotalReturn)
	}
	if m.WinRate != 100 {
		t.Errorf("win rate: expected 100, got %f", m.WinRate)
	}
	// One trade: volatility and Sharpe degrade to zero, no division error.
	if m.Volatility != 0 || m.SharpeRatio != 0 {
		t.Errorf("single trade: expected zero vol/sharpe, got %f/%f", m.Volatility, m.SharpeRatio)
	}
	if m.TimeInMarket != 5 {
		t.Errorf("time in market: expected 5, got %f", m.TimeInMarket)
	}
}

func TestCompute_CompoundedReturn(t *testing.T) {
	trades := []model.Trade{trade(2023, 10, 3), trade(2023, -5, 2)}
	m := Compute(trades, 100)
	// 1.10 * 0.95 = 1.045 -> 4.5%
	if math.Abs(m.TotalReturn-4.5) > 1e-9 {
		t.Errorf("expected compounded 4.5, got %f", m.TotalReturn)
	}
	if m.WinRate != 50 {
		t.Errorf("win rate: expected 50, got %f", m.WinRate)
	}
	if m.AvgReturn != 2.5 {
		t.Errorf("avg return: expected 2.5, got %f", m.AvgReturn)
	}
	if m.AvgDaysHeld != 2.5 {
		t.Errorf("avg days held: expected 2.5, got %f", m.AvgDaysHeld)
	}
}

func TestCompute_WinRateBounds(t *testing.T) {
	trades := []model.Trade{trade(2023, 1, 1), trade(2023, 2, 1), trade(2023, -1, 1), trade(2023, 0, 1)}
	m := Compute(trades, 365)
	if m.WinRate < 0 || m.WinRate > 100 {
		t.Errorf("win rate outside [0,100]: %f", m.WinRate)
	}
	// A flat trade (0%) is not a win.
	if m.WinRate != 50 {
		t.Errorf("expected 50, got %f", m.WinRate)
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
		want    float64
	}{
		{"empty", nil, 0},
		{"all gains", []float64{5, 5, 5}, 0},
		{"single loss", []float64{-10}, 10},
		{"peak then trough", []float64{20, -10, -10}, 19},
		{"recovers", []float64{-50, 120}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxDrawdown(tt.returns)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
			if got < 0 {
				t.Errorf("drawdown must be non-negative, got %f", got)
			}
		})
	}
}

func TestCompute_SharpeAndVolatility(t *testing.T) {
	trades := []model.Trade{trade(2023, 10, 1), trade(2023, 20, 1)}
	m := Compute(trades, 365)
	// Population std of {10, 20} is 5; mean 15.
	if m.Volatility != 5 {
		t.Errorf("volatility: expected 5, got %f", m.Volatility)
	}
	want := round2(15.0 / 5.0 * math.Sqrt(252))
	if m.SharpeRatio != want {
		t.Errorf("sharpe: expected %f, got %f", want, m.SharpeRatio)
	}
}

func TestCompute_ZeroVolatility(t *testing.T) {
	// Identical returns: volatility 0, Sharpe must stay 0 rather than Inf.
	trades := []model.Trade{trade(2023, 10, 1), trade(2023, 10, 1)}
	m := Compute(trades, 365)
	if m.Volatility != 0 || m.SharpeRatio != 0 {
		t.Errorf("expected zero vol/sharpe, got %f/%f", m.Volatility, m.SharpeRatio)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	trades := []model.Trade{trade(2022, 7.3, 4), trade(2023, -2.1, 9), trade(2023, 11.8, 2)}
	a := Compute(trades, 730)
	b := Compute(trades, 730)
	if a != b {
		t.Errorf("metrics not deterministic: %+v vs %+v", a, b)
	}
}

func TestYearly_GroupedByExitYear(t *testing.T) {
	trades := []model.Trade{
		trade(2022, 10, 4),
		trade(2022, -5, 2),
		trade(2023, 8, 6),
	}
	stats := Yearly(trades)
	if len(stats) != 2 {
		t.Fatalf("expected 2 years, got %d", len(stats))
	}
	if stats[0].Year != 2022 || stats[1].Year != 2023 {
		t.Errorf("years not ascending: %d, %d", stats[0].Year, stats[1].Year)
	}
	if stats[0].Trades != 2 || stats[1].Trades != 1 {
		t.Errorf("trade counts: got %d and %d", stats[0].Trades, stats[1].Trades)
	}
	// 2022: 1.10 * 0.95 -> 4.5%
	if math.Abs(stats[0].ReturnPct-4.5) > 1e-9 {
		t.Errorf("2022 return: expected 4.5, got %f", stats[0].ReturnPct)
	}
	if stats[0].AvgHold != 3 {
		t.Errorf("2022 avg hold: expected 3, got %f", stats[0].AvgHold)
	}
}

func TestYearly_Empty(t *testing.T) {
	if stats := Yearly(nil); len(stats) != 0 {
		t.Errorf("expected empty stats, got %d rows", len(stats))
	}
}

func TestCAGR(t *testing.T) {
	tests := []struct {
		name   string
		total  float64
		years  float64
		want   float64
	}{
		{"doubles in two years", 100, 2, round2((math.Sqrt2 - 1) * 100)},
		{"flat", 0, 5, 0},
		{"zero years", 50, 0, 0},
		{"total wipeout", -100, 3, -100},
		{"one year identity", 7, 1, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CAGR(tt.total, tt.years); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}
