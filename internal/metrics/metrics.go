package metrics

import (
	"math"

	"SlopeLab/internal/model"
)

// sharpeAnnualization is the fixed annualization constant for the Sharpe
// ratio, using the daily-granularity convention (sqrt of 252 trading days).
var sharpeAnnualization = math.Sqrt(252)

// Compute aggregates a trade list into performance statistics.
// priceSpanDays is the number of calendar days spanned by the underlying
// price series and feeds time-in-market. Every division-by-zero case degrades
// to zero so that branches with no trades still render.
//
// Conventions: total return compounds the per-trade returns; volatility is
// the population standard deviation of trade returns; Sharpe is
// mean/volatility scaled by sqrt(252). Values are rounded to two decimals.
func Compute(trades []model.Trade, priceSpanDays int) model.PerformanceMetrics {
	m := model.PerformanceMetrics{NumTrades: len(trades)}
	if len(trades) == 0 {
		return m
	}

	returns := make([]float64, len(trades))
	wins := 0
	sumReturns := 0.0
	sumDays := 0
	for i, t := range trades {
		returns[i] = t.ReturnPct
		sumReturns += t.ReturnPct
		sumDays += t.DaysHeld
		if t.ReturnPct > 0 {
			wins++
		}
	}

	mean := sumReturns / float64(len(trades))
	m.TotalReturn = round2(compoundReturn(returns))
	m.WinRate = round2(float64(wins) / float64(len(trades)) * 100)
	m.AvgReturn = round2(mean)
	m.AvgDaysHeld = round2(float64(sumDays) / float64(len(trades)))
	m.MaxDrawdown = round2(MaxDrawdown(returns))

	if priceSpanDays > 0 {
		m.TimeInMarket = round2(float64(sumDays) / float64(priceSpanDays) * 100)
	}

	if len(trades) >= 2 {
		vol := stdDev(returns, mean)
		m.Volatility = round2(vol)
		if vol > 0 {
			m.SharpeRatio = round2(mean / vol * sharpeAnnualization)
		}
	}
	return m
}

// compoundReturn chains per-trade returns: (prod(1 + r/100) - 1) * 100.
func compoundReturn(returns []float64) float64 {
	equity := 1.0
	for _, r := range returns {
		equity *= 1 + r/100
	}
	return (equity - 1) * 100
}

// MaxDrawdown builds a synthetic equity curve from sequential trade returns
// (seeded at 100) and returns the largest peak-to-trough decline as a
// positive percentage.
func MaxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	equity := 100.0
	peak := equity
	maxDD := 0.0
	for _, r := range returns {
		equity *= 1 + r/100
		if equity > peak {
			peak = equity
		}
		if dd := (peak - equity) / peak * 100; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

func stdDev(values []float64, mean float64) float64 {
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
