package metrics

import (
	"sort"

	"SlopeLab/internal/model"
)

// Yearly groups trades by exit year and computes per-year statistics with the
// same formulas as Compute, restricted to that year's trades. The drawdown is
// taken over the within-year equity sub-curve. Rows are ordered by year.
func Yearly(trades []model.Trade) []model.YearlyStats {
	if len(trades) == 0 {
		return []model.YearlyStats{}
	}

	byYear := make(map[int][]model.Trade)
	for _, t := range trades {
		y := t.ExitDate.Year()
		byYear[y] = append(byYear[y], t)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	stats := make([]model.YearlyStats, 0, len(years))
	for _, y := range years {
		yearTrades := byYear[y]
		returns := make([]float64, len(yearTrades))
		sumDays := 0
		for i, t := range yearTrades {
			returns[i] = t.ReturnPct
			sumDays += t.DaysHeld
		}
		stats = append(stats, model.YearlyStats{
			Year:        y,
			ReturnPct:   round2(compoundReturn(returns)),
			MaxDrawdown: round2(MaxDrawdown(returns)),
			Trades:      len(yearTrades),
			AvgHold:     round1(float64(sumDays) / float64(len(yearTrades))),
		})
	}
	return stats
}
