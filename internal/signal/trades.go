package signal

import (
	"fmt"

	"SlopeLab/internal/model"
)

// ExtractTrades resolves entry/exit spans into trades by looking up the close
// at each date in the price series. A span date absent from the series is a
// data-integrity failure for the whole branch, not a per-trade skip.
func ExtractTrades(spans []model.Span, bars []model.PriceBar) ([]model.Trade, error) {
	closes := make(map[string]float64, len(bars))
	for _, b := range bars {
		closes[b.Date.String()] = b.Close
	}

	trades := make([]model.Trade, 0, len(spans))
	for _, s := range spans {
		entryPrice, ok := closes[s.EntryDate.String()]
		if !ok {
			return nil, fmt.Errorf("%w: entry %s", model.ErrMissingPrice, s.EntryDate)
		}
		exitPrice, ok := closes[s.ExitDate.String()]
		if !ok {
			return nil, fmt.Errorf("%w: exit %s", model.ErrMissingPrice, s.ExitDate)
		}
		trades = append(trades, model.Trade{
			EntryDate:  s.EntryDate,
			ExitDate:   s.ExitDate,
			EntryPrice: entryPrice,
			ExitPrice:  exitPrice,
			ReturnPct:  (exitPrice/entryPrice - 1) * 100,
			DaysHeld:   s.EntryDate.DaysUntil(s.ExitDate),
			EntryKind:  s.EntryKind,
		})
	}
	return trades, nil
}
