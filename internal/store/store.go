package store

import "SlopeLab/internal/model"

// Store provides read access to the backtesting data set: daily OHLCV series
// keyed by ticker and pre-computed RSI trigger series keyed by branch id. The
// engine treats a Store as synchronous and already materialized; all returned
// series are ordered by date ascending.
type Store interface {
	// Tickers lists all tickers with price data, sorted.
	Tickers() ([]string, error)
	// Branches lists branch ids, sorted, optionally filtered by ticker
	// (empty string means all).
	Branches(ticker string) ([]string, error)
	// PriceSeries returns the OHLCV series for a ticker.
	// Fails with model.ErrTickerNotFound.
	PriceSeries(ticker string) ([]model.PriceBar, error)
	// TriggerSeries returns the RSI trigger series for a branch.
	// Fails with model.ErrBranchNotFound.
	TriggerSeries(branch string) ([]model.TriggerPoint, error)
}
