package model

// PriceBar represents a single daily OHLCV bar. Bars for a ticker are ordered
// by date ascending with no duplicate dates.
type PriceBar struct {
	Date   Date
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TriggerPoint is one pre-computed RSI trigger observation for a branch.
// Active reports whether the branch's RSI condition (LT/GT threshold) held on
// that date. The engine consumes the trigger stream as-is and never recomputes
// RSI from prices.
type TriggerPoint struct {
	Date   Date
	RSI    float64
	Active bool
}

// MergedPoint is one date of the joined price + trigger + slope stream fed to
// the signal generator. Slope is NaN for the leading window-1 bars where the
// indicator is undefined.
type MergedPoint struct {
	Date   Date
	Open   float64
	High   float64
	Low    float64
	Close  float64
	RSI    float64
	Active bool
	Slope  float64
}
