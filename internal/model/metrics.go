package model

// PerformanceMetrics aggregates a branch's trade list into summary statistics.
// Recomputed per request; zero trades yield a zero-valued struct, never NaN.
type PerformanceMetrics struct {
	TotalReturn  float64 `json:"total_return"`
	WinRate      float64 `json:"win_rate"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	NumTrades    int     `json:"num_trades"`
	TimeInMarket float64 `json:"time_in_market"`
	AvgDaysHeld  float64 `json:"avg_days_held"`
	AvgReturn    float64 `json:"avg_return"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	Volatility   float64 `json:"volatility"`
}

// YearlyStats holds the per-calendar-year breakdown. Trades are grouped by
// exit year.
type YearlyStats struct {
	Year        int     `json:"year"`
	ReturnPct   float64 `json:"return_pct"`
	MaxDrawdown float64 `json:"max_drawdown"`
	Trades      int     `json:"trades"`
	AvgHold     float64 `json:"avg_hold"`
}

// BranchOverview is one row of the all-branches overview table.
type BranchOverview struct {
	Ticker       string  `json:"ticker"`
	Branch       string  `json:"branch"`
	Period       string  `json:"period"`
	ReturnPct    float64 `json:"return_pct"`
	CAGR         float64 `json:"cagr"`
	WinRate      float64 `json:"win_rate"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	Trades       int     `json:"trades"`
	Sharpe       float64 `json:"sharpe"`
	TimeInMarket float64 `json:"time_in_market"`
}

// Progress is one incremental update emitted while an overview run is in
// flight. Current is monotonically non-decreasing; Total is constant for the
// run; Percent = round(Current/Total*100).
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Branch  string `json:"branch"`
	Percent int    `json:"percent"`
}
