package store

import (
	"regexp"
	"strconv"
)

// Branch ids follow the naming scheme of the offline trigger-log generator:
//
//	{WINDOW}D_RSI_{TICKER}_{LT|GT}{THRESHOLD}_daily_trade_log
//
// e.g. 14D_RSI_AAPL_LT30_daily_trade_log.
var (
	tickerPattern    = regexp.MustCompile(`_RSI_(.+?)_(?:LT|GT)`)
	thresholdPattern = regexp.MustCompile(`_(?:LT|GT)(\d+)_`)
)

// ExtractTicker pulls the ticker symbol out of a branch id. Returns "" when
// the id does not follow the naming scheme.
func ExtractTicker(branch string) string {
	m := tickerPattern.FindStringSubmatch(branch)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractRSIThreshold pulls the RSI threshold out of a branch id, defaulting
// to 30 when the id does not carry one. Used only for chart annotation.
func ExtractRSIThreshold(branch string) float64 {
	m := thresholdPattern.FindStringSubmatch(branch)
	if m == nil {
		return 30
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 30
	}
	return v
}
