package model

import "errors"

// Error taxonomy. Batch operations treat everything except
// ErrInvalidParameter as a per-branch skip; invalid parameters reject the
// whole request before computation starts.
var (
	// ErrTickerNotFound reports a missing OHLCV series.
	ErrTickerNotFound = errors.New("ticker not found")
	// ErrBranchNotFound reports a missing trigger series.
	ErrBranchNotFound = errors.New("branch not found")
	// ErrInsufficientData reports a series shorter than the requested window.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrMissingPrice reports a trigger date with no matching price bar.
	ErrMissingPrice = errors.New("missing price for date")
	// ErrInvalidParameter reports an out-of-range request parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
)
