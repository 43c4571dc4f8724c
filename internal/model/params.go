package model

import "fmt"

// SignalType selects which condition drives entries and exits.
type SignalType string

const (
	// SignalBoth requires the RSI trigger and the slope confirmation on the
	// same date.
	SignalBoth SignalType = "Both"
	// SignalRSI trades on the RSI trigger stream alone.
	SignalRSI SignalType = "RSI"
	// SignalSlope trades on the slope indicator alone.
	SignalSlope SignalType = "Slope"
)

// Accepted parameter ranges.
const (
	MinSlopeWindow  = 5
	MaxSlopeWindow  = 30
	MinPosThreshold = 0.0
	MaxPosThreshold = 20.0
	MinNegThreshold = -10.0
	MaxNegThreshold = 10.0
)

// AnalysisParams is the request-scoped configuration for one analysis run.
// It is passed explicitly into the engine; the engine holds no ambient state.
type AnalysisParams struct {
	SlopeWindow  int
	PosThreshold float64
	NegThreshold float64
	SignalType   SignalType
}

// DefaultParams returns the parameter set used when a request leaves a
// field unset.
func DefaultParams() AnalysisParams {
	return AnalysisParams{
		SlopeWindow:  15,
		PosThreshold: 5.0,
		NegThreshold: 0.0,
		SignalType:   SignalBoth,
	}
}

// Validate rejects out-of-range values before any computation starts.
func (p AnalysisParams) Validate() error {
	if p.SlopeWindow < MinSlopeWindow || p.SlopeWindow > MaxSlopeWindow {
		return fmt.Errorf("%w: slope_window %d outside [%d, %d]",
			ErrInvalidParameter, p.SlopeWindow, MinSlopeWindow, MaxSlopeWindow)
	}
	if p.PosThreshold < MinPosThreshold || p.PosThreshold > MaxPosThreshold {
		return fmt.Errorf("%w: pos_threshold %.2f outside [%.0f, %.0f]",
			ErrInvalidParameter, p.PosThreshold, MinPosThreshold, MaxPosThreshold)
	}
	if p.NegThreshold < MinNegThreshold || p.NegThreshold > MaxNegThreshold {
		return fmt.Errorf("%w: neg_threshold %.2f outside [%.0f, %.0f]",
			ErrInvalidParameter, p.NegThreshold, MinNegThreshold, MaxNegThreshold)
	}
	switch p.SignalType {
	case SignalBoth, SignalRSI, SignalSlope:
	default:
		return fmt.Errorf("%w: signal_type %q", ErrInvalidParameter, p.SignalType)
	}
	return nil
}
