package signal

import (
	"math"

	"SlopeLab/internal/model"
)

// Generate runs the two-state (FLAT/LONG) machine over the merged per-date
// stream and returns the resulting entry/exit spans. At most one position is
// open at a time; exit and re-entry never happen on the same bar. A position
// still open when the series ends is dropped without producing a span.
//
// Entry per mode:
//   - RSI:   rsi_active
//   - Slope: slope >= pos_threshold
//   - Both:  rsi_active && slope >= pos_threshold on the same date
//
// Exit fires on the first later date where the entry condition no longer
// holds, or (Slope/Both) where slope <= neg_threshold. An undefined (NaN)
// slope fails every comparison: it never admits an entry and, in Slope/Both
// modes, forces an exit.
func Generate(points []model.MergedPoint, params model.AnalysisParams) []model.Span {
	spans := []model.Span{}
	inPosition := false
	var entryDate model.Date
	var entryKind model.EntryKind

	for _, p := range points {
		if !inPosition {
			if ok, kind := entryMet(p, params); ok {
				inPosition = true
				entryDate = p.Date
				entryKind = kind
			}
			continue
		}
		if exitMet(p, params) {
			inPosition = false
			spans = append(spans, model.Span{
				EntryDate: entryDate,
				ExitDate:  p.Date,
				EntryKind: entryKind,
			})
		}
	}
	return spans
}

func entryMet(p model.MergedPoint, params model.AnalysisParams) (bool, model.EntryKind) {
	switch params.SignalType {
	case model.SignalRSI:
		return p.Active, model.EntryRSI
	case model.SignalSlope:
		return slopeAbove(p.Slope, params.PosThreshold), model.EntrySlope
	case model.SignalBoth:
		return p.Active && slopeAbove(p.Slope, params.PosThreshold), model.EntryRSI
	}
	return false, model.EntrySlope
}

func exitMet(p model.MergedPoint, params model.AnalysisParams) bool {
	switch params.SignalType {
	case model.SignalRSI:
		return !p.Active
	case model.SignalSlope:
		return !slopeAbove(p.Slope, params.PosThreshold) ||
			slopeBelow(p.Slope, params.NegThreshold)
	case model.SignalBoth:
		return !(p.Active && slopeAbove(p.Slope, params.PosThreshold)) ||
			slopeBelow(p.Slope, params.NegThreshold)
	}
	return true
}

// slopeAbove reports slope >= threshold; NaN fails.
func slopeAbove(slope, threshold float64) bool {
	return !math.IsNaN(slope) && slope >= threshold
}

// slopeBelow reports slope <= threshold; NaN fails (the undefined head is an
// entry problem, not an extra exit trigger).
func slopeBelow(slope, threshold float64) bool {
	return !math.IsNaN(slope) && slope <= threshold
}
