package model

// EntryKind records which condition opened a position.
type EntryKind string

const (
	EntryRSI   EntryKind = "RSI"
	EntrySlope EntryKind = "Slope"
)

// Span is an unresolved entry/exit date pair emitted by the signal generator.
// ExitDate is always strictly after EntryDate; spans never overlap.
type Span struct {
	EntryDate Date
	ExitDate  Date
	EntryKind EntryKind
}

// Trade is a fully resolved round trip. Immutable once created.
// ReturnPct = (ExitPrice/EntryPrice - 1) * 100; DaysHeld counts calendar days
// between entry and exit.
type Trade struct {
	EntryDate  Date      `json:"entry_date"`
	ExitDate   Date      `json:"exit_date"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	ReturnPct  float64   `json:"return_pct"`
	DaysHeld   int       `json:"days_held"`
	EntryKind  EntryKind `json:"-"`
}
