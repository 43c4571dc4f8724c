package analysis

import (
	"math"

	"github.com/samber/lo"

	"SlopeLab/internal/model"
	"SlopeLab/internal/store"
)

// chartYears bounds the chart payload to the most recent years of data.
const chartYears = 5

// Candle is one OHLC bar keyed by unix time.
type Candle struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// SlopeSegment colors a stretch of the price line by slope regime.
type SlopeSegment struct {
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Color string `json:"color"`
}

// Marker annotates a single point on the chart. ReturnPct and EntryType are
// only set on exit and entry markers respectively.
type Marker struct {
	Time      int64   `json:"time"`
	Price     float64 `json:"price"`
	ReturnPct float64 `json:"return_pct,omitempty"`
	EntryType string  `json:"entry_type,omitempty"`
}

// RSIPoint is one point of the RSI sub-chart.
type RSIPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// ChartData is everything the frontend needs to render one branch.
type ChartData struct {
	Candles       []Candle       `json:"candles"`
	SlopeSegments []SlopeSegment `json:"slope_segments"`
	Entries       []Marker       `json:"entries"`
	Exits         []Marker       `json:"exits"`
	RSITriggers   []Marker       `json:"rsi_triggers"`
	RSIData       []RSIPoint     `json:"rsi_data"`
	RSIThreshold  float64        `json:"rsi_threshold"`
}

const (
	slopeUpColor      = "#26a69a"
	slopeNeutralColor = "#9e9e9e"
)

// BuildChart assembles the chart overlay for a branch from the merged series
// and the extracted trades, windowed to the last chartYears years.
func BuildChart(points []model.MergedPoint, trades []model.Trade, posThreshold float64, branch string) ChartData {
	chart := ChartData{
		Candles:       []Candle{},
		SlopeSegments: []SlopeSegment{},
		Entries:       []Marker{},
		Exits:         []Marker{},
		RSITriggers:   []Marker{},
		RSIData:       []RSIPoint{},
		RSIThreshold:  store.ExtractRSIThreshold(branch),
	}
	if len(points) == 0 {
		return chart
	}

	cutoff := points[len(points)-1].Date.AddDate(-chartYears, 0, 0)
	start := 0
	for start < len(points) && points[start].Date.Before(cutoff) {
		start++
	}
	window := points[start:]

	chart.Candles = lo.Map(window, func(p model.MergedPoint, _ int) Candle {
		return Candle{Time: p.Date.Unix(), Open: p.Open, High: p.High, Low: p.Low, Close: p.Close}
	})
	chart.SlopeSegments = slopeSegments(window, posThreshold)
	chart.RSIData = lo.FilterMap(window, func(p model.MergedPoint, _ int) (RSIPoint, bool) {
		if math.IsNaN(p.RSI) {
			return RSIPoint{}, false
		}
		return RSIPoint{Time: p.Date.Unix(), Value: round2(p.RSI)}, true
	})
	chart.RSITriggers = rsiTriggers(window)

	closeByTime := make(map[int64]float64, len(window))
	for _, p := range window {
		closeByTime[p.Date.Unix()] = p.Close
	}
	windowStart := window[0].Date
	visible := lo.Filter(trades, func(t model.Trade, _ int) bool {
		return !t.EntryDate.Before(windowStart.Time)
	})
	chart.Entries = lo.Map(visible, func(t model.Trade, _ int) Marker {
		return Marker{Time: t.EntryDate.Unix(), Price: round2(t.EntryPrice), EntryType: string(t.EntryKind)}
	})
	chart.Exits = lo.Map(visible, func(t model.Trade, _ int) Marker {
		return Marker{Time: t.ExitDate.Unix(), Price: round2(t.ExitPrice), ReturnPct: round2(t.ReturnPct)}
	})

	return chart
}

// slopeSegments splits the series into contiguous runs of same-colored slope.
// Points with an undefined slope are treated as below threshold.
func slopeSegments(points []model.MergedPoint, posThreshold float64) []SlopeSegment {
	segments := []SlopeSegment{}
	if len(points) < 2 {
		return segments
	}

	color := func(p model.MergedPoint) string {
		if !math.IsNaN(p.Slope) && p.Slope >= posThreshold {
			return slopeUpColor
		}
		return slopeNeutralColor
	}

	segStart := points[0].Date.Unix()
	current := color(points[0])
	for i := 1; i < len(points); i++ {
		c := color(points[i])
		if c == current {
			continue
		}
		segments = append(segments, SlopeSegment{Start: segStart, End: points[i].Date.Unix(), Color: current})
		segStart = points[i].Date.Unix()
		current = c
	}
	segments = append(segments, SlopeSegment{
		Start: segStart,
		End:   points[len(points)-1].Date.Unix(),
		Color: current,
	})
	return segments
}

// rsiTriggers marks the bars where the trigger flips from inactive to active.
func rsiTriggers(points []model.MergedPoint) []Marker {
	markers := []Marker{}
	for i, p := range points {
		if !p.Active {
			continue
		}
		if i == 0 || !points[i-1].Active {
			markers = append(markers, Marker{Time: p.Date.Unix(), Price: round2(p.Close)})
		}
	}
	return markers
}
