package analysis

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"SlopeLab/internal/calculator"
	"SlopeLab/internal/metrics"
	"SlopeLab/internal/model"
	"SlopeLab/internal/signal"
	"SlopeLab/internal/store"
)

// Service runs the per-branch backtesting pipeline against a Store. It holds
// no per-request state: every call is a pure function of the stored series
// and the request parameters.
type Service struct {
	store   store.Store
	workers int
}

// NewService creates a Service running overview batches on `workers`
// concurrent workers (minimum 1).
func NewService(st store.Store, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{store: st, workers: workers}
}

// IndividualAnalysis is the full single-branch result.
type IndividualAnalysis struct {
	Metrics     model.PerformanceMetrics `json:"metrics"`
	Trades      []model.Trade            `json:"trades"`
	YearlyStats []model.YearlyStats      `json:"yearly_stats"`
	ChartData   ChartData                `json:"chart_data"`
}

// Individual runs the pipeline for one branch and assembles metrics, trades,
// yearly stats, and chart overlay data.
func (s *Service) Individual(branch string, params model.AnalysisParams) (*IndividualAnalysis, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	points, bars, err := s.merge(branch, params)
	if err != nil {
		return nil, err
	}

	spans := signal.Generate(points, params)
	trades, err := signal.ExtractTrades(spans, bars)
	if err != nil {
		return nil, fmt.Errorf("branch %s: %w", branch, err)
	}

	perf := metrics.Compute(trades, seriesSpanDays(points))

	return &IndividualAnalysis{
		Metrics:     perf,
		Trades:      lo.Map(trades, func(t model.Trade, _ int) model.Trade { return roundTrade(t) }),
		YearlyStats: metrics.Yearly(trades),
		ChartData:   BuildChart(points, trades, params.PosThreshold, branch),
	}, nil
}

// merge joins the branch trigger stream with the ticker price series by date
// and attaches the slope indicator. Every trigger date must have a price bar;
// a gap is a data-integrity error for the branch.
func (s *Service) merge(branch string, params model.AnalysisParams) ([]model.MergedPoint, []model.PriceBar, error) {
	triggers, err := s.store.TriggerSeries(branch)
	if err != nil {
		return nil, nil, err
	}

	ticker := store.ExtractTicker(branch)
	if ticker == "" {
		return nil, nil, fmt.Errorf("%w: cannot extract ticker from %q", model.ErrBranchNotFound, branch)
	}
	bars, err := s.store.PriceSeries(ticker)
	if err != nil {
		return nil, nil, err
	}

	barsByDate := make(map[string]model.PriceBar, len(bars))
	for _, b := range bars {
		barsByDate[b.Date.String()] = b
	}

	points := make([]model.MergedPoint, len(triggers))
	closes := make([]float64, len(triggers))
	for i, tp := range triggers {
		bar, ok := barsByDate[tp.Date.String()]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s has no bar for %s", model.ErrMissingPrice, ticker, tp.Date)
		}
		points[i] = model.MergedPoint{
			Date:   tp.Date,
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			RSI:    tp.RSI,
			Active: tp.Active,
		}
		closes[i] = bar.Close
	}

	slopes, err := calculator.Slope(closes, params.SlopeWindow)
	if err != nil {
		return nil, nil, fmt.Errorf("branch %s: %w", branch, err)
	}
	for i := range points {
		points[i].Slope = slopes[i]
	}
	return points, bars, nil
}

// seriesSpanDays returns the calendar days covered by the merged series.
func seriesSpanDays(points []model.MergedPoint) int {
	if len(points) < 2 {
		return 0
	}
	return points[0].Date.DaysUntil(points[len(points)-1].Date)
}

func roundTrade(t model.Trade) model.Trade {
	t.EntryPrice = round2(t.EntryPrice)
	t.ExitPrice = round2(t.ExitPrice)
	t.ReturnPct = round2(t.ReturnPct)
	return t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
