package analysis

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"SlopeLab/internal/metrics"
	"SlopeLab/internal/model"
	"SlopeLab/internal/signal"
	"SlopeLab/internal/store"
)

const daysPerYear = 365.25

// ProgressFunc receives one event per finished branch. Events are delivered
// from a single goroutine, in completion order, with Current strictly
// increasing.
type ProgressFunc func(model.Progress)

// Overview runs the pipeline over every stored branch and returns the rows
// sorted by total return, best first.
func (s *Service) Overview(ctx context.Context, params model.AnalysisParams) ([]model.BranchOverview, error) {
	return s.OverviewStream(ctx, params, nil)
}

// OverviewStream is Overview with per-branch progress reporting. A branch
// whose pipeline fails is logged and skipped; it neither aborts the batch nor
// produces a row.
func (s *Service) OverviewStream(ctx context.Context, params model.AnalysisParams, emit ProgressFunc) ([]model.BranchOverview, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	branches, err := s.store.Branches("")
	if err != nil {
		return nil, err
	}
	total := len(branches)
	runID := uuid.NewString()[:8]
	log.Printf("[INFO] overview run %s: %d branches, %d workers", runID, total, s.workers)

	type result struct {
		branch string
		row    *model.BranchOverview
		err    error
	}

	jobs := make(chan string, total)
	for _, b := range branches {
		jobs <- b
	}
	close(jobs)

	results := make(chan result, total)
	var wg sync.WaitGroup
	for w := 0; w < s.workers && w < total; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for branch := range jobs {
				if ctx.Err() != nil {
					results <- result{branch: branch, err: ctx.Err()}
					continue
				}
				row, err := s.branchOverview(branch, params)
				results <- result{branch: branch, row: row, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	rows := make([]model.BranchOverview, 0, total)
	completed := 0
	for res := range results {
		select {
		case <-ctx.Done():
			log.Printf("[WARN] overview run %s cancelled after %d/%d branches", runID, completed, total)
			return nil, ctx.Err()
		default:
		}

		completed++
		if res.err != nil {
			log.Printf("[WARN] overview run %s: skipping %s: %v", runID, res.branch, res.err)
		} else {
			rows = append(rows, *res.row)
		}
		if emit != nil {
			emit(model.Progress{
				Current: completed,
				Total:   total,
				Branch:  res.branch,
				Percent: progressPercent(completed, total),
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ReturnPct != rows[j].ReturnPct {
			return rows[i].ReturnPct > rows[j].ReturnPct
		}
		return rows[i].Branch < rows[j].Branch
	})
	log.Printf("[INFO] overview run %s: finished, %d rows", runID, len(rows))
	return rows, nil
}

// branchOverview runs the pipeline for one branch and condenses the result
// into a single table row. Branches that never trade still get a row.
func (s *Service) branchOverview(branch string, params model.AnalysisParams) (*model.BranchOverview, error) {
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

	row := &model.BranchOverview{
		Ticker:       store.ExtractTicker(branch),
		Branch:       branch,
		Period:       "N/A",
		ReturnPct:    perf.TotalReturn,
		WinRate:      perf.WinRate,
		MaxDrawdown:  perf.MaxDrawdown,
		Trades:       perf.NumTrades,
		Sharpe:       perf.SharpeRatio,
		TimeInMarket: perf.TimeInMarket,
	}
	if len(trades) > 0 {
		first := trades[0].EntryDate
		last := trades[len(trades)-1].ExitDate
		row.Period = fmt.Sprintf("%s to %s", first, last)
		years := float64(first.DaysUntil(last)) / daysPerYear
		row.CAGR = metrics.CAGR(perf.TotalReturn, years)
	}
	return row, nil
}

func progressPercent(current, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(current) / float64(total) * 100))
}
