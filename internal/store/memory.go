package store

import (
	"fmt"
	"sort"

	"SlopeLab/internal/model"
)

// MemoryStore is an in-memory Store for tests and development.
type MemoryStore struct {
	Prices   map[string][]model.PriceBar
	Triggers map[string][]model.TriggerPoint
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Prices:   make(map[string][]model.PriceBar),
		Triggers: make(map[string][]model.TriggerPoint),
	}
}

func (m *MemoryStore) Tickers() ([]string, error) {
	tickers := make([]string, 0, len(m.Prices))
	for t := range m.Prices {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers, nil
}

func (m *MemoryStore) Branches(ticker string) ([]string, error) {
	branches := make([]string, 0, len(m.Triggers))
	for b := range m.Triggers {
		if ticker == "" || ExtractTicker(b) == ticker {
			branches = append(branches, b)
		}
	}
	sort.Strings(branches)
	return branches, nil
}

func (m *MemoryStore) PriceSeries(ticker string) ([]model.PriceBar, error) {
	bars, ok := m.Prices[ticker]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrTickerNotFound, ticker)
	}
	return bars, nil
}

func (m *MemoryStore) TriggerSeries(branch string) ([]model.TriggerPoint, error) {
	points, ok := m.Triggers[branch]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrBranchNotFound, branch)
	}
	return points, nil
}
