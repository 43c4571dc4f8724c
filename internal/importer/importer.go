// Package importer loads the offline data drop into the store: one branch
// definition file plus one OHLCV CSV per ticker. RSI trigger streams are
// recomputed from the price data on every import.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"SlopeLab/internal/calculator"
	"SlopeLab/internal/model"
)

// Writer is the store-side write path the importer needs.
type Writer interface {
	ReplacePriceSeries(ticker string, bars []model.PriceBar) error
	ReplaceTriggerSeries(branch, ticker string, points []model.TriggerPoint) error
}

// BranchDef is one row of the branch definition file: which ticker to watch,
// the RSI lookback window, and the trigger condition.
type BranchDef struct {
	Window    int
	Ticker    string
	Direction string // "LT" or "GT"
	Threshold float64
}

// BranchID renders the canonical branch id for this definition.
func (d BranchDef) BranchID() string {
	return fmt.Sprintf("%dD_RSI_%s_%s%.0f_daily_trade_log", d.Window, d.Ticker, d.Direction, d.Threshold)
}

// Importer reads the data directory and writes price and trigger series.
type Importer struct {
	store Writer
}

// New creates an Importer writing into the given store.
func New(st Writer) *Importer {
	return &Importer{store: st}
}

// Run imports everything under dataDir: branches.csv for the definitions and
// prices/{TICKER}.csv for each referenced ticker.
func (im *Importer) Run(dataDir string) error {
	defs, err := LoadBranchDefs(filepath.Join(dataDir, "branches.csv"))
	if err != nil {
		return err
	}
	log.Printf("[INFO] import: %d branch definitions", len(defs))

	barsByTicker := make(map[string][]model.PriceBar)
	for _, def := range defs {
		if _, ok := barsByTicker[def.Ticker]; ok {
			continue
		}
		bars, err := LoadPriceCSV(filepath.Join(dataDir, "prices", def.Ticker+".csv"))
		if err != nil {
			return fmt.Errorf("ticker %s: %w", def.Ticker, err)
		}
		if err := im.store.ReplacePriceSeries(def.Ticker, bars); err != nil {
			return err
		}
		barsByTicker[def.Ticker] = bars
		log.Printf("[INFO] import: %s, %d bars", def.Ticker, len(bars))
	}

	for _, def := range defs {
		points, err := BuildTriggers(def, barsByTicker[def.Ticker])
		if err != nil {
			return fmt.Errorf("branch %s: %w", def.BranchID(), err)
		}
		if err := im.store.ReplaceTriggerSeries(def.BranchID(), def.Ticker, points); err != nil {
			return err
		}
		log.Printf("[INFO] import: %s, %d trigger points", def.BranchID(), len(points))
	}
	return nil
}

// LoadBranchDefs parses the branch definition CSV. Expected header:
// window,ticker,direction,threshold.
func LoadBranchDefs(path string) ([]BranchDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open branch defs: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return nil, fmt.Errorf("read branch defs header: %w", err)
	}

	var defs []BranchDef
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read branch def: %w", err)
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("branch def needs 4 fields, got %d", len(rec))
		}

		window, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil || window < 2 {
			return nil, fmt.Errorf("bad rsi window %q", rec[0])
		}
		direction := strings.ToUpper(strings.TrimSpace(rec[2]))
		if direction != "LT" && direction != "GT" {
			return nil, fmt.Errorf("bad direction %q", rec[2])
		}
		threshold, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad threshold %q", rec[3])
		}

		defs = append(defs, BranchDef{
			Window:    window,
			Ticker:    strings.ToUpper(strings.TrimSpace(rec[1])),
			Direction: direction,
			Threshold: threshold,
		})
	}
	return defs, nil
}

// LoadPriceCSV parses one ticker's OHLCV file. Expected header:
// date,open,high,low,close,volume. Rows must be in ascending date order.
func LoadPriceCSV(path string) ([]model.PriceBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prices: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return nil, fmt.Errorf("read prices header: %w", err)
	}

	var bars []model.PriceBar
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read price row: %w", err)
		}
		if len(rec) < 6 {
			return nil, fmt.Errorf("price row needs 6 fields, got %d", len(rec))
		}

		var bar model.PriceBar
		if bar.Date, err = model.ParseDate(strings.TrimSpace(rec[0])); err != nil {
			return nil, err
		}
		fields := []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume}
		for i, dst := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("bad value %q in %s row %s", rec[i+1], path, rec[0])
			}
			*dst = v
		}

		if n := len(bars); n > 0 && !bars[n-1].Date.Before(bar.Date.Time) {
			return nil, fmt.Errorf("prices out of order at %s", bar.Date)
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no price rows in %s", path)
	}
	return bars, nil
}

// BuildTriggers computes the RSI trigger stream for one branch definition.
// Rows in the RSI warm-up period carry no value and are dropped.
func BuildTriggers(def BranchDef, bars []model.PriceBar) ([]model.TriggerPoint, error) {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	rsi, err := calculator.RSISeries(closes, def.Window)
	if err != nil {
		return nil, err
	}

	var points []model.TriggerPoint
	for i, b := range bars {
		if math.IsNaN(rsi[i]) {
			continue
		}
		active := rsi[i] < def.Threshold
		if def.Direction == "GT" {
			active = rsi[i] > def.Threshold
		}
		points = append(points, model.TriggerPoint{Date: b.Date, RSI: rsi[i], Active: active})
	}
	return points, nil
}
