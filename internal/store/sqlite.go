package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"SlopeLab/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore serves price and trigger series from a SQLite database with a
// read-through in-memory cache. The importer writes the tables; the server
// only reads them.
type SQLiteStore struct {
	db *sql.DB

	mu       sync.RWMutex
	prices   map[string][]model.PriceBar
	triggers map[string][]model.TriggerPoint
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the server keeps reading while an import runs.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:       db,
		prices:   make(map[string][]model.PriceBar),
		triggers: make(map[string][]model.TriggerPoint),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prices (
			ticker TEXT NOT NULL,
			date   TEXT NOT NULL,
			open   REAL,
			high   REAL,
			low    REAL,
			close  REAL NOT NULL,
			volume REAL,
			PRIMARY KEY (ticker, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_ticker ON prices(ticker)`,

		`CREATE TABLE IF NOT EXISTS triggers (
			branch TEXT NOT NULL,
			ticker TEXT NOT NULL,
			date   TEXT NOT NULL,
			rsi    REAL,
			active INTEGER NOT NULL,
			PRIMARY KEY (branch, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_triggers_branch ON triggers(branch)`,
		`CREATE INDEX IF NOT EXISTS idx_triggers_ticker ON triggers(ticker)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Tickers lists all tickers with price data, sorted.
func (s *SQLiteStore) Tickers() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT ticker FROM prices ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("query tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// Branches lists branch ids, sorted, optionally filtered by ticker.
func (s *SQLiteStore) Branches(ticker string) ([]string, error) {
	query := `SELECT DISTINCT branch FROM triggers ORDER BY branch`
	args := []any{}
	if ticker != "" {
		query = `SELECT DISTINCT branch FROM triggers WHERE ticker = ? ORDER BY branch`
		args = append(args, ticker)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query branches: %w", err)
	}
	defer rows.Close()

	var branches []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

// PriceSeries returns the cached OHLCV series for a ticker, loading it from
// the database on first access.
func (s *SQLiteStore) PriceSeries(ticker string) ([]model.PriceBar, error) {
	s.mu.RLock()
	bars, ok := s.prices[ticker]
	s.mu.RUnlock()
	if ok {
		return bars, nil
	}

	rows, err := s.db.Query(
		`SELECT date, open, high, low, close, volume FROM prices WHERE ticker = ? ORDER BY date`,
		ticker,
	)
	if err != nil {
		return nil, fmt.Errorf("query prices for %s: %w", ticker, err)
	}
	defer rows.Close()

	bars = nil
	for rows.Next() {
		var dateStr string
		var b model.PriceBar
		if err := rows.Scan(&dateStr, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan price bar: %w", err)
		}
		if b.Date, err = model.ParseDate(dateStr); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrTickerNotFound, ticker)
	}

	s.mu.Lock()
	s.prices[ticker] = bars
	s.mu.Unlock()
	return bars, nil
}

// TriggerSeries returns the cached RSI trigger series for a branch, loading
// it from the database on first access.
func (s *SQLiteStore) TriggerSeries(branch string) ([]model.TriggerPoint, error) {
	s.mu.RLock()
	points, ok := s.triggers[branch]
	s.mu.RUnlock()
	if ok {
		return points, nil
	}

	rows, err := s.db.Query(
		`SELECT date, rsi, active FROM triggers WHERE branch = ? ORDER BY date`,
		branch,
	)
	if err != nil {
		return nil, fmt.Errorf("query triggers for %s: %w", branch, err)
	}
	defer rows.Close()

	points = nil
	for rows.Next() {
		var dateStr string
		var active int
		var p model.TriggerPoint
		if err := rows.Scan(&dateStr, &p.RSI, &active); err != nil {
			return nil, fmt.Errorf("scan trigger point: %w", err)
		}
		if p.Date, err = model.ParseDate(dateStr); err != nil {
			return nil, err
		}
		p.Active = active != 0
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrBranchNotFound, branch)
	}

	s.mu.Lock()
	s.triggers[branch] = points
	s.mu.Unlock()
	return points, nil
}

// Refresh drops the in-memory cache so newly imported rows become visible.
func (s *SQLiteStore) Refresh() {
	s.mu.Lock()
	s.prices = make(map[string][]model.PriceBar)
	s.triggers = make(map[string][]model.TriggerPoint)
	s.mu.Unlock()
	log.Println("[INFO] store cache refreshed")
}

// ReplacePriceSeries atomically rewrites the price series for a ticker.
// Import-time write path.
func (s *SQLiteStore) ReplacePriceSeries(ticker string, bars []model.PriceBar) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM prices WHERE ticker = ?`, ticker); err != nil {
		return fmt.Errorf("clear prices for %s: %w", ticker, err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO prices (ticker, date, open, high, low, close, volume) VALUES (?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare price insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(ticker, b.Date.String(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert price %s %s: %w", ticker, b.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit prices for %s: %w", ticker, err)
	}

	s.mu.Lock()
	delete(s.prices, ticker)
	s.mu.Unlock()
	return nil
}

// ReplaceTriggerSeries atomically rewrites the trigger series for a branch.
// Import-time write path.
func (s *SQLiteStore) ReplaceTriggerSeries(branch, ticker string, points []model.TriggerPoint) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM triggers WHERE branch = ?`, branch); err != nil {
		return fmt.Errorf("clear triggers for %s: %w", branch, err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO triggers (branch, ticker, date, rsi, active) VALUES (?,?,?,?,?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare trigger insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		active := 0
		if p.Active {
			active = 1
		}
		if _, err := stmt.Exec(branch, ticker, p.Date.String(), p.RSI, active); err != nil {
			return fmt.Errorf("insert trigger %s %s: %w", branch, p.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit triggers for %s: %w", branch, err)
	}

	s.mu.Lock()
	delete(s.triggers, branch)
	s.mu.Unlock()
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
