package signal

import (
	"errors"
	"math"
	"testing"
	"time"

	"SlopeLab/internal/model"
)

func bars(closes ...float64) []model.PriceBar {
	out := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		out[i] = model.PriceBar{Date: day(i), Close: c}
	}
	return out
}

func TestExtractTrades_ReturnAndHold(t *testing.T) {
	spans := []model.Span{{EntryDate: day(1), ExitDate: day(3), EntryKind: model.EntryRSI}}
	trades, err := ExtractTrades(spans, bars(10, 11, 12, 13, 14))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.EntryPrice != 11 || tr.ExitPrice != 13 {
		t.Errorf("prices: got entry %.2f exit %.2f", tr.EntryPrice, tr.ExitPrice)
	}
	want := (13.0/11.0 - 1) * 100
	if math.Abs(tr.ReturnPct-want) > 1e-9 {
		t.Errorf("return: expected %f, got %f", want, tr.ReturnPct)
	}
	if tr.DaysHeld != 2 {
		t.Errorf("days held: expected 2, got %d", tr.DaysHeld)
	}
}

func TestExtractTrades_MissingPrice(t *testing.T) {
	missing := model.NewDate(2030, time.June, 1)
	spans := []model.Span{{EntryDate: day(0), ExitDate: missing}}
	if _, err := ExtractTrades(spans, bars(10, 11)); !errors.Is(err, model.ErrMissingPrice) {
		t.Errorf("expected ErrMissingPrice, got %v", err)
	}

	spans = []model.Span{{EntryDate: missing, ExitDate: day(1)}}
	if _, err := ExtractTrades(spans, bars(10, 11)); !errors.Is(err, model.ErrMissingPrice) {
		t.Errorf("expected ErrMissingPrice, got %v", err)
	}
}

func TestExtractTrades_Empty(t *testing.T) {
	trades, err := ExtractTrades(nil, bars(10, 11))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("expected no trades, got %d", len(trades))
	}
}
