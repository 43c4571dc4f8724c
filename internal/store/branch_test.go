package store

import "testing"

func TestExtractTicker(t *testing.T) {
	tests := []struct {
		branch string
		want   string
	}{
		{"14D_RSI_AAPL_LT30_daily_trade_log", "AAPL"},
		{"10D_RSI_AOR_GT53_daily_trade_log", "AOR"},
		{"5D_RSI_BRK_B_LT25_daily_trade_log", "BRK_B"},
		{"not_a_branch_name", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractTicker(tt.branch); got != tt.want {
			t.Errorf("ExtractTicker(%q): expected %q, got %q", tt.branch, tt.want, got)
		}
	}
}

func TestExtractRSIThreshold(t *testing.T) {
	tests := []struct {
		branch string
		want   float64
	}{
		{"14D_RSI_AAPL_LT30_daily_trade_log", 30},
		{"10D_RSI_AOR_GT53_daily_trade_log", 53},
		{"garbled", 30},
	}
	for _, tt := range tests {
		if got := ExtractRSIThreshold(tt.branch); got != tt.want {
			t.Errorf("ExtractRSIThreshold(%q): expected %v, got %v", tt.branch, tt.want, got)
		}
	}
}

func TestMemoryStore_BranchFilter(t *testing.T) {
	m := NewMemoryStore()
	m.Triggers["14D_RSI_AAPL_LT30_daily_trade_log"] = nil
	m.Triggers["10D_RSI_SPY_GT50_daily_trade_log"] = nil
	m.Triggers["5D_RSI_AAPL_GT70_daily_trade_log"] = nil

	all, err := m.Branches("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 branches, got %d", len(all))
	}

	aapl, _ := m.Branches("AAPL")
	if len(aapl) != 2 {
		t.Errorf("expected 2 AAPL branches, got %d", len(aapl))
	}
	for i := 1; i < len(aapl); i++ {
		if aapl[i-1] >= aapl[i] {
			t.Errorf("branches not sorted: %v", aapl)
		}
	}
}
