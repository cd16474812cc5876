package testutil

import (
	"testing"
	"time"

	"github.com/iwvelando/gibill-forecast/pkg/cashflow"
)

func TestFindSnapshot(t *testing.T) {
	snapshots := []cashflow.Snapshot{
		{Month: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), Balance: 1000},
		{Month: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), Balance: 2000},
		{Month: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), Balance: 3000},
	}

	tests := []struct {
		name            string
		month           string
		expectFound     bool
		expectedBalance float64
	}{
		{"First month", "2025-01", true, 1000},
		{"Second month", "2025-02", true, 2000},
		{"Same month next year", "2026-01", true, 3000},
		{"Missing month", "2025-03", false, 0},
		{"Empty month", "", false, 0},
		{"Full date does not match", "2025-01-01", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindSnapshot(snapshots, tt.month)
			if !tt.expectFound {
				if result != nil {
					t.Errorf("FindSnapshot(%q) = %+v, expected nil", tt.month, result)
				}
				return
			}
			if result == nil {
				t.Fatalf("FindSnapshot(%q) returned nil", tt.month)
			}
			if result.Balance != tt.expectedBalance {
				t.Errorf("Balance = %v, expected %v", result.Balance, tt.expectedBalance)
			}
		})
	}
}

func TestFindSnapshotReturnsPointerIntoSlice(t *testing.T) {
	snapshots := []cashflow.Snapshot{{Month: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}}
	FindSnapshot(snapshots, "2025-01").Balance = 42
	if snapshots[0].Balance != 42 {
		t.Errorf("FindSnapshot should return a pointer into the slice")
	}
}

func TestAmountsEqual(t *testing.T) {
	tests := []struct {
		a, b     float64
		expected bool
	}{
		{100, 100, true},
		{100.001, 100, true},
		{100.004, 100, true},
		{100.01, 100, false},
		{-0.001, 0, true},
	}

	for _, tt := range tests {
		if got := AmountsEqual(tt.a, tt.b); got != tt.expected {
			t.Errorf("AmountsEqual(%v, %v) = %t, expected %t", tt.a, tt.b, got, tt.expected)
		}
	}
}
