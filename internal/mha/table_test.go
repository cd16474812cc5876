package mha

import (
	"testing"

	"github.com/iwvelando/gibill-forecast/pkg/constants"
	"go.uber.org/zap"
)

func TestTableFullMHA(t *testing.T) {
	table := NewTable(zap.NewNop(), 3500, map[string]float64{
		"92110":   3912,
		" 10027 ": 4620,
	})

	tests := []struct {
		name     string
		zip      string
		expected float64
	}{
		{"Exact ZIP", "92110", 3912},
		{"Configured with whitespace", "10027", 4620},
		{"ZIP plus four", "92110-1234", 3912},
		{"Nine digit ZIP", "921101234", 3912},
		{"Unknown ZIP uses default", "73301", 3500},
		{"Empty ZIP uses default", "", 3500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.FullMHA(tt.zip); got != tt.expected {
				t.Errorf("FullMHA(%q) = %v, expected %v", tt.zip, got, tt.expected)
			}
		})
	}
}

func TestNewTableKeepsConfiguredDefault(t *testing.T) {
	tests := []struct {
		name          string
		defaultAmount float64
	}{
		{"Reference default", constants.DefaultFullMHA},
		{"Zero dollars", 0},
		{"Negative passes through", -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable(nil, tt.defaultAmount, nil)
			if got := table.FullMHA("92111"); got != tt.defaultAmount {
				t.Errorf("FullMHA() = %v, expected %v", got, tt.defaultAmount)
			}
		})
	}
}

func TestResolvePrefersOverride(t *testing.T) {
	table := NewTable(nil, 4000, nil)
	override := 2400.0

	if got := Resolve(table, "92111", &override); got != 2400 {
		t.Errorf("Resolve() with override = %v, expected 2400", got)
	}
	if got := Resolve(table, "92111", nil); got != 4000 {
		t.Errorf("Resolve() without override = %v, expected 4000", got)
	}
}
