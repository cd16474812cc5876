package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	table := Table{
		Title:      "Sample",
		Headers:    []string{"Name", "Amount"},
		RightAlign: []bool{false, true},
		Rows: [][]string{
			{"Housing", "$2,400.00"},
			{"Books", "$500.00"},
		},
	}

	rendered := RenderTable(table)
	for _, expected := range []string{"Sample", "Name", "Amount", "Housing", "$2,400.00", "Books", "╭", "╯"} {
		if !strings.Contains(rendered, expected) {
			t.Errorf("RenderTable output missing %q\n%s", expected, rendered)
		}
	}

	if !strings.Contains(rendered, "   $500.00") {
		t.Errorf("amount column should be right aligned\n%s", rendered)
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(Table{}) = %q, expected empty", got)
	}
}

func TestTableFormat(t *testing.T) {
	var buf bytes.Buffer
	TableFormat(&buf, sampleResult())
	output := buf.String()

	tests := []string{
		"GI Bill Forecast",
		"Benefits",
		"Monthly housing",
		"$2,800.00",
		"Tuition out of pocket",
		"Cashflow",
		"Jan 2025",
		"-$400.00",
		"Final balance:",
		"$1,700",
		"1 months (negative in Feb 2025)",
	}
	for _, expected := range tests {
		if !strings.Contains(output, expected) {
			t.Errorf("TableFormat output missing %q", expected)
		}
	}
}
