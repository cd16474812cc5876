package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/gibill-forecast/internal/forecast"
	"github.com/iwvelando/gibill-forecast/pkg/benefits"
	"github.com/iwvelando/gibill-forecast/pkg/cashflow"
)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func sampleResult() *forecast.Result {
	negative := month(2025, time.February)
	return &forecast.Result{
		Profile: benefits.Profile{
			GIPercentage:    70,
			SchoolZIP:       "92110",
			SchoolType:      benefits.PrivateOrForeign,
			RateOfPursuit:   benefits.FullTime,
			CreditsThisTerm: 12,
			TuitionThisTerm: 20000,
		},
		Rates:   benefits.DefaultAnnualRates(),
		FullMHA: 4000,
		Estimate: benefits.Estimate{
			MonthlyHousing:     2800,
			BooksForTerm:       350.03,
			TuitionCovered:     10472.33,
			TuitionOutOfPocket: 9527.67,
		},
		Start:           time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		End:             time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		StartingBalance: 1000,
		Snapshots: []cashflow.Snapshot{
			{Month: month(2025, time.January), Enrollment: "Not enrolled", FixedExpenses: 500, VariableExpenses: 200, TotalExpenses: 700, NetCash: -700, Balance: 300},
			{Month: month(2025, time.February), Enrollment: "Not enrolled", FixedExpenses: 500, VariableExpenses: 200, TotalExpenses: 700, NetCash: -700, Balance: -400},
			{Month: month(2025, time.March), Enrollment: "Full time (100%)", Housing: 2800, TotalIncome: 2800, FixedExpenses: 500, VariableExpenses: 200, TotalExpenses: 700, NetCash: 2100, Balance: 1700},
		},
		Summary: cashflow.Summary{
			Months:        3,
			FinalBalance:  1700,
			MinBalance:    -400,
			FirstNegative: &negative,
			RunwayMonths:  1,
		},
	}
}

func TestEstimateText(t *testing.T) {
	result := sampleResult()
	var buf bytes.Buffer

	EstimateText(&buf, result.Profile, result.Estimate)
	output := buf.String()

	expected := []string{
		"GI %: 70%",
		"School ZIP: 92110",
		"School type: private_or_foreign",
		"Estimated monthly housing:       $2800.00",
		"Estimated books for this term:   $350.03",
		"Tuition covered this term:       $10472.33",
		"Tuition out of pocket this term: $9527.67",
	}
	for _, line := range expected {
		if !strings.Contains(output, line) {
			t.Errorf("EstimateText missing %q\n%s", line, output)
		}
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, sampleResult())
	output := buf.String()

	tests := []struct {
		name     string
		expected string
	}{
		{"window header", "--- Cashflow 2025-01-15 to 2025-03-10 ---"},
		{"table header", "Month   | Enrollment"},
		{"thousands separator", "2,800.00"},
		{"negative balance", "-$400.00"},
		{"enrollment label", "Full time (100%)"},
		{"final balance", "Final balance: $1,700.00"},
		{"runway", "Balance goes negative in Feb 2025 (runway 1 months)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(output, tt.expected) {
				t.Errorf("PrettyFormat output missing %q\n%s", tt.expected, output)
			}
		})
	}
}

func TestPrettyFormatNeverNegative(t *testing.T) {
	result := sampleResult()
	result.Summary.FirstNegative = nil
	result.Summary.RunwayMonths = 3

	var buf bytes.Buffer
	PrettyFormat(&buf, result)

	if !strings.Contains(buf.String(), "Balance stays non-negative for all 3 months") {
		t.Errorf("PrettyFormat missing non-negative summary\n%s", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	CsvFormat(&buf, sampleResult())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("CsvFormat produced %d lines, expected header plus 3 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"month","enrollment","housing"`) {
		t.Errorf("unexpected header %q", lines[0])
	}

	expected := []string{
		`"2025-01","Not enrolled","0.00","0.00","0.00","0.00","500.00","200.00","700.00","-700.00","300.00"`,
		`"2025-02","Not enrolled","0.00","0.00","0.00","0.00","500.00","200.00","700.00","-700.00","-400.00"`,
		`"2025-03","Full time (100%)","2800.00","0.00","0.00","2800.00","500.00","200.00","700.00","2100.00","1700.00"`,
	}
	for i, row := range expected {
		if lines[i+1] != row {
			t.Errorf("row %d = %s, expected %s", i, lines[i+1], row)
		}
	}
}

func TestCsvStringMatchesCsvFormat(t *testing.T) {
	result := sampleResult()
	expected := CsvString(result)

	var buf bytes.Buffer
	CsvFormat(&buf, result)

	if expected != buf.String() {
		t.Fatalf("CsvString and CsvFormat output mismatch\nCsvString:\n%s\nCsvFormat:\n%s", expected, buf.String())
	}
}

func TestCsvFormatEscapesQuotes(t *testing.T) {
	result := sampleResult()
	result.Snapshots = result.Snapshots[:1]
	result.Snapshots[0].Enrollment = `Term "A"`

	if !strings.Contains(CsvString(result), `"Term ""A"""`) {
		t.Errorf("CsvString did not escape quotes: %s", CsvString(result))
	}
}

func TestCsvFormatEmptyResults(t *testing.T) {
	result := sampleResult()
	result.Snapshots = nil

	lines := strings.Split(strings.TrimSpace(CsvString(result)), "\n")
	if len(lines) != 1 {
		t.Errorf("expected only the header, got %d lines", len(lines))
	}
}
