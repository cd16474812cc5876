package integration

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/iwvelando/gibill-forecast/internal/config"
	"github.com/iwvelando/gibill-forecast/internal/forecast"
	"github.com/iwvelando/gibill-forecast/pkg/benefits"
	"github.com/iwvelando/gibill-forecast/pkg/output"
	"github.com/iwvelando/gibill-forecast/pkg/testutil"
	"go.uber.org/zap"
)

func runScenario(t *testing.T, path string) *forecast.Result {
	t.Helper()
	logger := zap.NewNop()

	// Load and process the configuration exactly as the CLI does
	conf, err := config.LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if err := conf.ParseDates(); err != nil {
		t.Fatalf("ParseDates() error = %v", err)
	}

	result, err := forecast.GetForecast(logger, conf)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	return result
}

// TestMainIntegrationBaseline checks key values of the fixture scenario end to end.
func TestMainIntegrationBaseline(t *testing.T) {
	result := runScenario(t, "../test_config.yaml")

	if result.Profile.RateOfPursuit != benefits.FullTime {
		t.Errorf("RateOfPursuit = %v, expected full_time", result.Profile.RateOfPursuit)
	}
	testutil.AssertAmount(t, "MonthlyHousing", result.Estimate.MonthlyHousing, 2400)
	testutil.AssertAmount(t, "BooksForTerm", result.Estimate.BooksForTerm, 500)
	testutil.AssertAmount(t, "TuitionCovered", result.Estimate.TuitionCovered, 4000)
	testutil.AssertAmount(t, "TuitionOutOfPocket", result.Estimate.TuitionOutOfPocket, 0)

	baselineChecks := []struct {
		month   string
		housing float64
		balance float64
	}{
		{"2025-01", 2400, 1671.23},
		{"2025-03", 2400, 3013.69},
		{"2025-05", 1200, 3156.15},
		{"2025-06", 0, 1427.38},
	}

	for _, check := range baselineChecks {
		t.Run(check.month, func(t *testing.T) {
			snapshot := testutil.FindSnapshot(result.Snapshots, check.month)
			if snapshot == nil {
				t.Fatalf("missing snapshot for %s", check.month)
			}
			testutil.AssertAmount(t, "Housing", snapshot.Housing, check.housing)
			testutil.AssertAmount(t, "Balance", snapshot.Balance, check.balance)
		})
	}

	if testutil.FindSnapshot(result.Snapshots, "2025-07") != nil {
		t.Error("forecast should stop at the window end")
	}
}

// TestBalanceRecurrence verifies balance[i] = balance[i-1] + net[i] across the run.
func TestBalanceRecurrence(t *testing.T) {
	for _, path := range []string{"../test_config.yaml", "../no_terms_config.yaml", "../../config.yaml.example"} {
		t.Run(path, func(t *testing.T) {
			result := runScenario(t, path)
			previous := result.StartingBalance
			for _, s := range result.Snapshots {
				testutil.AssertAmount(t, "TotalIncome", s.TotalIncome, s.Housing+s.Disability+s.OtherIncome)
				testutil.AssertAmount(t, "TotalExpenses", s.TotalExpenses, s.FixedExpenses+s.VariableExpenses)
				testutil.AssertAmount(t, "NetCash", s.NetCash, s.TotalIncome-s.TotalExpenses)
				testutil.AssertAmount(t, "Balance", s.Balance, previous+s.NetCash)
				previous = s.Balance
			}
			testutil.AssertAmount(t, "FinalBalance", result.Summary.FinalBalance, previous)
		})
	}
}

// TestCSVOutputFormat parses the CSV rendering back and checks it against the result.
func TestCSVOutputFormat(t *testing.T) {
	result := runScenario(t, "../no_terms_config.yaml")

	var buf bytes.Buffer
	output.CsvFormat(&buf, result)

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV output does not parse: %v", err)
	}
	if len(records) != len(result.Snapshots)+1 {
		t.Fatalf("expected %d records, got %d", len(result.Snapshots)+1, len(records))
	}
	if records[0][0] != "month" || records[0][len(records[0])-1] != "balance" {
		t.Errorf("unexpected header %v", records[0])
	}

	expectedBalances := []string{"300.00", "-400.00", "-1100.00"}
	for i, expected := range expectedBalances {
		row := records[i+1]
		if row[len(row)-1] != expected {
			t.Errorf("row %d balance = %s, expected %s", i, row[len(row)-1], expected)
		}
		if row[1] != "Not enrolled" {
			t.Errorf("row %d enrollment = %s, expected Not enrolled", i, row[1])
		}
	}
}

// TestPrettyOutputFormat checks the human-readable rendering end to end.
func TestPrettyOutputFormat(t *testing.T) {
	result := runScenario(t, "../no_terms_config.yaml")

	var buf bytes.Buffer
	output.PrettyFormat(&buf, result)
	rendered := buf.String()

	for _, expected := range []string{
		"Estimated monthly housing:       $2400.00",
		"2025-02",
		"-$1,100.00",
		"Balance goes negative in Feb 2025 (runway 1 months)",
	} {
		if !strings.Contains(rendered, expected) {
			t.Errorf("pretty output missing %q", expected)
		}
	}
}

// TestConfigurationValidation runs the example scenario's warnings.
func TestConfigurationValidation(t *testing.T) {
	conf, err := config.LoadConfiguration("../../config.yaml.example")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		t.Logf("warning: %s", warning)
		if strings.Contains(warning, "No rates block") {
			t.Errorf("example scenario should carry its own rates")
		}
	}
}
