// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/gibill-forecast/internal/forecast"
	"github.com/iwvelando/gibill-forecast/pkg/benefits"
	"github.com/iwvelando/gibill-forecast/pkg/datetime"
	"github.com/iwvelando/gibill-forecast/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EstimateText writes the benefit estimate block.
func EstimateText(w io.Writer, profile benefits.Profile, estimate benefits.Estimate) {
	fmt.Fprintf(w, "=== Veteran Education Readiness - Estimate ===\n")
	fmt.Fprintf(w, "GI %%: %d%%\n", profile.GIPercentage)
	fmt.Fprintf(w, "School ZIP: %s\n", profile.SchoolZIP)
	fmt.Fprintf(w, "School type: %s\n", profile.SchoolType)
	fmt.Fprintf(w, "Rate of pursuit: %s\n", profile.RateOfPursuit)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Estimated monthly housing:       $%.2f\n", estimate.MonthlyHousing)
	fmt.Fprintf(w, "Estimated books for this term:   $%.2f\n", estimate.BooksForTerm)
	fmt.Fprintf(w, "Tuition covered this term:       $%.2f\n", estimate.TuitionCovered)
	fmt.Fprintf(w, "Tuition out of pocket this term: $%.2f\n", estimate.TuitionOutOfPocket)
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, result *forecast.Result) {
	p := message.NewPrinter(language.English)

	EstimateText(w, result.Profile, result.Estimate)
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "--- Cashflow %s to %s ---\n",
		result.Start.Format(datetime.DateLayout), result.End.Format(datetime.DateLayout))
	fmt.Fprintf(w, "Month   | Enrollment           | Housing     | Income      | Expenses    | Net         | Balance\n")
	fmt.Fprintf(w, "_____   | __________           | _______     | ______      | ________    | ___         | _______\n")
	for _, s := range result.Snapshots {
		_, _ = p.Fprintf(w, "%s | %-20s | $%10.2f | $%10.2f | $%10.2f | %11s | %s\n",
			s.Month.Format(datetime.MonthLayout), s.Enrollment,
			s.Housing, s.TotalIncome, s.TotalExpenses,
			format.Currency(s.NetCash), format.Currency(s.Balance))
	}

	fmt.Fprintf(w, "\n")
	writeSummary(w, result)
}

func writeSummary(w io.Writer, result *forecast.Result) {
	summary := result.Summary
	fmt.Fprintf(w, "Final balance: %s\n", format.Currency(summary.FinalBalance))
	fmt.Fprintf(w, "Lowest balance: %s\n", format.Currency(summary.MinBalance))
	if summary.FirstNegative != nil {
		fmt.Fprintf(w, "Balance goes negative in %s (runway %d months)\n",
			format.Month(*summary.FirstNegative), summary.RunwayMonths)
	} else {
		fmt.Fprintf(w, "Balance stays non-negative for all %d months\n", summary.Months)
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, result *forecast.Result) {
	_, _ = io.WriteString(w, CsvString(result))
}

// CsvString returns the snapshots in comma-separated value format.
func CsvString(result *forecast.Result) string {
	var b strings.Builder
	b.WriteString(`"month","enrollment","housing","disability","other income","total income",`)
	b.WriteString(`"fixed expenses","variable expenses","total expenses","net cash","balance"`)
	b.WriteString("\n")
	for _, s := range result.Snapshots {
		fmt.Fprintf(&b, `"%s","%s"`, s.Month.Format(datetime.MonthLayout), csvEscape(s.Enrollment))
		for _, amount := range []float64{
			s.Housing, s.Disability, s.OtherIncome, s.TotalIncome,
			s.FixedExpenses, s.VariableExpenses, s.TotalExpenses,
			s.NetCash, s.Balance,
		} {
			fmt.Fprintf(&b, `,"%.2f"`, amount)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func csvEscape(value string) string {
	return strings.ReplaceAll(value, `"`, `""`)
}
