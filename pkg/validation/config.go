package validation

import (
	"fmt"
	"time"

	"github.com/iwvelando/gibill-forecast/pkg/constants"
	"github.com/iwvelando/gibill-forecast/pkg/datetime"
)

// UIPercentages are the GI Bill tiers offered by the entitlement tables.
var UIPercentages = []int{40, 50, 60, 70, 80, 90, 100}

// TermWindow is the subset of a term needed for schedule checks.
type TermWindow struct {
	Name  string
	Start time.Time
	End   time.Time
}

// ValidateWindow warns about forecast windows longer than the planning tool
// is tuned for. Hard errors (inverted or oversized windows) are left to the
// forecaster.
func ValidateWindow(start, end time.Time) []string {
	var warnings []string
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return warnings
	}
	if days := datetime.DaysBetween(start, end); days > constants.RecommendedWindowDays {
		warnings = append(warnings, fmt.Sprintf("Forecast window is %d days, longer than the recommended %d",
			days, constants.RecommendedWindowDays))
	}
	return warnings
}

// ValidateTerms warns about terms that cannot affect the forecast or may
// surprise the user: terms outside the window, terms whose first month is
// skipped because they start after the 1st, and overlapping terms.
func ValidateTerms(terms []TermWindow, start, end time.Time) []string {
	var warnings []string
	for i, term := range terms {
		if term.Start.IsZero() || term.End.IsZero() {
			continue
		}
		if !start.IsZero() && !end.IsZero() && (term.End.Before(datetime.MonthStart(start)) || term.Start.After(end)) {
			warnings = append(warnings, fmt.Sprintf("Term '%s' (%s to %s) lies outside the forecast window",
				term.Name, term.Start.Format(constants.DateLayout), term.End.Format(constants.DateLayout)))
		}
		if term.Start.Day() != 1 {
			warnings = append(warnings, fmt.Sprintf("Term '%s' starts on %s; housing begins the following month",
				term.Name, term.Start.Format(constants.DateLayout)))
		}
		for _, other := range terms[i+1:] {
			if other.Start.IsZero() || other.End.IsZero() {
				continue
			}
			if !term.Start.After(other.End) && !other.Start.After(term.End) {
				warnings = append(warnings, fmt.Sprintf("Terms '%s' and '%s' overlap; the higher intensity is used",
					term.Name, other.Name))
			}
		}
	}
	return warnings
}

// ValidateGIPercentage warns when the percentage is not one of the published tiers.
func ValidateGIPercentage(percentage int) []string {
	for _, tier := range UIPercentages {
		if percentage == tier {
			return nil
		}
	}
	return []string{fmt.Sprintf("GI Bill percentage %d is not a standard tier %v", percentage, UIPercentages)}
}
