package cashflow

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/gibill-forecast/pkg/constants"
	"github.com/iwvelando/gibill-forecast/pkg/datetime"
	"github.com/iwvelando/gibill-forecast/pkg/mathutil"
)

// Validate checks the inputs before any month is computed.
func (in Inputs) Validate() error {
	if in.Start.IsZero() || in.End.IsZero() {
		return fmt.Errorf("%w: forecast start and end dates are required", ErrInvalidInput)
	}
	if datetime.DateOnly(in.End).Before(datetime.DateOnly(in.Start)) {
		return fmt.Errorf("%w: forecast end %s precedes start %s", ErrInvalidInput,
			in.End.Format(constants.DateLayout), in.Start.Format(constants.DateLayout))
	}
	if months := datetime.CountMonths(in.Start, in.End); months > constants.MaxForecastMonths {
		return fmt.Errorf("%w: forecast window spans %d months, limit is %d", ErrInvalidInput, months, constants.MaxForecastMonths)
	}

	amounts := []struct {
		name  string
		value float64
	}{
		{"base monthly housing", in.BaseMonthlyHousing},
		{"disability income", in.DisabilityMonthly},
		{"other income", in.OtherIncomeMonthly},
		{"fixed expenses", in.FixedExpenses},
		{"variable expenses", in.VariableExpenses},
	}
	if math.IsNaN(in.StartingBalance) || math.IsInf(in.StartingBalance, 0) {
		return fmt.Errorf("%w: starting balance must be a finite amount, got %v", ErrInvalidInput, in.StartingBalance)
	}
	for _, amount := range amounts {
		if !mathutil.IsValidAmount(amount.value) {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidInput, amount.name, amount.value)
		}
	}

	for _, term := range in.Terms {
		if term.Start.IsZero() || term.End.IsZero() {
			return fmt.Errorf("%w: term %q needs both a start and an end date", ErrInvalidInput, term.Name)
		}
		if datetime.DateOnly(term.End).Before(datetime.DateOnly(term.Start)) {
			return fmt.Errorf("%w: term %q ends before it starts", ErrInvalidInput, term.Name)
		}
		if !term.Intensity.Valid() {
			return fmt.Errorf("%w: term %q has unknown intensity %d", ErrInvalidInput, term.Name, int(term.Intensity))
		}
	}
	return nil
}

// Build produces one snapshot per calendar month whose first day falls in
// [Start, End], ascending. Each month's balance is the previous balance
// (StartingBalance for the first month) plus that month's net cash.
func Build(in Inputs) ([]Snapshot, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	terms := make([]Term, len(in.Terms))
	for i, term := range in.Terms {
		term.Start = datetime.DateOnly(term.Start)
		term.End = datetime.DateOnly(term.End)
		terms[i] = term
	}

	months := datetime.MonthsInWindow(in.Start, in.End)
	snapshots := make([]Snapshot, 0, len(months))
	totalExpenses := in.FixedExpenses + in.VariableExpenses
	balance := in.StartingBalance

	for _, month := range months {
		label := constants.NotEnrolledLabel
		multiplier := 0.0
		if term, ok := ActiveTerm(month, terms); ok {
			label = term.Intensity.Label()
			multiplier = term.Intensity.Multiplier()
		}

		housing := in.BaseMonthlyHousing * multiplier
		totalIncome := housing + in.DisabilityMonthly + in.OtherIncomeMonthly
		net := totalIncome - totalExpenses
		balance += net

		snapshots = append(snapshots, Snapshot{
			Month:            month,
			Enrollment:       label,
			Housing:          housing,
			Disability:       in.DisabilityMonthly,
			OtherIncome:      in.OtherIncomeMonthly,
			TotalIncome:      totalIncome,
			FixedExpenses:    in.FixedExpenses,
			VariableExpenses: in.VariableExpenses,
			TotalExpenses:    totalExpenses,
			NetCash:          net,
			Balance:          balance,
		})
	}

	return snapshots, nil
}

// ActiveTerm returns the highest-intensity term containing date. When
// several terms share the highest multiplier the earliest in the schedule wins.
func ActiveTerm(date time.Time, terms []Term) (Term, bool) {
	var best Term
	found := false
	for _, term := range terms {
		if !term.Contains(date) {
			continue
		}
		if !found || term.Intensity.Multiplier() > best.Intensity.Multiplier() {
			best = term
			found = true
		}
	}
	return best, found
}

// Summarize derives the final balance, lowest balance, the first month with a
// negative balance and the runway (months before the balance goes negative).
// Balances that round to zero cents are not treated as negative.
// An empty sequence yields the zero Summary.
func Summarize(snapshots []Snapshot) Summary {
	if len(snapshots) == 0 {
		return Summary{}
	}

	summary := Summary{
		Months:       len(snapshots),
		FinalBalance: snapshots[len(snapshots)-1].Balance,
		MinBalance:   snapshots[0].Balance,
		RunwayMonths: len(snapshots),
	}
	for i, snapshot := range snapshots {
		if snapshot.Balance < summary.MinBalance {
			summary.MinBalance = snapshot.Balance
		}
		if summary.FirstNegative == nil && mathutil.IsNegative(snapshot.Balance) {
			month := snapshot.Month
			summary.FirstNegative = &month
			summary.RunwayMonths = i
		}
	}
	return summary
}
