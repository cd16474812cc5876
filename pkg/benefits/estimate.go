package benefits

import (
	"fmt"
	"math"

	"github.com/iwvelando/gibill-forecast/pkg/mathutil"
)

// Validate checks the annual rates before they are used as divisors or caps.
func (r AnnualRates) Validate() error {
	if r.TermsPerYear <= 0 {
		return fmt.Errorf("%w: termsPerYear must be at least 1, got %d", ErrInvalidConfiguration, r.TermsPerYear)
	}
	if !mathutil.IsValidAmount(r.PrivateForeignTuitionCapYear) {
		return fmt.Errorf("%w: privateForeignTuitionCapYear must be non-negative, got %v", ErrInvalidConfiguration, r.PrivateForeignTuitionCapYear)
	}
	if !mathutil.IsValidAmount(r.BooksCapYear) {
		return fmt.Errorf("%w: booksCapYear must be non-negative, got %v", ErrInvalidConfiguration, r.BooksCapYear)
	}
	if !mathutil.IsValidAmount(r.PerCreditBooksFull) {
		return fmt.Errorf("%w: perCreditBooksFull must be non-negative, got %v", ErrInvalidConfiguration, r.PerCreditBooksFull)
	}
	return nil
}

// Validate checks the profile ranges the formulas rely on.
func (p Profile) Validate() error {
	if p.GIPercentage < 0 || p.GIPercentage > 100 {
		return fmt.Errorf("%w: giPercentage must be within [0,100], got %d", ErrInvalidInput, p.GIPercentage)
	}
	if p.CreditsThisTerm < 0 {
		return fmt.Errorf("%w: creditsThisTerm must be non-negative, got %d", ErrInvalidInput, p.CreditsThisTerm)
	}
	if !mathutil.IsValidAmount(p.TuitionThisTerm) {
		return fmt.Errorf("%w: tuitionThisTerm must be non-negative, got %v", ErrInvalidInput, p.TuitionThisTerm)
	}
	if _, ok := schoolTypeNames[p.SchoolType]; !ok {
		return fmt.Errorf("%w: unknown school type %d", ErrInvalidInput, int(p.SchoolType))
	}
	if _, ok := rateOfPursuitNames[p.RateOfPursuit]; !ok {
		return fmt.Errorf("%w: unknown rate of pursuit %d", ErrInvalidInput, int(p.RateOfPursuit))
	}
	return nil
}

func (p Profile) giMultiplier() float64 {
	return mathutil.Fraction(float64(p.GIPercentage))
}

// MonthlyHousing estimates the monthly housing allowance for the profile.
// fullMHA is the 100% allowance for the school's ZIP; where it came from is
// the caller's concern. The result is not rounded.
func MonthlyHousing(fullMHA float64, p Profile) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if !mathutil.IsValidAmount(fullMHA) {
		return 0, fmt.Errorf("%w: full MHA must be non-negative, got %v", ErrInvalidInput, fullMHA)
	}
	return fullMHA * p.giMultiplier() * p.RateOfPursuit.Multiplier(), nil
}

// BooksForTerm estimates the book stipend: the per-credit rate scaled by
// credits and GI percentage, capped at the per-term share of the annual cap.
// The result is not rounded.
func BooksForTerm(p Profile, rates AnnualRates) (float64, error) {
	if err := rates.Validate(); err != nil {
		return 0, err
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	raw := rates.PerCreditBooksFull * float64(p.CreditsThisTerm) * p.giMultiplier()
	perTermCap := rates.BooksCapYear / float64(rates.TermsPerYear)
	return math.Min(raw, perTermCap), nil
}

// EstimateTuitionCoverage estimates how much of the billed tuition is covered.
// Public in-state tuition is assumed to sit inside the benefit limits, so
// only the GI percentage applies; private and foreign schools are capped at
// the per-term share of the national annual cap. Amounts are rounded to cents.
func EstimateTuitionCoverage(p Profile, rates AnnualRates) (TuitionCoverage, error) {
	if err := rates.Validate(); err != nil {
		return TuitionCoverage{}, err
	}
	if err := p.Validate(); err != nil {
		return TuitionCoverage{}, err
	}

	billed := p.TuitionThisTerm
	var covered float64
	switch p.SchoolType {
	case PublicInState:
		covered = billed * p.giMultiplier()
	case PrivateOrForeign:
		annualCapAtPercent := rates.PrivateForeignTuitionCapYear * p.giMultiplier()
		covered = math.Min(billed, annualCapAtPercent/float64(rates.TermsPerYear))
	}

	return TuitionCoverage{
		Covered:     mathutil.Round(covered),
		OutOfPocket: mathutil.Round(mathutil.NonNegative(billed - covered)),
	}, nil
}

// EstimateTerm returns every benefit estimate for one term. Inputs are
// validated before any arithmetic; failures wrap ErrInvalidConfiguration or
// ErrInvalidInput and no partial estimate is returned.
func EstimateTerm(p Profile, rates AnnualRates, fullMHA float64) (Estimate, error) {
	if err := rates.Validate(); err != nil {
		return Estimate{}, err
	}

	housing, err := MonthlyHousing(fullMHA, p)
	if err != nil {
		return Estimate{}, err
	}
	books, err := BooksForTerm(p, rates)
	if err != nil {
		return Estimate{}, err
	}
	tuition, err := EstimateTuitionCoverage(p, rates)
	if err != nil {
		return Estimate{}, err
	}

	return Estimate{
		MonthlyHousing:     mathutil.Round(housing),
		BooksForTerm:       mathutil.Round(books),
		TuitionCovered:     tuition.Covered,
		TuitionOutOfPocket: tuition.OutOfPocket,
	}, nil
}
