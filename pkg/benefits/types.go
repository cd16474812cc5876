// Package benefits estimates education benefits for a single academic term:
// monthly housing, book stipend and tuition coverage. The figures are
// planning approximations, not a replication of VA payment rules.
package benefits

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfiguration reports unusable annual rates.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidInput reports an out-of-range benefit profile.
	ErrInvalidInput = errors.New("invalid input")
)

// SchoolType selects the tuition coverage formula.
type SchoolType int

const (
	PublicInState SchoolType = iota
	PrivateOrForeign
)

var schoolTypeNames = map[SchoolType]string{
	PublicInState:    "public_in_state",
	PrivateOrForeign: "private_or_foreign",
}

func (s SchoolType) String() string {
	if name, ok := schoolTypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SchoolType(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s SchoolType) MarshalText() ([]byte, error) {
	name, ok := schoolTypeNames[s]
	if !ok {
		return nil, fmt.Errorf("%w: unknown school type %d", ErrInvalidInput, int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SchoolType) UnmarshalText(text []byte) error {
	parsed, err := ParseSchoolType(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSchoolType accepts the snake_case names; an empty string means public in-state.
func ParseSchoolType(value string) (SchoolType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return PublicInState, nil
	}
	for st, name := range schoolTypeNames {
		if name == normalized {
			return st, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown school type %q", ErrInvalidInput, value)
}

// RateOfPursuit is the enrollment intensity classification used for housing.
type RateOfPursuit int

const (
	FullTime RateOfPursuit = iota
	ThreeQuarter
	HalfTime
	LessThanHalf
)

var rateOfPursuitNames = map[RateOfPursuit]string{
	FullTime:     "full_time",
	ThreeQuarter: "three_quarter",
	HalfTime:     "half_time",
	LessThanHalf: "less_than_half",
}

func (r RateOfPursuit) String() string {
	if name, ok := rateOfPursuitNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RateOfPursuit(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r RateOfPursuit) MarshalText() ([]byte, error) {
	name, ok := rateOfPursuitNames[r]
	if !ok {
		return nil, fmt.Errorf("%w: unknown rate of pursuit %d", ErrInvalidInput, int(r))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RateOfPursuit) UnmarshalText(text []byte) error {
	parsed, err := ParseRateOfPursuit(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRateOfPursuit accepts the snake_case names; an empty string means full time.
func ParseRateOfPursuit(value string) (RateOfPursuit, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return FullTime, nil
	}
	for rop, name := range rateOfPursuitNames {
		if name == normalized {
			return rop, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rate of pursuit %q", ErrInvalidInput, value)
}

// Multiplier returns the housing multiplier for the rate of pursuit.
// Under half time is treated as receiving no housing at all.
func (r RateOfPursuit) Multiplier() float64 {
	switch r {
	case FullTime:
		return 1.0
	case ThreeQuarter:
		return 0.75
	case HalfTime:
		return 0.5
	default:
		return 0.0
	}
}

// Profile describes one veteran's scenario for a single term.
type Profile struct {
	GIPercentage    int           `json:"giPercentage" yaml:"giPercentage"`
	SchoolZIP       string        `json:"schoolZip" yaml:"schoolZip"`
	SchoolType      SchoolType    `json:"schoolType" yaml:"schoolType"`
	RateOfPursuit   RateOfPursuit `json:"rateOfPursuit" yaml:"rateOfPursuit"`
	CreditsThisTerm int           `json:"creditsThisTerm" yaml:"creditsThisTerm"`
	TuitionThisTerm float64       `json:"tuitionThisTerm" yaml:"tuitionThisTerm"`
}

// AnnualRates holds the year-level reference constants shared by every veteran.
type AnnualRates struct {
	YearLabel                    string  `json:"yearLabel" yaml:"yearLabel"`
	PrivateForeignTuitionCapYear float64 `json:"privateForeignTuitionCapYear" yaml:"privateForeignTuitionCapYear"`
	BooksCapYear                 float64 `json:"booksCapYear" yaml:"booksCapYear"`
	PerCreditBooksFull           float64 `json:"perCreditBooksFull" yaml:"perCreditBooksFull"`
	TermsPerYear                 int     `json:"termsPerYear" yaml:"termsPerYear"`
}

// DefaultAnnualRates returns the demo rates for the 2025-2026 academic year.
// Tweak these to match the published tables.
func DefaultAnnualRates() AnnualRates {
	return AnnualRates{
		YearLabel:                    "2025-2026",
		PrivateForeignTuitionCapYear: 29000.0,
		BooksCapYear:                 1000.0,
		PerCreditBooksFull:           41.67,
		TermsPerYear:                 2,
	}
}

// Estimate is the set of benefit figures for one term, rounded to cents.
type Estimate struct {
	MonthlyHousing     float64 `json:"monthlyHousing"`
	BooksForTerm       float64 `json:"booksForTerm"`
	TuitionCovered     float64 `json:"tuitionCovered"`
	TuitionOutOfPocket float64 `json:"tuitionOutOfPocket"`
}

// TuitionCoverage splits the billed tuition into covered and out-of-pocket parts.
type TuitionCoverage struct {
	Covered     float64 `json:"covered"`
	OutOfPocket float64 `json:"outOfPocket"`
}
