// Package cashflow projects a month-by-month personal cashflow: scheduled
// housing income driven by enrollment terms plus flat monthly income and
// expenses, accumulated into a running balance.
package cashflow

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput reports a malformed forecast request.
var ErrInvalidInput = errors.New("invalid input")

// Intensity is the enrollment intensity of a term.
type Intensity int

const (
	FullTime Intensity = iota
	ThreeQuarter
	HalfTime
	LessThanHalf
)

type intensityInfo struct {
	key        string
	label      string
	multiplier float64
}

var intensities = map[Intensity]intensityInfo{
	FullTime:     {"full_time", "Full time (100%)", 1.0},
	ThreeQuarter: {"three_quarter", "3/4 time (75%)", 0.75},
	HalfTime:     {"half_time", "Half time (50%)", 0.5},
	LessThanHalf: {"less_than_half", "Less than half (25%)", 0.25},
}

// ParseIntensity accepts either the snake_case key or the display label.
func ParseIntensity(value string) (Intensity, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return FullTime, nil
	}
	for intensity, info := range intensities {
		if strings.EqualFold(trimmed, info.key) || strings.EqualFold(trimmed, info.label) {
			return intensity, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown enrollment intensity %q", ErrInvalidInput, value)
}

// Valid reports whether i is one of the known intensities.
func (i Intensity) Valid() bool {
	_, ok := intensities[i]
	return ok
}

// Multiplier is the share of the base monthly housing paid at this intensity.
func (i Intensity) Multiplier() float64 {
	return intensities[i].multiplier
}

// Label is the human-readable enrollment label.
func (i Intensity) Label() string {
	if info, ok := intensities[i]; ok {
		return info.label
	}
	return fmt.Sprintf("Intensity(%d)", int(i))
}

func (i Intensity) String() string {
	if info, ok := intensities[i]; ok {
		return info.key
	}
	return fmt.Sprintf("Intensity(%d)", int(i))
}

// MarshalText implements encoding.TextMarshaler.
func (i Intensity) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("%w: unknown enrollment intensity %d", ErrInvalidInput, int(i))
	}
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Intensity) UnmarshalText(text []byte) error {
	parsed, err := ParseIntensity(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Term is one academic period in the schedule. Start and End are inclusive.
type Term struct {
	Name      string    `json:"name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Intensity Intensity `json:"intensity"`
}

// Contains reports whether date falls within the term.
func (t Term) Contains(date time.Time) bool {
	return !date.Before(t.Start) && !date.After(t.End)
}

// Inputs is everything a forecast run needs. Income and expense figures are
// monthly and constant across the window; only housing follows the schedule.
type Inputs struct {
	Start              time.Time
	End                time.Time
	StartingBalance    float64
	BaseMonthlyHousing float64
	DisabilityMonthly  float64
	OtherIncomeMonthly float64
	FixedExpenses      float64
	VariableExpenses   float64
	Terms              []Term
}

// Snapshot is one month of the projection.
type Snapshot struct {
	Month            time.Time `json:"month"`
	Enrollment       string    `json:"enrollment"`
	Housing          float64   `json:"housing"`
	Disability       float64   `json:"disability"`
	OtherIncome      float64   `json:"otherIncome"`
	TotalIncome      float64   `json:"totalIncome"`
	FixedExpenses    float64   `json:"fixedExpenses"`
	VariableExpenses float64   `json:"variableExpenses"`
	TotalExpenses    float64   `json:"totalExpenses"`
	NetCash          float64   `json:"netCash"`
	Balance          float64   `json:"balance"`
}

// Summary holds statistics derived from a snapshot sequence.
type Summary struct {
	Months        int        `json:"months"`
	FinalBalance  float64    `json:"finalBalance"`
	MinBalance    float64    `json:"minBalance"`
	FirstNegative *time.Time `json:"firstNegative,omitempty"`
	RunwayMonths  int        `json:"runwayMonths"`
}
