// Package config defines the data structures related to configuration and
// includes functions for loading and parsing a scenario file.
package config

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/iwvelando/gibill-forecast/pkg/benefits"
	"github.com/iwvelando/gibill-forecast/pkg/cashflow"
	"github.com/iwvelando/gibill-forecast/pkg/constants"
	"github.com/iwvelando/gibill-forecast/pkg/datetime"
	"github.com/iwvelando/gibill-forecast/pkg/validation"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DateLayout is the format expected for dates in scenario files.
const DateLayout = constants.DateLayout

// Configuration holds one complete planning scenario.
type Configuration struct {
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`
	Rates    *RatesConfig   `yaml:"rates,omitempty"`
	MHA      MHAConfig      `yaml:"mha,omitempty"`
	Benefits BenefitsConfig `yaml:"benefits"`
	Forecast WindowConfig   `yaml:"forecast"`
	Income   IncomeConfig   `yaml:"income"`
	Expenses ExpensesConfig `yaml:"expenses"`
	Terms    []TermConfig   `yaml:"terms,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, table
}

// RatesConfig mirrors benefits.AnnualRates. Omitting the block uses the
// built-in demo rates.
type RatesConfig struct {
	YearLabel                    string  `yaml:"yearLabel"`
	PrivateForeignTuitionCapYear float64 `yaml:"privateForeignTuitionCapYear"`
	BooksCapYear                 float64 `yaml:"booksCapYear"`
	PerCreditBooksFull           float64 `yaml:"perCreditBooksFull"`
	TermsPerYear                 int     `yaml:"termsPerYear"`
}

// MHAConfig is the ZIP -> full MHA table.
type MHAConfig struct {
	Default float64            `yaml:"default,omitempty"`
	ZIPs    map[string]float64 `yaml:"zips,omitempty"`
}

// BenefitsConfig describes the veteran's term. An empty RateOfPursuit is
// derived from the term schedule.
type BenefitsConfig struct {
	GIPercentage    int      `yaml:"giPercentage"`
	SchoolZIP       string   `yaml:"schoolZip"`
	SchoolType      string   `yaml:"schoolType"`
	RateOfPursuit   string   `yaml:"rateOfPursuit,omitempty"`
	CreditsThisTerm int      `yaml:"creditsThisTerm"`
	TuitionThisTerm float64  `yaml:"tuitionThisTerm"`
	FullMHAOverride *float64 `yaml:"fullMHAOverride,omitempty"`
}

// WindowConfig bounds the forecast. An empty StartDate means today and an
// empty EndDate means one year after the start.
type WindowConfig struct {
	StartDate       string    `yaml:"startDate,omitempty"`
	EndDate         string    `yaml:"endDate,omitempty"`
	StartingBalance float64   `yaml:"startingBalance"`
	Start           time.Time `yaml:"-"`
	End             time.Time `yaml:"-"`
}

// IncomeConfig holds flat monthly income besides housing.
type IncomeConfig struct {
	Disability float64 `yaml:"disability"`
	Other      float64 `yaml:"other"`
}

// ExpensesConfig holds flat monthly expenses.
type ExpensesConfig struct {
	Fixed    float64 `yaml:"fixed"`
	Variable float64 `yaml:"variable"`
}

// TermConfig is one entry of the term schedule.
type TermConfig struct {
	Name      string    `yaml:"name"`
	Enabled   *bool     `yaml:"enabled,omitempty"`
	StartDate string    `yaml:"startDate"`
	EndDate   string    `yaml:"endDate"`
	Intensity string    `yaml:"intensity,omitempty"`
	Start     time.Time `yaml:"-"`
	End       time.Time `yaml:"-"`
}

// IsEnabled reports whether the term takes part in the forecast. Terms are
// enabled unless switched off explicitly.
func (t TermConfig) IsEnabled() bool {
	return t.Enabled == nil || *t.Enabled
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults double as the set of keys that environment variables may override.
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("output.format", "")
	v.SetDefault("mha.default", constants.DefaultFullMHA)
	v.SetDefault("benefits.giPercentage", 100)
	v.SetDefault("benefits.schoolZip", "")
	v.SetDefault("benefits.schoolType", "public_in_state")
	v.SetDefault("benefits.rateOfPursuit", "")
	v.SetDefault("benefits.creditsThisTerm", 12)
	v.SetDefault("benefits.tuitionThisTerm", 0.0)
	v.SetDefault("forecast.startDate", "")
	v.SetDefault("forecast.endDate", "")
	v.SetDefault("forecast.startingBalance", 0.0)
	v.SetDefault("income.disability", 0.0)
	v.SetDefault("income.other", 0.0)
	v.SetDefault("expenses.fixed", 0.0)
	v.SetDefault("expenses.variable", 0.0)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// scenario there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted scenario from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	err := v.Unmarshal(&configuration, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		timeToDateStringHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// timeToDateStringHook turns unquoted YAML dates, which the YAML decoder
// yields as time.Time, back into the string form the scenario fields expect.
func timeToDateStringHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to.Kind() != reflect.String {
			return data, nil
		}
		if t, ok := data.(time.Time); ok {
			return t.Format(DateLayout), nil
		}
		return data, nil
	}
}

// ParseDates parses the forecast window and term dates, resolving an
// empty start date to today.
func (conf *Configuration) ParseDates() error {
	return conf.ParseDatesWithFixedTime(time.Now())
}

// ParseDatesWithFixedTime parses all dates in the configuration using a fixed
// "today" for testing.
func (conf *Configuration) ParseDatesWithFixedTime(fixedTime time.Time) error {
	var err error

	if conf.Forecast.StartDate == "" {
		conf.Forecast.Start = datetime.DateOnly(fixedTime)
	} else {
		conf.Forecast.Start, err = datetime.ParseDate(conf.Forecast.StartDate)
		if err != nil {
			return fmt.Errorf("invalid forecast startDate %q: %w", conf.Forecast.StartDate, err)
		}
	}

	if conf.Forecast.EndDate == "" {
		conf.Forecast.End = conf.Forecast.Start.AddDate(0, 0, 365)
	} else {
		conf.Forecast.End, err = datetime.ParseDate(conf.Forecast.EndDate)
		if err != nil {
			return fmt.Errorf("invalid forecast endDate %q: %w", conf.Forecast.EndDate, err)
		}
	}

	for i := range conf.Terms {
		term := &conf.Terms[i]
		if term.StartDate != "" {
			term.Start, err = datetime.ParseDate(term.StartDate)
			if err != nil {
				return fmt.Errorf("invalid startDate %q for term '%s': %w", term.StartDate, term.Name, err)
			}
		}
		if term.EndDate != "" {
			term.End, err = datetime.ParseDate(term.EndDate)
			if err != nil {
				return fmt.Errorf("invalid endDate %q for term '%s': %w", term.EndDate, term.Name, err)
			}
		}
	}

	return nil
}

// AnnualRates returns the configured rates or the built-in defaults.
func (conf *Configuration) AnnualRates() benefits.AnnualRates {
	if conf.Rates == nil {
		return benefits.DefaultAnnualRates()
	}
	return benefits.AnnualRates{
		YearLabel:                    conf.Rates.YearLabel,
		PrivateForeignTuitionCapYear: conf.Rates.PrivateForeignTuitionCapYear,
		BooksCapYear:                 conf.Rates.BooksCapYear,
		PerCreditBooksFull:           conf.Rates.PerCreditBooksFull,
		TermsPerYear:                 conf.Rates.TermsPerYear,
	}
}

// ExplicitRateOfPursuit returns the configured rate of pursuit, if any.
func (conf *Configuration) ExplicitRateOfPursuit() (benefits.RateOfPursuit, bool, error) {
	if strings.TrimSpace(conf.Benefits.RateOfPursuit) == "" {
		return benefits.FullTime, false, nil
	}
	rop, err := benefits.ParseRateOfPursuit(conf.Benefits.RateOfPursuit)
	if err != nil {
		return benefits.FullTime, false, err
	}
	return rop, true, nil
}

// Profile builds the benefit profile for the given rate of pursuit.
func (conf *Configuration) Profile(rop benefits.RateOfPursuit) (benefits.Profile, error) {
	schoolType, err := benefits.ParseSchoolType(conf.Benefits.SchoolType)
	if err != nil {
		return benefits.Profile{}, err
	}
	return benefits.Profile{
		GIPercentage:    conf.Benefits.GIPercentage,
		SchoolZIP:       conf.Benefits.SchoolZIP,
		SchoolType:      schoolType,
		RateOfPursuit:   rop,
		CreditsThisTerm: conf.Benefits.CreditsThisTerm,
		TuitionThisTerm: conf.Benefits.TuitionThisTerm,
	}, nil
}

// ScheduledTerms converts the enabled terms into the forecaster's form.
// ParseDates must have been called first.
func (conf *Configuration) ScheduledTerms() ([]cashflow.Term, error) {
	var terms []cashflow.Term
	for _, term := range conf.Terms {
		if !term.IsEnabled() {
			continue
		}
		intensity, err := cashflow.ParseIntensity(term.Intensity)
		if err != nil {
			return nil, fmt.Errorf("term '%s': %w", term.Name, err)
		}
		terms = append(terms, cashflow.Term{
			Name:      term.Name,
			Start:     term.Start,
			End:       term.End,
			Intensity: intensity,
		})
	}
	return terms, nil
}

// CashflowInputs assembles the forecaster inputs around the given base
// monthly housing. ParseDates must have been called first.
func (conf *Configuration) CashflowInputs(baseMonthlyHousing float64) (cashflow.Inputs, error) {
	terms, err := conf.ScheduledTerms()
	if err != nil {
		return cashflow.Inputs{}, err
	}
	return cashflow.Inputs{
		Start:              conf.Forecast.Start,
		End:                conf.Forecast.End,
		StartingBalance:    conf.Forecast.StartingBalance,
		BaseMonthlyHousing: baseMonthlyHousing,
		DisabilityMonthly:  conf.Income.Disability,
		OtherIncomeMonthly: conf.Income.Other,
		FixedExpenses:      conf.Expenses.Fixed,
		VariableExpenses:   conf.Expenses.Variable,
		Terms:              terms,
	}, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Dates that do not parse are skipped here; ParseDates
// reports them as errors.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	warnings = append(warnings, validation.ValidateGIPercentage(conf.Benefits.GIPercentage)...)

	start, end := conf.Forecast.Start, conf.Forecast.End
	if start.IsZero() || end.IsZero() {
		var startErr, endErr error
		start, startErr = datetime.ParseDate(conf.Forecast.StartDate)
		end, endErr = datetime.ParseDate(conf.Forecast.EndDate)
		if startErr != nil || endErr != nil {
			start, end = time.Time{}, time.Time{}
		}
	}
	warnings = append(warnings, validation.ValidateWindow(start, end)...)

	var windows []validation.TermWindow
	for _, term := range conf.Terms {
		if !term.IsEnabled() {
			continue
		}
		termStart, err := datetime.ParseDate(term.StartDate)
		if err != nil {
			continue
		}
		termEnd, err := datetime.ParseDate(term.EndDate)
		if err != nil {
			continue
		}
		windows = append(windows, validation.TermWindow{Name: term.Name, Start: termStart, End: termEnd})
	}
	warnings = append(warnings, validation.ValidateTerms(windows, start, end)...)

	if conf.Rates == nil {
		warnings = append(warnings, fmt.Sprintf("No rates block; using built-in %s demo rates", benefits.DefaultAnnualRates().YearLabel))
	}

	return warnings
}
