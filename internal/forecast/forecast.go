// Package forecast ties a scenario together: it resolves the housing rate,
// runs the benefit estimator and feeds its housing figure into the cashflow
// forecaster.
package forecast

import (
	"fmt"
	"time"

	"github.com/iwvelando/gibill-forecast/internal/config"
	"github.com/iwvelando/gibill-forecast/internal/mha"
	"github.com/iwvelando/gibill-forecast/pkg/benefits"
	"github.com/iwvelando/gibill-forecast/pkg/cashflow"
	"github.com/iwvelando/gibill-forecast/pkg/datetime"
	"go.uber.org/zap"
)

// Result holds everything computed for one scenario.
type Result struct {
	Profile              benefits.Profile     `json:"profile"`
	Rates                benefits.AnnualRates `json:"rates"`
	FullMHA              float64              `json:"fullMHA"`
	RateOfPursuitDerived bool                 `json:"rateOfPursuitDerived"`
	Estimate             benefits.Estimate    `json:"estimate"`
	Start                time.Time            `json:"start"`
	End                  time.Time            `json:"end"`
	StartingBalance      float64              `json:"startingBalance"`
	Snapshots            []cashflow.Snapshot  `json:"snapshots,omitempty"`
	Summary              cashflow.Summary     `json:"summary"`
	Warnings             []string             `json:"warnings,omitempty"`
}

// GetForecast runs the estimator and the forecaster for the scenario.
func GetForecast(logger *zap.Logger, conf *config.Configuration) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	result, err := Estimate(logger, conf)
	if err != nil {
		return nil, err
	}

	inputs, err := conf.CashflowInputs(result.Estimate.MonthlyHousing)
	if err != nil {
		return nil, err
	}

	snapshots, err := cashflow.Build(inputs)
	if err != nil {
		return nil, fmt.Errorf("building forecast: %w", err)
	}
	result.Snapshots = snapshots
	result.Summary = cashflow.Summarize(snapshots)

	logger.Debug("forecast computed",
		zap.String("op", "forecast.GetForecast"),
		zap.Int("months", result.Summary.Months),
		zap.Float64("final_balance", result.Summary.FinalBalance),
		zap.Float64("min_balance", result.Summary.MinBalance),
		zap.Int("runway_months", result.Summary.RunwayMonths),
	)
	if result.Summary.FirstNegative != nil {
		logger.Info("balance goes negative",
			zap.String("op", "forecast.GetForecast"),
			zap.String("month", result.Summary.FirstNegative.Format(datetime.MonthLayout)),
		)
	}

	return result, nil
}

// Estimate runs the benefit estimator alone. The returned Result carries no
// snapshots.
func Estimate(logger *zap.Logger, conf *config.Configuration) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if conf.Forecast.Start.IsZero() {
		if err := conf.ParseDates(); err != nil {
			return nil, err
		}
	}

	rop, explicit, err := conf.ExplicitRateOfPursuit()
	if err != nil {
		return nil, err
	}
	if !explicit {
		terms, err := conf.ScheduledTerms()
		if err != nil {
			return nil, err
		}
		rop = EffectiveRateOfPursuit(conf.Forecast.Start, terms)
		logger.Debug("derived rate of pursuit from term schedule",
			zap.String("op", "forecast.Estimate"),
			zap.Stringer("rate_of_pursuit", rop),
			zap.Int("terms", len(terms)),
		)
	}

	profile, err := conf.Profile(rop)
	if err != nil {
		return nil, err
	}
	rates := conf.AnnualRates()

	table := mha.NewTable(logger, conf.MHA.Default, conf.MHA.ZIPs)
	fullMHA := mha.Resolve(table, profile.SchoolZIP, conf.Benefits.FullMHAOverride)

	estimate, err := benefits.EstimateTerm(profile, rates, fullMHA)
	if err != nil {
		return nil, err
	}

	logger.Debug("benefit estimate computed",
		zap.String("op", "forecast.Estimate"),
		zap.Float64("full_mha", fullMHA),
		zap.Float64("monthly_housing", estimate.MonthlyHousing),
		zap.Float64("books_for_term", estimate.BooksForTerm),
		zap.Float64("tuition_covered", estimate.TuitionCovered),
		zap.Float64("tuition_out_of_pocket", estimate.TuitionOutOfPocket),
	)

	return &Result{
		Profile:              profile,
		Rates:                rates,
		FullMHA:              fullMHA,
		RateOfPursuitDerived: !explicit,
		Estimate:             estimate,
		Start:                conf.Forecast.Start,
		End:                  conf.Forecast.End,
		StartingBalance:      conf.Forecast.StartingBalance,
		Warnings:             conf.ValidateConfiguration(),
	}, nil
}

// EffectiveRateOfPursuit picks the rate of pursuit implied by the schedule.
// Terms active on asOf are preferred; when none are, every term is
// considered. The highest intensity wins and an empty schedule is full time.
func EffectiveRateOfPursuit(asOf time.Time, terms []cashflow.Term) benefits.RateOfPursuit {
	if len(terms) == 0 {
		return benefits.FullTime
	}

	day := datetime.DateOnly(asOf)
	var candidates []cashflow.Term
	for _, term := range terms {
		if !day.Before(datetime.DateOnly(term.Start)) && !day.After(datetime.DateOnly(term.End)) {
			candidates = append(candidates, term)
		}
	}
	if len(candidates) == 0 {
		candidates = terms
	}

	best := 0.0
	for _, term := range candidates {
		if m := term.Intensity.Multiplier(); m > best {
			best = m
		}
	}

	switch {
	case best >= 1.0:
		return benefits.FullTime
	case best >= 0.75:
		return benefits.ThreeQuarter
	case best >= 0.5:
		return benefits.HalfTime
	default:
		return benefits.LessThanHalf
	}
}
