// Package mha resolves the full (100% benefit) monthly housing allowance for
// a school ZIP code. There is no live rate source: amounts come from a table
// supplied in the scenario file, with a default for unknown ZIPs.
package mha

import (
	"strings"

	"go.uber.org/zap"
)

// Lookup returns the full MHA for a ZIP code.
type Lookup interface {
	FullMHA(zip string) float64
}

// Table is a static ZIP -> full MHA lookup.
type Table struct {
	defaultAmount float64
	rates         map[string]float64
	logger        *zap.Logger
}

// NewTable builds a lookup from the configured rates. Amounts are taken as
// given: zero is a real zero-dollar rate and negative amounts are left for the
// estimator to reject. Callers without a configured default pass
// constants.DefaultFullMHA.
func NewTable(logger *zap.Logger, defaultAmount float64, rates map[string]float64) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}

	normalized := make(map[string]float64, len(rates))
	for zip, amount := range rates {
		normalized[NormalizeZIP(zip)] = amount
	}

	return &Table{defaultAmount: defaultAmount, rates: normalized, logger: logger}
}

// FullMHA implements Lookup.
func (t *Table) FullMHA(zip string) float64 {
	key := NormalizeZIP(zip)
	if amount, ok := t.rates[key]; ok {
		t.logger.Debug("MHA table hit",
			zap.String("op", "mha.FullMHA"),
			zap.String("zip", key),
			zap.Float64("amount", amount),
		)
		return amount
	}

	t.logger.Debug("MHA table miss, using default",
		zap.String("op", "mha.FullMHA"),
		zap.String("zip", key),
		zap.Float64("amount", t.defaultAmount),
	)
	return t.defaultAmount
}

// NormalizeZIP trims whitespace and drops a ZIP+4 suffix.
func NormalizeZIP(zip string) string {
	trimmed := strings.TrimSpace(zip)
	if idx := strings.IndexByte(trimmed, '-'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if len(trimmed) > 5 {
		trimmed = trimmed[:5]
	}
	return trimmed
}

// Resolve returns override when set, otherwise the lookup's amount for zip.
func Resolve(lookup Lookup, zip string, override *float64) float64 {
	if override != nil {
		return *override
	}
	return lookup.FullMHA(zip)
}
