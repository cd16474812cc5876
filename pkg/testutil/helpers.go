// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/gibill-forecast/pkg/cashflow"
	"github.com/iwvelando/gibill-forecast/pkg/constants"
	"github.com/iwvelando/gibill-forecast/pkg/datetime"
	"github.com/iwvelando/gibill-forecast/pkg/mathutil"
)

// FindSnapshot finds the snapshot for a month given as "2006-01".
// Returns nil if no snapshot covers that month.
func FindSnapshot(snapshots []cashflow.Snapshot, month string) *cashflow.Snapshot {
	for i := range snapshots {
		if snapshots[i].Month.Format(datetime.MonthLayout) == month {
			return &snapshots[i]
		}
	}
	return nil
}

// AmountsEqual reports whether two currency amounts match to the cent.
func AmountsEqual(a, b float64) bool {
	return mathutil.WithinTolerance(a, b, constants.CurrencyTolerance/2)
}

// AssertAmount fails the test when got and want differ by a cent or more.
func AssertAmount(t *testing.T, field string, got, want float64) {
	t.Helper()
	if !AmountsEqual(got, want) {
		t.Errorf("%s = %.4f, expected %.2f", field, got, want)
	}
}
