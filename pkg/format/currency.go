// Package format renders amounts and months for people rather than machines.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// WholeCurrency rounds to whole dollars (e.g., "$2,400"), the way summary figures are shown.
func WholeCurrency(amount float64) string {
	rounded := math.Round(amount)
	formatted := strings.TrimSuffix(formatPositiveCurrency(math.Abs(rounded)), ".00")
	if rounded < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Month renders a forecast month as "Jan 2025".
func Month(t time.Time) string {
	return t.Format("Jan 2006")
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
