package greenops

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//nolint:gochecknoglobals // x/text printers are safe for reuse.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators: 18248 → "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats f with the given precision and thousand separators:
// FormatFloat(1234.567, 2) → "1,234.57".
func FormatFloat(f float64, precision int) string {
	if precision <= 0 {
		return FormatNumber(int64(math.Round(f)))
	}
	return printer.Sprintf(fmt.Sprintf("%%.%df", precision), f)
}

// FormatLbs renders a footprint for display: "1,191.20 lbs CO2".
func FormatLbs(lbs float64) string {
	return FormatFloat(lbs, 2) + " lbs CO2" //nolint:mnd // cents-style precision
}

// FormatLarge abbreviates values at or above a million.
func FormatLarge(n float64) string {
	switch {
	case n >= BillionThreshold:
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	case n >= LargeNumberThreshold:
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	default:
		return FormatNumber(int64(math.Round(n)))
	}
}

func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
