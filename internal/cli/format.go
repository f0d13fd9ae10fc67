// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"time"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount with two decimals, colored by sign.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.IsNegative() {
		return negativeStyle.Render(s)
	}
	return positiveStyle.Render(s)
}

// FormatOptionalAmount renders an unknown (nil) amount as "unknown".
func FormatOptionalAmount(d *decimal.Decimal) string {
	if d == nil {
		return mutedStyle.Render("unknown")
	}
	return FormatAmount(*d)
}

// FormatDate formats a calendar day as YYYY-MM-DD, or "never" when nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return mutedStyle.Render("never")
	}
	return t.Format("2006-01-02")
}

// FormatDayOfWeek returns the three-letter day abbreviation.
func FormatDayOfWeek(t time.Time) string {
	return t.Weekday().String()[:3]
}
