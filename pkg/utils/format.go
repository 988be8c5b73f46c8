// Package utils provides formatting helpers for prices, market caps and
// large counts.
package utils

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatPrice formats a price in dollars. Sub-dollar prices keep 4 decimals,
// prices under 100 keep 2, larger prices are grouped (e.g. "$15,000").
func FormatPrice(price float64) string {
	switch {
	case price < 1:
		return fmt.Sprintf("$%.4f", price)
	case price < 100:
		return fmt.Sprintf("$%.2f", price)
	default:
		return "$" + Grouped(price)
	}
}

// FormatMarketCap formats a dollar amount in T/B/M tiers.
// e.g., 2.5e9 → "$2.50B", 999 → "$999"
func FormatMarketCap(marketCap float64) string {
	switch {
	case marketCap >= 1e12:
		return fmt.Sprintf("$%.2fT", marketCap/1e12)
	case marketCap >= 1e9:
		return fmt.Sprintf("$%.2fB", marketCap/1e9)
	case marketCap >= 1e6:
		return fmt.Sprintf("$%.2fM", marketCap/1e6)
	default:
		return "$" + Grouped(marketCap)
	}
}

// FormatNumber formats a large count without a currency symbol.
// e.g., 1500 → "1.50K", 21e6 → "21.00M"
func FormatNumber(num float64) string {
	switch {
	case num >= 1e9:
		return fmt.Sprintf("%.2fB", num/1e9)
	case num >= 1e6:
		return fmt.Sprintf("%.2fM", num/1e6)
	case num >= 1e3:
		return fmt.Sprintf("%.2fK", num/1e3)
	default:
		return Grouped(num)
	}
}

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatChange formats an optional percentage; unknown renders as "N/A".
func FormatChange(pct *float64) string {
	if pct == nil {
		return "N/A"
	}
	return FormatPct(*pct)
}

// FormatOptional applies format to v, or returns "N/A" when v is nil.
func FormatOptional(v *float64, format func(float64) string) string {
	if v == nil {
		return "N/A"
	}
	return format(*v)
}

// Grouped renders n with en-US thousands separators and at most two
// fraction digits ("15,000", "1,234.57").
func Grouped(n float64) string {
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return fmt.Sprintf("%v", n)
	}
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprint(number.Decimal(n, number.MaxFractionDigits(2)))
}
