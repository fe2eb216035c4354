// Package common provides shared utilities for FundLens.
package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats a float as a dollar amount with comma separators
func FormatMoney(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	whole := int64(v)
	cents := int64((v-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	s := fmt.Sprintf("%d", whole)
	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		parts = append([]string{s}, parts...)
		s = strings.Join(parts, ",")
	}

	if negative {
		return fmt.Sprintf("-$%s.%02d", s, cents)
	}
	return fmt.Sprintf("$%s.%02d", s, cents)
}

// FormatValue formats a holding value as whole dollars with comma separators.
// 13F values are reported in whole dollars, so no cents are shown.
func FormatValue(v decimal.Decimal) string {
	s := v.Round(0).String()
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		parts = append([]string{s}, parts...)
		s = strings.Join(parts, ",")
	}

	if negative {
		return "-$" + s
	}
	return "$" + s
}

// FormatCompactValue formats a dollar amount in abbreviated form for
// treemap and table labels: $1.2T, $45.3B, $120.5M, $87.1K.
func FormatCompactValue(v decimal.Decimal) string {
	f, _ := v.Float64()
	negative := f < 0
	if negative {
		f = -f
	}

	var s string
	switch {
	case f >= 1e12:
		s = fmt.Sprintf("$%.1fT", f/1e12)
	case f >= 1e9:
		s = fmt.Sprintf("$%.1fB", f/1e9)
	case f >= 1e6:
		s = fmt.Sprintf("$%.1fM", f/1e6)
	case f >= 1e3:
		s = fmt.Sprintf("$%.1fK", f/1e3)
	default:
		s = fmt.Sprintf("$%.0f", f)
	}

	if negative {
		return "-" + s
	}
	return s
}

// FormatSignedPct formats a percentage with +/- prefix
func FormatSignedPct(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatPct formats a portfolio percentage for display.
func FormatPct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
