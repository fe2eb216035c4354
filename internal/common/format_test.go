package common

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{1234.56, "$1,234.56"},
		{1234567.89, "$1,234,567.89"},
		{-9876.54, "-$9,876.54"},
	}

	for _, c := range cases {
		if got := FormatMoney(c.in); got != c.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0"},
		{"950", "$950"},
		{"1234567", "$1,234,567"},
		{"-420000", "-$420,000"},
		{"1234567.6", "$1,234,568"},
	}

	for _, c := range cases {
		d, err := decimal.NewFromString(c.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := FormatValue(d); got != c.want {
			t.Errorf("FormatValue(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCompactValue(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"42", "$42"},
		{"8700", "$8.7K"},
		{"3200000", "$3.2M"},
		{"45300000000", "$45.3B"},
		{"1200000000000", "$1.2T"},
		{"-3200000", "-$3.2M"},
	}

	for _, c := range cases {
		d, err := decimal.NewFromString(c.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := FormatCompactValue(d); got != c.want {
			t.Errorf("FormatCompactValue(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatSignedPct(t *testing.T) {
	if got := FormatSignedPct(3.456); got != "+3.46%" {
		t.Errorf("FormatSignedPct positive = %q", got)
	}
	if got := FormatSignedPct(-1.2); got != "-1.20%" {
		t.Errorf("FormatSignedPct negative = %q", got)
	}
}

func TestFormatPct(t *testing.T) {
	if got := FormatPct(12.345); got != "12.35%" {
		t.Errorf("FormatPct = %q", got)
	}
}
