package dataprocessing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a currency cell. Blank cells are zero. Accepted forms
// include 1234.5, 1,234.50, 1.234,50, 100,50, R$ 10,00 and (12.00).
//
// When both separators appear the rightmost one is the decimal point. A
// single comma is a decimal comma; repeated commas or dots are grouping.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := normalizeNumber(raw)
	if s == "" {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = unifySeparators(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", strings.TrimSpace(raw))
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseOptionalAmount is ParseAmount for chart columns: blank or unreadable
// cells yield an invalid NullDecimal instead of an error.
func ParseOptionalAmount(raw string) decimal.NullDecimal {
	if normalizeNumber(raw) == "" {
		return decimal.NullDecimal{}
	}
	d, err := ParseAmount(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func normalizeNumber(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Replace(s, "R$", "", 1)
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t':
			return -1
		}
		return r
	}, s)
	return s
}

func unifySeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case lastDot >= 0 && strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}
