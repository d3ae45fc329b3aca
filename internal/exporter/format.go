package exporter

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// formatDecimal formats a currency value for CSV output with exactly 2 decimal places
func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatInt formats a count for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatOptional renders a nullable value, blank when absent
func formatOptional(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// labelOrBlank keeps blank group keys visible in exports
func labelOrBlank(s string) string {
	if s == "" {
		return "(blank)"
	}
	return s
}
