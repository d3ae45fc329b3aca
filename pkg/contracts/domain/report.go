package domain

import (
	"github.com/shopspring/decimal"
)

// Summary holds the headline metrics for a set of records.
type Summary struct {
	ClientCount           int             `json:"client_count"`
	PurchaseTotal         decimal.Decimal `json:"purchase_total"`
	MonthlyTotal          decimal.Decimal `json:"monthly_total"`
	SubscriptionPlanTotal decimal.Decimal `json:"subscription_plan_total"`
}

// IsZero reports whether the summary carries no clients and no values.
func (s Summary) IsZero() bool {
	return s.ClientCount == 0 &&
		s.PurchaseTotal.IsZero() &&
		s.MonthlyTotal.IsZero() &&
		s.SubscriptionPlanTotal.IsZero()
}

// UnitClientCount is the distinct client count of one unit.
type UnitClientCount struct {
	Unit        string `json:"unit"`
	ClientCount int    `json:"client_count"`
}

// GroupedCount is the per-unit distinct client count, ordered by unit.
type GroupedCount []UnitClientCount

// Total sums the per-unit counts. A client present in several units is
// counted once per unit.
func (g GroupedCount) Total() int {
	total := 0
	for _, u := range g {
		total += u.ClientCount
	}
	return total
}

// Lookup returns the count for unit.
func (g GroupedCount) Lookup(unit string) (int, bool) {
	for _, u := range g {
		if u.Unit == unit {
			return u.ClientCount, true
		}
	}
	return 0, false
}

// MonthlyPoint is one point of a salesperson's line chart.
type MonthlyPoint struct {
	Month         string              `json:"month"`
	Temperature   decimal.NullDecimal `json:"temperature"`
	PurchaseValue decimal.Decimal     `json:"purchase_value"`
}

// SalespersonView is the summary and chart data scoped to one salesperson.
type SalespersonView struct {
	Salesperson string         `json:"salesperson"`
	Summary     Summary        `json:"summary"`
	Records     []Record       `json:"records"`
	Series      []MonthlyPoint `json:"series"`
}

// Report is everything derived from one upload.
type Report struct {
	SourceName     string            `json:"source_name"`
	RowCount       int               `json:"row_count"`
	Summary        Summary           `json:"summary"`
	UnitCounts     GroupedCount      `json:"unit_counts"`
	Salespeople    []SalespersonView `json:"salespeople"`
	Records        []Record          `json:"-"`
	HasMonth       bool              `json:"has_month"`
	HasTemperature bool              `json:"has_temperature"`
	Warnings       []string          `json:"warnings,omitempty"`
}

// Salesperson returns the view for name.
func (r *Report) Salesperson(name string) (SalespersonView, bool) {
	for _, v := range r.Salespeople {
		if v.Salesperson == name {
			return v, true
		}
	}
	return SalespersonView{}, false
}

// LineChartAvailable reports whether per-salesperson series can be drawn.
func (r *Report) LineChartAvailable() bool {
	return r.HasMonth && r.HasTemperature
}
