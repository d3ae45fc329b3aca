package api

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salespulse/pkg/contracts/domain"
)

var currencyPrinter = message.NewPrinter(language.English)

// FormatCurrency renders d as R$ with thousands grouping and two decimals,
// e.g. R$ 1,234.56. The value is rounded half away from zero first.
func FormatCurrency(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return currencyPrinter.Sprintf("R$ %.2f", f)
}

// FormatCount renders an integer count with thousands grouping
func FormatCount(n int) string {
	return currencyPrinter.Sprintf("%d", n)
}

// MetricCards are the four headline values ready for display
type MetricCards struct {
	Clients               string `json:"clients"`
	PurchaseTotal         string `json:"purchase_total"`
	MonthlyTotal          string `json:"monthly_total"`
	SubscriptionPlanTotal string `json:"subscription_plan_total"`
}

// NewMetricCards formats s for display
func NewMetricCards(s domain.Summary) MetricCards {
	return MetricCards{
		Clients:               FormatCount(s.ClientCount),
		PurchaseTotal:         FormatCurrency(s.PurchaseTotal),
		MonthlyTotal:          FormatCurrency(s.MonthlyTotal),
		SubscriptionPlanTotal: FormatCurrency(s.SubscriptionPlanTotal),
	}
}

// UnitBar is one bar of the clients-per-unit chart
type UnitBar struct {
	Unit    string `json:"unit"`
	Clients int    `json:"clients"`
}

// LinePoint is one point of a salesperson's purchase/temperature chart
type LinePoint struct {
	Month         string           `json:"month"`
	Temperature   *decimal.Decimal `json:"temperature"`
	PurchaseValue decimal.Decimal  `json:"purchase_value"`
}

// SalespersonBlock is the per-salesperson section of the report
type SalespersonBlock struct {
	Name    string         `json:"name"`
	Rows    int            `json:"rows"`
	Cards   MetricCards    `json:"cards"`
	Summary domain.Summary `json:"summary"`
	Series  []LinePoint    `json:"series"`
}

// ChartFlags tell the client which charts can be drawn
type ChartFlags struct {
	UnitBar         bool `json:"unit_bar"`
	SalespersonLine bool `json:"salesperson_line"`
}

// ReportResponse is the body returned for a processed upload
type ReportResponse struct {
	Source      string             `json:"source"`
	RowCount    int                `json:"row_count"`
	Cards       MetricCards        `json:"cards"`
	Summary     domain.Summary     `json:"summary"`
	Units       []UnitBar          `json:"units"`
	Salespeople []SalespersonBlock `json:"salespeople"`
	Charts      ChartFlags         `json:"charts"`
	Warnings    []string           `json:"warnings"`
}

// NewReportResponse converts a report into its wire form. Slices are never
// nil so clients always receive arrays.
func NewReportResponse(r *domain.Report) ReportResponse {
	resp := ReportResponse{
		Source:      r.SourceName,
		RowCount:    r.RowCount,
		Cards:       NewMetricCards(r.Summary),
		Summary:     r.Summary,
		Units:       make([]UnitBar, 0, len(r.UnitCounts)),
		Salespeople: make([]SalespersonBlock, 0, len(r.Salespeople)),
		Charts: ChartFlags{
			UnitBar:         len(r.UnitCounts) > 0,
			SalespersonLine: r.LineChartAvailable(),
		},
		Warnings: append([]string{}, r.Warnings...),
	}

	for _, u := range r.UnitCounts {
		resp.Units = append(resp.Units, UnitBar{Unit: u.Unit, Clients: u.ClientCount})
	}

	for _, v := range r.Salespeople {
		block := SalespersonBlock{
			Name:    v.Salesperson,
			Rows:    len(v.Records),
			Cards:   NewMetricCards(v.Summary),
			Summary: v.Summary,
			Series:  make([]LinePoint, 0, len(v.Series)),
		}
		for _, p := range v.Series {
			point := LinePoint{Month: p.Month, PurchaseValue: p.PurchaseValue}
			if p.Temperature.Valid {
				t := p.Temperature.Decimal
				point.Temperature = &t
			}
			block.Series = append(block.Series, point)
		}
		resp.Salespeople = append(resp.Salespeople, block)
	}

	return resp
}

// SuccessResponse wraps a payload the way every JSON endpoint answers
type SuccessResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// NewSuccessResponse wraps data with status "success"
func NewSuccessResponse(data interface{}) SuccessResponse {
	return SuccessResponse{Status: "success", Data: data}
}
