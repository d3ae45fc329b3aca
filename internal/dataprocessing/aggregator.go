package dataprocessing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"salespulse/pkg/contracts/domain"
)

// Summarize computes the distinct client count and the three currency sums.
// Blank clients are not counted.
func Summarize(records []domain.Record) domain.Summary {
	clients := make(map[string]struct{})
	purchase, monthly, plan := decimal.Zero, decimal.Zero, decimal.Zero

	for _, r := range records {
		if r.Client != "" {
			clients[r.Client] = struct{}{}
		}
		purchase = purchase.Add(r.PurchaseValue)
		monthly = monthly.Add(r.MonthlyValue)
		plan = plan.Add(r.SubscriptionPlanValue)
	}

	return domain.Summary{
		ClientCount:           len(clients),
		PurchaseTotal:         purchase,
		MonthlyTotal:          monthly,
		SubscriptionPlanTotal: plan,
	}
}

// CountClientsByUnit counts distinct clients per unit, ordered by unit name.
// A blank unit is kept as its own group.
func CountClientsByUnit(records []domain.Record) domain.GroupedCount {
	perUnit := make(map[string]map[string]struct{})
	for _, r := range records {
		set, ok := perUnit[r.Unit]
		if !ok {
			set = make(map[string]struct{})
			perUnit[r.Unit] = set
		}
		if r.Client != "" {
			set[r.Client] = struct{}{}
		}
	}

	counts := make(domain.GroupedCount, 0, len(perUnit))
	for unit, set := range perUnit {
		counts = append(counts, domain.UnitClientCount{Unit: unit, ClientCount: len(set)})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Unit < counts[j].Unit })
	return counts
}

// BySalesperson partitions records by salesperson in order of first
// appearance. withSeries controls whether line chart points are built.
func BySalesperson(records []domain.Record, withSeries bool) []domain.SalespersonView {
	order := make([]string, 0)
	groups := make(map[string][]domain.Record)
	for _, r := range records {
		if _, ok := groups[r.Salesperson]; !ok {
			order = append(order, r.Salesperson)
		}
		groups[r.Salesperson] = append(groups[r.Salesperson], r)
	}

	views := make([]domain.SalespersonView, 0, len(order))
	for _, name := range order {
		subset := groups[name]
		view := domain.SalespersonView{
			Salesperson: name,
			Summary:     Summarize(subset),
			Records:     subset,
			Series:      []domain.MonthlyPoint{},
		}
		if withSeries {
			view.Series = make([]domain.MonthlyPoint, 0, len(subset))
			for _, r := range subset {
				view.Series = append(view.Series, domain.MonthlyPoint{
					Month:         r.Month,
					Temperature:   r.Temperature,
					PurchaseValue: r.PurchaseValue,
				})
			}
		}
		views = append(views, view)
	}
	return views
}

// Aggregate derives a Report from table. It assumes the required columns
// were validated by the loader.
func Aggregate(table *domain.Table, source string) *domain.Report {
	records := table.Records()
	report := &domain.Report{
		SourceName:     source,
		RowCount:       len(records),
		Summary:        Summarize(records),
		UnitCounts:     CountClientsByUnit(records),
		Records:        records,
		HasMonth:       table.HasMonth(),
		HasTemperature: table.HasTemperature(),
	}

	if missing := missingChartColumns(table); len(missing) > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("per-salesperson line chart unavailable: column(s) %s not found", strings.Join(missing, ", ")))
	}
	report.Salespeople = BySalesperson(records, report.LineChartAvailable())

	return report
}

func missingChartColumns(table *domain.Table) []string {
	var missing []string
	if !table.HasMonth() {
		missing = append(missing, domain.ColumnMonth)
	}
	if !table.HasTemperature() {
		missing = append(missing, domain.ColumnTemperature)
	}
	return missing
}
