package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"salespulse/pkg/contracts/domain"
)

// Workbook sheet names
const (
	SheetSummary     = "Summary"
	SheetUnits       = "Units"
	SheetSalespeople = "Salespeople"
	SheetRecords     = "Records"

	unitChartTitle = "Clients per Unit"
	// numFmtCurrency is the built-in "#,##0.00" format
	numFmtCurrency = 4
)

// WriteWorkbook renders report as an xlsx file with one sheet per view
func WriteWorkbook(w io.Writer, report *domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetUnits, SheetSalespeople, SheetRecords} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtCurrency})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	steps := []func(*excelize.File, *domain.Report, int) error{
		writeSummarySheet,
		writeUnitsSheet,
		writeSalespeopleSheet,
		writeRecordsSheet,
	}
	for _, step := range steps {
		if err := step(f, report, money); err != nil {
			return err
		}
	}

	for _, sheet := range f.GetSheetList() {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return fmt.Errorf("style header of %s: %w", sheet, err)
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleColumns(f *excelize.File, sheet, from, to string, lastRow, style int) error {
	if lastRow < 2 {
		return nil
	}
	return f.SetCellStyle(sheet, fmt.Sprintf("%s2", from), fmt.Sprintf("%s%d", to, lastRow), style)
}

func writeSummarySheet(f *excelize.File, report *domain.Report, money int) error {
	s := report.Summary
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Source", report.SourceName},
		{"Rows", report.RowCount},
		{"Clients", s.ClientCount},
		{"Purchase total", toFloat(s.PurchaseTotal)},
		{"Monthly total", toFloat(s.MonthlyTotal)},
		{"Subscription plan total", toFloat(s.SubscriptionPlanTotal)},
	}
	for _, warning := range report.Warnings {
		rows = append(rows, []interface{}{"Warning", warning})
	}

	for i, values := range rows {
		if err := setRow(f, SheetSummary, i+1, values); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "B5", "B7", money); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "B", 26)
}

func writeUnitsSheet(f *excelize.File, report *domain.Report, _ int) error {
	if err := setRow(f, SheetUnits, 1, []interface{}{"Unit", "Clients"}); err != nil {
		return err
	}
	for i, u := range report.UnitCounts {
		if err := setRow(f, SheetUnits, i+2, []interface{}{labelOrBlank(u.Unit), u.ClientCount}); err != nil {
			return err
		}
	}
	if len(report.UnitCounts) == 0 {
		return nil
	}

	last := len(report.UnitCounts) + 1
	return f.AddChart(SheetUnits, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", SheetUnits),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetUnits, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", SheetUnits, last),
		}},
		Title:  []excelize.RichTextRun{{Text: unitChartTitle}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
}

func writeSalespeopleSheet(f *excelize.File, report *domain.Report, money int) error {
	header := make([]interface{}, 0, len(SalespersonHeaders))
	for _, h := range SalespersonHeaders {
		header = append(header, h)
	}
	if err := setRow(f, SheetSalespeople, 1, header); err != nil {
		return err
	}

	row := 2
	for _, v := range report.Salespeople {
		if err := setRow(f, SheetSalespeople, row, summaryValues(labelOrBlank(v.Salesperson), v.Summary)); err != nil {
			return err
		}
		row++
	}
	if err := setRow(f, SheetSalespeople, row, summaryValues(TotalLabel, report.Summary)); err != nil {
		return err
	}

	if err := styleColumns(f, SheetSalespeople, "C", "E", row, money); err != nil {
		return err
	}
	return f.SetColWidth(SheetSalespeople, "A", "E", 22)
}

func writeRecordsSheet(f *excelize.File, report *domain.Report, money int) error {
	header := make([]interface{}, 0, len(domain.RequiredColumns)+2)
	for _, c := range domain.RequiredColumns {
		header = append(header, c)
	}
	if report.HasMonth {
		header = append(header, domain.ColumnMonth)
	}
	if report.HasTemperature {
		header = append(header, domain.ColumnTemperature)
	}
	if err := setRow(f, SheetRecords, 1, header); err != nil {
		return err
	}

	for i, r := range report.Records {
		values := []interface{}{
			r.Unit,
			r.Client,
			r.Salesperson,
			toFloat(r.PurchaseValue),
			toFloat(r.MonthlyValue),
			toFloat(r.SubscriptionPlanValue),
		}
		if report.HasMonth {
			values = append(values, r.Month)
		}
		if report.HasTemperature {
			if r.Temperature.Valid {
				values = append(values, r.Temperature.Decimal.InexactFloat64())
			} else {
				values = append(values, nil)
			}
		}
		if err := setRow(f, SheetRecords, i+2, values); err != nil {
			return err
		}
	}

	return styleColumns(f, SheetRecords, "D", "F", len(report.Records)+1, money)
}

func summaryValues(label string, s domain.Summary) []interface{} {
	return []interface{}{
		label,
		s.ClientCount,
		toFloat(s.PurchaseTotal),
		toFloat(s.MonthlyTotal),
		toFloat(s.SubscriptionPlanTotal),
	}
}
