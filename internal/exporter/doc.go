// Package exporter renders sales reports as downloadable files.
//
// CSVWriter is the low-level writer with optional UTF-8 BOM for Excel.
// ReportExporter picks the format:
//
//	csv        one row per salesperson plus a TOTAL row
//	units-csv  distinct clients per unit
//	xlsx       Summary, Units (with a column chart), Salespeople and Records sheets
//	json       the upload response body
//
// Example usage:
//
//	exp := exporter.NewReportExporter(logger)
//	result, err := exp.Export(report, "xlsx")
package exporter
