package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "salespulse/internal/errors"
	api "salespulse/pkg/contracts/api/v1"
	"salespulse/pkg/contracts/domain"
)

// Content types of the export formats
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeJSON = "application/json"
)

// SalespersonHeaders are the columns of the per-salesperson CSV
var SalespersonHeaders = []string{"Salesperson", "Clients", "PurchaseTotal", "MonthlyTotal", "SubscriptionPlanTotal"}

// UnitHeaders are the columns of the units CSV
var UnitHeaders = []string{"Unit", "Clients"}

// TotalLabel marks the global row of the salesperson CSV
const TotalLabel = "TOTAL"

// Result is a rendered export ready to be sent as a download
type Result struct {
	Data        []byte
	ContentType string
	FileName    string
}

// ReportExporter renders reports in the supported download formats
type ReportExporter struct {
	csvWriter *CSVWriter
	logger    *slog.Logger
}

// NewReportExporter creates a new report exporter
func NewReportExporter(logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		csvWriter: NewCSVWriter(),
		logger:    logger.With(slog.String("component", "exporter")),
	}
}

// Export renders report as format. Unknown formats return an APIError.
func (e *ReportExporter) Export(report *domain.Report, format string) (*Result, error) {
	var (
		buf         bytes.Buffer
		contentType string
		err         error
	)

	switch format {
	case api.ExportCSV:
		contentType = ContentTypeCSV
		err = e.WriteSalespersonCSV(&buf, report)
	case api.ExportUnitsCSV:
		contentType = ContentTypeCSV
		err = e.WriteUnitsCSV(&buf, report)
	case api.ExportXLSX:
		contentType = ContentTypeXLSX
		err = WriteWorkbook(&buf, report)
	case api.ExportJSON:
		contentType = ContentTypeJSON
		err = WriteJSON(&buf, report)
	default:
		return nil, apperrors.UnsupportedExportFormat(format)
	}
	if err != nil {
		return nil, apperrors.NewExportError(fmt.Sprintf("failed to export %s", format), err).
			WithContext("format", format)
	}

	result := &Result{
		Data:        buf.Bytes(),
		ContentType: contentType,
		FileName:    DownloadName(report.SourceName, format),
	}

	e.logger.Debug("report exported",
		slog.String("format", format),
		slog.String("file_name", result.FileName),
		slog.Int("bytes", len(result.Data)))

	return result, nil
}

// WriteSalespersonCSV writes one row per salesperson followed by a TOTAL row
func (e *ReportExporter) WriteSalespersonCSV(w io.Writer, report *domain.Report) error {
	records := make([][]string, 0, len(report.Salespeople)+1)
	for _, v := range report.Salespeople {
		records = append(records, summaryRow(labelOrBlank(v.Salesperson), v.Summary))
	}
	records = append(records, summaryRow(TotalLabel, report.Summary))

	return e.csvWriter.WriteSimpleCSV(w, SalespersonHeaders, records)
}

// WriteUnitsCSV writes the distinct client count of every unit
func (e *ReportExporter) WriteUnitsCSV(w io.Writer, report *domain.Report) error {
	records := make([][]string, 0, len(report.UnitCounts))
	for _, u := range report.UnitCounts {
		records = append(records, []string{labelOrBlank(u.Unit), formatInt(u.ClientCount)})
	}
	return e.csvWriter.WriteSimpleCSV(w, UnitHeaders, records)
}

// WriteJSON writes the same body the upload endpoint returns
func WriteJSON(w io.Writer, report *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(api.NewReportResponse(report))
}

func summaryRow(label string, s domain.Summary) []string {
	return []string{
		label,
		formatInt(s.ClientCount),
		formatDecimal(s.PurchaseTotal),
		formatDecimal(s.MonthlyTotal),
		formatDecimal(s.SubscriptionPlanTotal),
	}
}

// DownloadName derives the attachment name from the uploaded file name
func DownloadName(source, format string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "report"
	}

	switch format {
	case api.ExportUnitsCSV:
		return base + "_units.csv"
	case api.ExportXLSX:
		return base + "_summary.xlsx"
	case api.ExportJSON:
		return base + "_summary.json"
	default:
		return base + "_summary.csv"
	}
}

func toFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
