package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salespulse/internal/dataprocessing"
	apperrors "salespulse/internal/errors"
	"salespulse/internal/shared/testutil"
	api "salespulse/pkg/contracts/api/v1"
	"salespulse/pkg/contracts/domain"
)

func sampleReport(t *testing.T) *domain.Report {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	data := testutil.WorkbookBytes(t, testutil.SalesHeader(), testutil.SampleSalesRows())
	report, err := dataprocessing.NewProcessor(logger, dataprocessing.ProcessorConfig{}).
		ProcessBytes(context.Background(), data, "vendas.xlsx")
	require.NoError(t, err)
	return report
}

func newTestExporter(t *testing.T) *ReportExporter {
	logger, _ := testutil.NewTestLogger(t)
	return NewReportExporter(logger)
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, utf8BOM), "missing BOM")
	rows, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestReportExporter_SalespersonCSV(t *testing.T) {
	result, err := newTestExporter(t).Export(sampleReport(t), api.ExportCSV)
	require.NoError(t, err)

	assert.Equal(t, ContentTypeCSV, result.ContentType)
	assert.Equal(t, "vendas_summary.csv", result.FileName)

	rows := readCSV(t, result.Data)
	assert.Equal(t, [][]string{
		SalespersonHeaders,
		{"Ana", "2", "300.75", "30.00", "10.00"},
		{"Bruno", "2", "50.00", "5.00", "2.50"},
		{"TOTAL", "3", "350.75", "35.00", "12.50"},
	}, rows)
}

func TestReportExporter_UnitsCSV(t *testing.T) {
	result, err := newTestExporter(t).Export(sampleReport(t), api.ExportUnitsCSV)
	require.NoError(t, err)

	assert.Equal(t, "vendas_units.csv", result.FileName)
	assert.Equal(t, [][]string{
		UnitHeaders,
		{"Centro", "2"},
		{"Norte", "2"},
	}, readCSV(t, result.Data))
}

func TestReportExporter_BlankGroupsAreLabelled(t *testing.T) {
	report := &domain.Report{
		UnitCounts:  domain.GroupedCount{{Unit: "", ClientCount: 1}},
		Salespeople: []domain.SalespersonView{{Salesperson: ""}},
	}
	exp := newTestExporter(t)

	var units, people bytes.Buffer
	require.NoError(t, exp.WriteUnitsCSV(&units, report))
	require.NoError(t, exp.WriteSalespersonCSV(&people, report))

	assert.Equal(t, "(blank)", readCSV(t, units.Bytes())[1][0])
	assert.Equal(t, "(blank)", readCSV(t, people.Bytes())[1][0])
}

func TestReportExporter_Workbook(t *testing.T) {
	result, err := newTestExporter(t).Export(sampleReport(t), api.ExportXLSX)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeXLSX, result.ContentType)
	assert.Equal(t, "vendas_summary.xlsx", result.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetUnits, SheetSalespeople, SheetRecords}, f.GetSheetList())

	clients, err := f.GetCellValue(SheetSummary, "B4")
	require.NoError(t, err)
	assert.Equal(t, "3", clients)

	purchase, err := f.GetCellValue(SheetSummary, "B5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "350.75", purchase)

	units, err := f.GetRows(SheetUnits)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Unit", "Clients"}, {"Centro", "2"}, {"Norte", "2"}}, units)

	people, err := f.GetRows(SheetSalespeople, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, people, 4)
	assert.Equal(t, []string{"TOTAL", "3", "350.75", "35", "12.5"}, people[3])

	records, err := f.GetRows(SheetRecords)
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, testutil.SalesHeader(), records[0])
	assert.Equal(t, "Centro", records[1][0])
}

func TestReportExporter_WorkbookReloadsAsUpload(t *testing.T) {
	original := sampleReport(t)
	result, err := newTestExporter(t).Export(original, api.ExportXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	// Leave Records as the first sheet so the loader reads it.
	require.NoError(t, f.DeleteSheet(SheetSummary))
	require.NoError(t, f.DeleteSheet(SheetUnits))
	require.NoError(t, f.DeleteSheet(SheetSalespeople))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	f.Close()

	logger, _ := testutil.NewTestLogger(t)
	reloaded, err := dataprocessing.NewProcessor(logger, dataprocessing.ProcessorConfig{}).
		ProcessBytes(context.Background(), buf.Bytes(), "records.xlsx")
	require.NoError(t, err)

	assert.True(t, original.Summary.PurchaseTotal.Equal(reloaded.Summary.PurchaseTotal))
	assert.True(t, original.Summary.MonthlyTotal.Equal(reloaded.Summary.MonthlyTotal))
	assert.Equal(t, original.Summary.ClientCount, reloaded.Summary.ClientCount)
}

func TestReportExporter_EmptyReportWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, &domain.Report{SourceName: "empty.csv"}))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	units, err := f.GetRows(SheetUnits)
	require.NoError(t, err)
	assert.Len(t, units, 1)
}

func TestReportExporter_JSON(t *testing.T) {
	result, err := newTestExporter(t).Export(sampleReport(t), api.ExportJSON)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, result.ContentType)

	var body api.ReportResponse
	require.NoError(t, json.Unmarshal(result.Data, &body))
	assert.Equal(t, "R$ 350.75", body.Cards.PurchaseTotal)
	assert.Len(t, body.Salespeople, 2)
}

func TestReportExporter_UnsupportedFormat(t *testing.T) {
	result, err := newTestExporter(t).Export(sampleReport(t), "pdf")
	require.Error(t, err)
	assert.Nil(t, result)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, apperrors.CodeUnsupportedFormat, apiErr.ErrorCode)
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		source string
		format string
		want   string
	}{
		{source: "vendas.xlsx", format: api.ExportCSV, want: "vendas_summary.csv"},
		{source: "dir/vendas.csv", format: api.ExportUnitsCSV, want: "vendas_units.csv"},
		{source: "", format: api.ExportXLSX, want: "report_summary.xlsx"},
		{source: "vendas", format: api.ExportJSON, want: "vendas_summary.json"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DownloadName(tt.source, tt.format))
		})
	}
}
