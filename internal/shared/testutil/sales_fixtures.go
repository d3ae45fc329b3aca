package testutil

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salespulse/pkg/contracts/domain"
)

// SalesHeader is the full header with both chart columns.
func SalesHeader() []string {
	return append(append([]string{}, domain.RequiredColumns...), domain.ColumnMonth, domain.ColumnTemperature)
}

// SampleSalesRows is a small, hand-checked data set.
//
//	Ana:   purchases 100.50 + 200.25 = 300.75, clients C1 C2
//	Bruno: purchases 50.00, client C3
//	C1 appears in units Centro and Norte.
func SampleSalesRows() [][]string {
	return [][]string{
		{"Centro", "C1", "Ana", "100.50", "10.00", "5.00", "Jan", "21.5"},
		{"Norte", "C2", "Ana", "200.25", "20.00", "5.00", "Fev", "23"},
		{"Centro", "C3", "Bruno", "50.00", "0", "2.50", "Jan", "19"},
		{"Norte", "C1", "Bruno", "", "5.00", "", "Mar", ""},
	}
}

// WorkbookBytes builds an xlsx file with header and rows on the first sheet.
func WorkbookBytes(t *testing.T, header []string, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	writeRow(t, f, sheet, 1, header)
	for i, row := range rows {
		writeRow(t, f, sheet, i+2, row)
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// WorkbookWithNumbers is like WorkbookBytes but stores the currency columns
// as numeric cells, as a spreadsheet application would.
func WorkbookWithNumbers(t *testing.T, header []string, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	writeRow(t, f, sheet, 1, header)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// CSVBytes renders header and rows with the given delimiter.
func CSVBytes(t *testing.T, delimiter rune, header []string, rows [][]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delimiter
	require.NoError(t, w.Write(header))
	require.NoError(t, w.WriteAll(rows))
	return buf.Bytes()
}

func writeRow(t *testing.T, f *excelize.File, sheet string, row int, values []string) {
	t.Helper()

	if len(values) == 0 {
		return
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(sheet, cell, &cells))
}
