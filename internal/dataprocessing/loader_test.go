package dataprocessing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	apperrors "salespulse/internal/errors"
	"salespulse/internal/shared/testutil"
	"salespulse/pkg/contracts/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestLoader(t *testing.T, maxRows int) *Loader {
	logger, _ := testutil.NewTestLogger(t)
	return NewLoader(logger, maxRows)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    []byte
		want    Format
		wantErr error
	}{
		{name: "csv extension", file: "vendas.CSV", want: FormatCSV},
		{name: "xlsx extension", file: "vendas.xlsx", want: FormatXLSX},
		{name: "macro workbook", file: "vendas.xlsm", want: FormatXLSX},
		{name: "legacy xls", file: "vendas.xls", wantErr: ErrLegacyWorkbook},
		{name: "zip signature", file: "upload", data: []byte("PK\x03\x04rest"), want: FormatXLSX},
		{name: "ole signature", file: "upload.bin", data: []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, wantErr: ErrLegacyWorkbook},
		{name: "plain text", file: "upload", data: []byte("a,b\n1,2\n"), want: FormatCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.file, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DetectFormat("blob", []byte{0x00, 0x01})
	assert.Error(t, err)
}

func TestLoader_Workbook(t *testing.T) {
	data := testutil.WorkbookBytes(t, testutil.SalesHeader(), testutil.SampleSalesRows())

	table, err := newTestLoader(t, 0).Load(context.Background(), data, "vendas.xlsx")
	require.NoError(t, err)

	require.Equal(t, 4, table.Len())
	assert.True(t, table.HasMonth())
	assert.True(t, table.HasTemperature())

	records := table.Records()
	first := records[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "Centro", first.Unit)
	assert.Equal(t, "C1", first.Client)
	assert.Equal(t, "Ana", first.Salesperson)
	assert.True(t, dec("100.50").Equal(first.PurchaseValue))
	assert.True(t, dec("10").Equal(first.MonthlyValue))
	assert.True(t, dec("5").Equal(first.SubscriptionPlanValue))
	assert.Equal(t, "Jan", first.Month)
	require.True(t, first.Temperature.Valid)
	assert.True(t, dec("21.5").Equal(first.Temperature.Decimal))

	last := records[3]
	assert.True(t, last.PurchaseValue.IsZero())
	assert.False(t, last.Temperature.Valid)
}

func TestLoader_WorkbookNumericCells(t *testing.T) {
	header := domain.RequiredColumns
	rows := [][]any{
		{"Centro", "C1", "Ana", 100.5, 10, 0.1},
		{"Centro", 1001, "Ana", 1234.56, 0, 0.2},
	}
	data := testutil.WorkbookWithNumbers(t, header, rows)

	table, err := newTestLoader(t, 0).Load(context.Background(), data, "numbers.xlsx")
	require.NoError(t, err)

	records := table.Records()
	require.Len(t, records, 2)
	assert.True(t, dec("100.5").Equal(records[0].PurchaseValue))
	assert.True(t, dec("1234.56").Equal(records[1].PurchaseValue))
	assert.Equal(t, "1001", records[1].Client)
	assert.False(t, table.HasMonth())
}

func TestLoader_CSV(t *testing.T) {
	tests := []struct {
		name      string
		data      func(t *testing.T) []byte
		wantRows  int
		wantFirst string
	}{
		{
			name: "comma separated",
			data: func(t *testing.T) []byte {
				return testutil.CSVBytes(t, ',', testutil.SalesHeader(), testutil.SampleSalesRows())
			},
			wantRows:  4,
			wantFirst: "100.50",
		},
		{
			name: "semicolon with decimal commas",
			data: func(t *testing.T) []byte {
				return testutil.CSVBytes(t, ';', domain.RequiredColumns, [][]string{
					{"Centro", "C1", "Ana", "1.234,56", "10,00", "0"},
				})
			},
			wantRows:  1,
			wantFirst: "1234.56",
		},
		{
			name: "utf-8 bom and padded headers",
			data: func(t *testing.T) []byte {
				header := []string{" Unidade", "Cliente ", "Vendedor", "Valor_Compra", "Valor_Mensal", "Valor_Plano de assinatura"}
				body := testutil.CSVBytes(t, ',', header, [][]string{{"Centro", "C1", "Ana", "7", "0", "0"}})
				return append([]byte{0xEF, 0xBB, 0xBF}, body...)
			},
			wantRows:  1,
			wantFirst: "7",
		},
		{
			name: "windows-1252 export",
			data: func(t *testing.T) []byte {
				body := testutil.CSVBytes(t, ';', testutil.SalesHeader(), [][]string{
					{"São Paulo", "C1", "João", "9,90", "0", "0", "Março", "30"},
				})
				encoded, err := charmap.Windows1252.NewEncoder().Bytes(body)
				require.NoError(t, err)
				return encoded
			},
			wantRows:  1,
			wantFirst: "9.9",
		},
		{
			name: "blank lines and short rows",
			data: func(t *testing.T) []byte {
				return testutil.CSVBytes(t, ',', domain.RequiredColumns, [][]string{
					{"Centro", "C1", "Ana", "3"},
					{"", "", "", "", "", ""},
					{"Norte", "C2", "Bruno", "4", "1", "1"},
				})
			},
			wantRows:  2,
			wantFirst: "3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := newTestLoader(t, 0).Load(context.Background(), tt.data(t), "vendas.csv")
			require.NoError(t, err)
			require.Equal(t, tt.wantRows, table.Len())
			assert.True(t, dec(tt.wantFirst).Equal(table.Records()[0].PurchaseValue))
		})
	}
}

func TestLoader_Windows1252KeepsAccents(t *testing.T) {
	body := testutil.CSVBytes(t, ';', testutil.SalesHeader(), [][]string{
		{"São Paulo", "C1", "João", "1", "0", "0", "Março", "30"},
	})
	encoded, err := charmap.Windows1252.NewEncoder().Bytes(body)
	require.NoError(t, err)

	table, err := newTestLoader(t, 0).Load(context.Background(), encoded, "vendas.csv")
	require.NoError(t, err)

	assert.True(t, table.HasMonth())
	rec := table.Records()[0]
	assert.Equal(t, "São Paulo", rec.Unit)
	assert.Equal(t, "João", rec.Salesperson)
	assert.Equal(t, "Março", rec.Month)
}

func TestLoader_DuplicateHeaderFirstWins(t *testing.T) {
	header := append(append([]string{}, domain.RequiredColumns...), domain.ColumnPurchaseValue)
	data := testutil.CSVBytes(t, ',', header, [][]string{{"Centro", "C1", "Ana", "1", "0", "0", "999"}})

	table, err := newTestLoader(t, 0).Load(context.Background(), data, "dup.csv")
	require.NoError(t, err)
	assert.True(t, dec("1").Equal(table.Records()[0].PurchaseValue))
}

func TestLoader_SchemaErrors(t *testing.T) {
	withoutMonthly := []string{"Unidade", "Cliente", "Vendedor", "Valor_Compra", "Valor_Plano de assinatura"}

	tests := []struct {
		name        string
		data        func(t *testing.T) []byte
		file        string
		wantMissing []string
	}{
		{
			name: "missing Valor_Mensal in workbook",
			data: func(t *testing.T) []byte {
				return testutil.WorkbookBytes(t, withoutMonthly, [][]string{{"Centro", "C1", "Ana", "1", "1"}})
			},
			file:        "vendas.xlsx",
			wantMissing: []string{"Valor_Mensal"},
		},
		{
			name: "wrong case is not a match",
			data: func(t *testing.T) []byte {
				header := []string{"unidade", "Cliente", "Vendedor", "Valor_Compra", "Valor_Mensal", "Valor_Plano de assinatura"}
				return testutil.CSVBytes(t, ',', header, nil)
			},
			file:        "vendas.csv",
			wantMissing: []string{"Unidade"},
		},
		{
			name: "no rows at all",
			data: func(t *testing.T) []byte {
				return testutil.WorkbookBytes(t, nil, nil)
			},
			file:        "empty.xlsx",
			wantMissing: domain.RequiredColumns,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := newTestLoader(t, 0).Load(context.Background(), tt.data(t), tt.file)
			require.Error(t, err)
			assert.Nil(t, table)

			se, ok := apperrors.AsSchemaError(err)
			require.True(t, ok, "expected SchemaError, got %T", err)
			assert.Equal(t, domain.RequiredColumns, se.Required)
			assert.Equal(t, tt.wantMissing, se.Missing)
		})
	}
}

func TestLoader_ParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		file       string
		maxRows    int
		wantRow    int
		wantColumn string
	}{
		{name: "empty upload", data: nil, file: "vendas.xlsx"},
		{name: "corrupt workbook", data: []byte("definitely not a zip archive"), file: "vendas.xlsx"},
		{name: "truncated zip", data: []byte("PK\x03\x04\x14\x00"), file: "upload"},
		{name: "legacy xls", data: []byte{0xD0, 0xCF, 0x11, 0xE0}, file: "vendas.xls"},
		{name: "broken quoting", data: []byte("Unidade,Cliente\n\"Centro,C1\n"), file: "vendas.csv"},
		{
			name:       "non numeric amount",
			data:       []byte("Unidade,Cliente,Vendedor,Valor_Compra,Valor_Mensal,Valor_Plano de assinatura\nCentro,C1,Ana,1,0,0\nNorte,C2,Bruno,abc,0,0\n"),
			file:       "vendas.csv",
			wantRow:    3,
			wantColumn: "Valor_Compra",
		},
		{
			name:    "too many rows",
			data:    []byte("Unidade,Cliente,Vendedor,Valor_Compra,Valor_Mensal,Valor_Plano de assinatura\nA,1,X,1,0,0\nB,2,Y,1,0,0\n"),
			file:    "vendas.csv",
			maxRows: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := newTestLoader(t, tt.maxRows).Load(context.Background(), tt.data, tt.file)
			require.Error(t, err)
			assert.Nil(t, table)

			pe, ok := apperrors.AsParseError(err)
			require.True(t, ok, "expected ParseError, got %T: %v", err, err)
			assert.NotEmpty(t, pe.Cause.Error())
			assert.Equal(t, tt.file, pe.Source)
			assert.Equal(t, tt.wantRow, pe.Row)
			assert.Equal(t, tt.wantColumn, pe.Column)
		})
	}
}

func TestLoader_HeaderOnly(t *testing.T) {
	data := testutil.WorkbookBytes(t, domain.RequiredColumns, nil)

	table, err := newTestLoader(t, 0).Load(context.Background(), data, "header.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, domain.RequiredColumns, table.Columns())
}
