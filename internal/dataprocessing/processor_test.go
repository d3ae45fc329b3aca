package dataprocessing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salespulse/internal/errors"
	"salespulse/internal/shared/testutil"
	"salespulse/pkg/contracts/domain"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func newTestProcessor(t *testing.T, cfg ProcessorConfig) *Processor {
	logger, _ := testutil.NewTestLogger(t)
	return NewProcessor(logger, cfg)
}

func TestProcessor_Process(t *testing.T) {
	data := testutil.WorkbookBytes(t, testutil.SalesHeader(), testutil.SampleSalesRows())

	report, err := newTestProcessor(t, ProcessorConfig{}).Process(context.Background(), bytes.NewReader(data), "vendas.xlsx")
	require.NoError(t, err)

	assert.Equal(t, 4, report.RowCount)
	assert.True(t, dec("350.75").Equal(report.Summary.PurchaseTotal))
	assert.Len(t, report.Salespeople, 2)
}

func TestProcessor_ProcessBytesCSV(t *testing.T) {
	data := testutil.CSVBytes(t, ';', testutil.SalesHeader(), testutil.SampleSalesRows())

	report, err := newTestProcessor(t, ProcessorConfig{MaxBytes: int64(len(data))}).ProcessBytes(context.Background(), data, "vendas.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, report.Summary.ClientCount)
}

func TestProcessor_Errors(t *testing.T) {
	workbook := testutil.WorkbookBytes(t, testutil.SalesHeader(), testutil.SampleSalesRows())
	noClient := testutil.CSVBytes(t, ',', []string{"Unidade", "Vendedor"}, nil)

	tests := []struct {
		name      string
		cfg       ProcessorConfig
		ctx       func() context.Context
		data      []byte
		file      string
		wantKind  string
		wantError error
	}{
		{
			name:     "larger than limit",
			cfg:      ProcessorConfig{MaxBytes: 16},
			data:     workbook,
			file:     "vendas.xlsx",
			wantKind: apperrors.KindParse,
		},
		{
			name:     "missing columns",
			data:     noClient,
			file:     "vendas.csv",
			wantKind: apperrors.KindSchema,
		},
		{
			name:     "row cap",
			cfg:      ProcessorConfig{MaxRows: 2},
			data:     workbook,
			file:     "vendas.xlsx",
			wantKind: apperrors.KindParse,
		},
		{
			name: "cancelled before load",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			data:      workbook,
			file:      "vendas.xlsx",
			wantError: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}

			report, err := newTestProcessor(t, tt.cfg).ProcessBytes(ctx, tt.data, tt.file)
			require.Error(t, err)
			assert.Nil(t, report)

			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				return
			}
			assert.Equal(t, tt.wantKind, apperrors.Kind(err))
		})
	}
}

func TestProcessor_NilAndFailingReaders(t *testing.T) {
	p := newTestProcessor(t, ProcessorConfig{})

	_, err := p.Process(context.Background(), nil, "none.csv")
	pe, ok := apperrors.AsParseError(err)
	require.True(t, ok)
	assert.ErrorIs(t, pe, ErrEmptyInput)

	_, err = p.Process(context.Background(), failingReader{}, "broken.csv")
	pe, ok = apperrors.AsParseError(err)
	require.True(t, ok)
	assert.Contains(t, pe.Error(), "connection reset")
}

func TestProcessor_SchemaErrorListsAllRequired(t *testing.T) {
	header := []string{"Unidade", "Cliente", "Vendedor", "Valor_Compra", "Valor_Plano de assinatura"}
	data := testutil.WorkbookBytes(t, header, nil)

	_, err := newTestProcessor(t, ProcessorConfig{}).ProcessBytes(context.Background(), data, "vendas.xlsx")

	se, ok := apperrors.AsSchemaError(err)
	require.True(t, ok)
	assert.Equal(t, domain.RequiredColumns, se.Required)
	assert.Equal(t, []string{domain.ColumnMonthlyValue}, se.Missing)
	for _, c := range domain.RequiredColumns {
		assert.Contains(t, se.Error(), c)
	}
}
