package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salespulse/internal/shared/testutil"
	"salespulse/pkg/contracts/domain"
)

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRun_Text(t *testing.T) {
	path := writeFixture(t, "vendas.xlsx", testutil.WorkbookBytes(t, testutil.SalesHeader(), testutil.SampleSalesRows()))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-in", path, "-log-level", "error"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "vendas.xlsx (4 rows)")
	assert.Contains(t, out, "R$ 350.75")
	assert.Contains(t, out, "Centro")
	assert.Contains(t, out, "Ana")
	assert.Less(t, strings.Index(out, "Ana"), strings.Index(out, "Bruno"))
}

func TestRun_Formats(t *testing.T) {
	path := writeFixture(t, "vendas.csv", testutil.CSVBytes(t, ',', testutil.SalesHeader(), testutil.SampleSalesRows()))

	tests := []struct {
		format string
		want   string
	}{
		{format: "csv", want: "TOTAL,3,350.75,35.00,12.50"},
		{format: "units-csv", want: "Centro,2"},
		{format: "json", want: `"source": "vendas.csv"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), []string{"-in", path, "-format", tt.format, "-log-level", "error"}, &stdout, &stderr)
			require.Equal(t, exitOK, code, stderr.String())
			assert.Contains(t, stdout.String(), tt.want)
		})
	}
}

func TestRun_ProgressGoesToStderr(t *testing.T) {
	path := writeFixture(t, "vendas.csv", testutil.CSVBytes(t, ',', testutil.SalesHeader(), testutil.SampleSalesRows()))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-in", path, "-format", "csv", "-progress", "-log-level", "error"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	assert.True(t, strings.HasPrefix(stdout.String(), "\ufeffSalesperson,"))
	assert.Contains(t, stdout.String(), "TOTAL,3,350.75,35.00,12.50")
	assert.NotContains(t, stdout.String(), "reading")
}

func TestRun_XLSXToFile(t *testing.T) {
	in := writeFixture(t, "vendas.csv", testutil.CSVBytes(t, ',', testutil.SalesHeader(), testutil.SampleSalesRows()))
	out := filepath.Join(t.TempDir(), "resumo.xlsx")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-in", in, "-format", "xlsx", "-out", out, "-log-level", "error"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Zero(t, stdout.Len())

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Units", "Salespeople", "Records"}, f.GetSheetList())
}

func TestRun_Errors(t *testing.T) {
	missingMonthly := []string{
		domain.ColumnUnit, domain.ColumnClient, domain.ColumnSalesperson,
		domain.ColumnPurchaseValue, domain.ColumnSubscriptionPlan,
	}
	schemaPath := writeFixture(t, "bad.xlsx", testutil.WorkbookBytes(t, missingMonthly, nil))
	corruptPath := writeFixture(t, "corrupt.xlsx", []byte("definitely not a zip"))

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "no input", args: nil, wantCode: exitUsage, wantErr: "-in is required"},
		{name: "unknown flag", args: []string{"-bogus"}, wantCode: exitUsage},
		{name: "unknown format", args: []string{"-in", schemaPath, "-format", "pdf"}, wantCode: exitUsage, wantErr: `unknown format "pdf"`},
		{name: "missing file", args: []string{"-in", filepath.Join(t.TempDir(), "nope.csv")}, wantCode: exitOther},
		{name: "schema error", args: []string{"-in", schemaPath}, wantCode: exitSchema, wantErr: domain.ColumnMonthlyValue},
		{name: "parse error", args: []string{"-in", corruptPath}, wantCode: exitParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := append(tt.args, "-log-level", "error")
			code := run(context.Background(), args, &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantErr != "" {
				assert.Contains(t, stderr.String(), tt.wantErr)
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitOK, run(context.Background(), []string{"-version"}, &stdout, &stderr))
	assert.NotEmpty(t, stdout.String())
}
