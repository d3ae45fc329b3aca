package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salespulse/internal/errors"
	"salespulse/internal/shared/testutil"
	api "salespulse/pkg/contracts/api/v1"
)

func TestValidator_UploadRequest(t *testing.T) {
	tests := []struct {
		name      string
		fileName  string
		wantError string
	}{
		{name: "xlsx", fileName: "vendas.xlsx"},
		{name: "csv upper case", fileName: "VENDAS.CSV"},
		{name: "macro workbook", fileName: "vendas.xlsm"},
		{name: "legacy xls left to loader", fileName: "vendas.xls"},
		{name: "no extension", fileName: "vendas"},
		{name: "empty", fileName: "", wantError: "file_name is required"},
		{name: "traversal", fileName: "../vendas.csv", wantError: "file_name must be a .csv or .xlsx file name"},
		{name: "path", fileName: `C:\data\vendas.csv`, wantError: "file_name must be a .csv or .xlsx file name"},
		{name: "pdf", fileName: "vendas.pdf", wantError: "file_name must be a .csv or .xlsx file name"},
		{name: "control char", fileName: "ven\x00das.csv", wantError: "file_name must be a .csv or .xlsx file name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			v := NewValidator(logger)

			err := v.ValidateStruct(api.UploadRequest{FileName: tt.fileName, Size: 10})
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}

			var apiErr *apperrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, apperrors.CodeValidationFailed, apiErr.ErrorCode)

			details, ok := apiErr.Details.(apperrors.ValidationErrors)
			require.True(t, ok)
			require.Len(t, details.Errors, 1)
			assert.Equal(t, "file_name", details.Errors[0].Field)
			assert.Equal(t, tt.wantError, details.Errors[0].Message)
		})
	}
}

func TestValidator_ExportRequest(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewValidator(logger)

	upload := api.UploadRequest{FileName: "vendas.csv"}
	for _, format := range api.ExportFormats {
		assert.NoError(t, v.ValidateStruct(api.ExportRequest{UploadRequest: upload, Format: format}), format)
	}

	err := v.ValidateStruct(api.ExportRequest{UploadRequest: upload, Format: "pdf"})
	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	details := apiErr.Details.(apperrors.ValidationErrors)
	require.Len(t, details.Errors, 1)
	assert.Equal(t, "format", details.Errors[0].Field)
	assert.Equal(t, "format must be one of: csv, units-csv, xlsx, json", details.Errors[0].Message)
}

func TestValidator_NonStruct(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	err := NewValidator(logger).ValidateStruct("not a struct")

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apperrors.CodeInvalidRequest, apiErr.ErrorCode)
}

func TestContentTypeValidator(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	eh := apperrors.NewErrorHandler(logger, false)
	h := ContentTypeValidator(eh, "multipart/form-data")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{name: "multipart", method: http.MethodPost, contentType: "multipart/form-data; boundary=x", wantStatus: http.StatusOK},
		{name: "get skipped", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "missing", method: http.MethodPost, wantStatus: http.StatusBadRequest},
		{name: "json", method: http.MethodPost, contentType: "application/json", wantStatus: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/reports", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestQueryParamValidator_ValidateEnum(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewQueryParamValidator(apperrors.NewErrorHandler(logger, false))

	tests := []struct {
		query  string
		want   string
		wantOK bool
	}{
		{query: "", want: api.ExportCSV, wantOK: true},
		{query: "?format=XLSX", want: api.ExportXLSX, wantOK: true},
		{query: "?format=units-csv", want: api.ExportUnitsCSV, wantOK: true},
		{query: "?format=pdf", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/reports/export"+tt.query, nil)

			got, ok := v.ValidateEnum(rec, req, "format", api.ExportFormats, api.ExportCSV)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, apperrors.TypeValidation, body["type"])
			}
		})
	}
}
