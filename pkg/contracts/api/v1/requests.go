// Package api contains API contract definitions for the Sales Pulse service.
// Version v1 represents the current stable API version.
package api

// Export formats accepted by the export endpoint
const (
	ExportCSV      = "csv"
	ExportUnitsCSV = "units-csv"
	ExportXLSX     = "xlsx"
	ExportJSON     = "json"
)

// ExportFormats lists every accepted export format
var ExportFormats = []string{ExportCSV, ExportUnitsCSV, ExportXLSX, ExportJSON}

// UploadRequest describes the multipart upload shared by both report endpoints
type UploadRequest struct {
	FileName string `json:"file_name" validate:"required,max=255,spreadsheet"`
	Size     int64  `json:"size" validate:"min=0"`
}

// ExportRequest is an upload plus the requested export format
type ExportRequest struct {
	UploadRequest
	Format string `json:"format" query:"format" validate:"required,oneof=csv units-csv xlsx json"`
}

