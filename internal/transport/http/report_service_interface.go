package http

import (
	"context"
	"io"

	"salespulse/internal/exporter"
	"salespulse/pkg/contracts/domain"
)

// ReportServiceInterface defines the report operations the handlers need
type ReportServiceInterface interface {
	Process(ctx context.Context, src io.Reader, name string) (*domain.Report, error)
	ProcessAndExport(ctx context.Context, src io.Reader, name, format string) (*exporter.Result, error)
}
