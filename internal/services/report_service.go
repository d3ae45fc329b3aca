package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	apperrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/pkg/contracts/domain"
)

// ReportProcessor turns one uploaded spreadsheet into a report
type ReportProcessor interface {
	Process(ctx context.Context, src io.Reader, name string) (*domain.Report, error)
}

// ReportExporter renders a report in a download format
type ReportExporter interface {
	Export(report *domain.Report, format string) (*exporter.Result, error)
}

// ReportService coordinates processing and export of uploads
type ReportService struct {
	processor ReportProcessor
	exporter  ReportExporter
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
}

// NewReportService creates a report service. metrics may be nil.
func NewReportService(processor ReportProcessor, exp ReportExporter, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		processor: processor,
		exporter:  exp,
		metrics:   metrics,
		logger:    logger.With(slog.String("service", "report")),
	}
}

// Process loads, validates and aggregates src. Every call is independent;
// a failure leaves nothing behind for the next one.
func (s *ReportService) Process(ctx context.Context, src io.Reader, name string) (*domain.Report, error) {
	start := time.Now()
	var (
		counter *countingReader
		reader  io.Reader
	)
	if src != nil {
		counter = &countingReader{r: src}
		reader = counter
	}

	report, err := s.processor.Process(ctx, reader, name)
	duration := time.Since(start)
	size := counter.count()

	rows := 0
	if report != nil {
		rows = report.RowCount
	}
	infrastructure.RecordUpload(ctx, s.metrics, apperrors.Kind(err), rows, size, duration)

	if err != nil {
		level := slog.LevelWarn
		if apperrors.Kind(err) == apperrors.KindInternal {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "spreadsheet rejected",
			slog.String("source", name),
			slog.String("kind", apperrors.Kind(err)),
			slog.String("error", err.Error()),
			slog.Int64("bytes", size),
			slog.Duration("duration", duration))
		return nil, err
	}

	s.logger.InfoContext(ctx, "spreadsheet processed",
		slog.String("source", name),
		slog.Int("rows", report.RowCount),
		slog.Int("clients", report.Summary.ClientCount),
		slog.Int("units", len(report.UnitCounts)),
		slog.Int("salespeople", len(report.Salespeople)),
		slog.Int("warnings", len(report.Warnings)),
		slog.Int64("bytes", size),
		slog.Duration("duration", duration))

	return report, nil
}

// Export renders report in format
func (s *ReportService) Export(ctx context.Context, report *domain.Report, format string) (*exporter.Result, error) {
	if report == nil {
		return nil, ErrNoReport
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.exporter.Export(report, format)
	if err != nil {
		s.logger.WarnContext(ctx, "export failed",
			slog.String("source", report.SourceName),
			slog.String("format", format),
			slog.String("error", err.Error()))
		return nil, err
	}

	infrastructure.RecordExport(ctx, s.metrics, format)
	s.logger.InfoContext(ctx, "report exported",
		slog.String("source", report.SourceName),
		slog.String("format", format),
		slog.String("file_name", result.FileName),
		slog.Int("bytes", len(result.Data)))

	return result, nil
}

// ProcessAndExport is Process followed by Export
func (s *ReportService) ProcessAndExport(ctx context.Context, src io.Reader, name, format string) (*exporter.Result, error) {
	report, err := s.Process(ctx, src, name)
	if err != nil {
		return nil, err
	}
	return s.Export(ctx, report, format)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) count() int64 {
	if c == nil {
		return 0
	}
	return c.n
}
