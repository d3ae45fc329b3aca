package dataprocessing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

const tracerName = "salespulse/dataprocessing"

// ProcessorConfig bounds a single run. Zero values disable the limit.
type ProcessorConfig struct {
	MaxBytes int64
	MaxRows  int
}

// Processor runs load, validate and aggregate for one upload
type Processor struct {
	logger *slog.Logger
	loader *Loader
	config ProcessorConfig
	tracer trace.Tracer
}

// NewProcessor creates a processor
func NewProcessor(logger *slog.Logger, cfg ProcessorConfig) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger: logger.With(slog.String("component", "processor")),
		loader: NewLoader(logger, cfg.MaxRows),
		config: cfg,
		tracer: otel.Tracer(tracerName),
	}
}

// Process reads src completely and returns the aggregated report. Failures
// are a *errors.SchemaError, a *errors.ParseError or the context error.
func (p *Processor) Process(ctx context.Context, src io.Reader, name string) (report *domain.Report, err error) {
	ctx, span := p.tracer.Start(ctx, "report.process", trace.WithAttributes(attribute.String("source", name)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, apperrors.Kind(err))
		}
		span.End()
	}()

	defer func() {
		if rec := recover(); rec != nil {
			p.logger.ErrorContext(ctx, "panic while processing spreadsheet",
				slog.String("source", name),
				slog.Any("panic", rec))
			report, err = nil, apperrors.NewParseError(name, fmt.Errorf("unexpected failure: %v", rec))
		}
	}()

	start := time.Now()

	data, err := p.read(src, name)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("bytes", len(data)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := p.load(ctx, data, name)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, aggSpan := p.tracer.Start(ctx, "report.aggregate")
	report = Aggregate(table, name)
	aggSpan.SetAttributes(
		attribute.Int("rows", report.RowCount),
		attribute.Int("salespeople", len(report.Salespeople)),
		attribute.Int("units", len(report.UnitCounts)))
	aggSpan.End()

	p.logger.DebugContext(ctx, "spreadsheet aggregated",
		slog.String("source", name),
		slog.Int("rows", report.RowCount),
		slog.Int("units", len(report.UnitCounts)),
		slog.Int("salespeople", len(report.Salespeople)),
		slog.Duration("duration", time.Since(start)))

	return report, nil
}

// ProcessBytes is Process for data already in memory
func (p *Processor) ProcessBytes(ctx context.Context, data []byte, name string) (*domain.Report, error) {
	return p.Process(ctx, bytes.NewReader(data), name)
}

func (p *Processor) read(src io.Reader, name string) ([]byte, error) {
	if src == nil {
		return nil, apperrors.NewParseError(name, ErrEmptyInput)
	}

	r := src
	if p.config.MaxBytes > 0 {
		r = io.LimitReader(src, p.config.MaxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewParseError(name, fmt.Errorf("read input: %w", err))
	}
	if p.config.MaxBytes > 0 && int64(len(data)) > p.config.MaxBytes {
		return nil, apperrors.NewParseError(name, fmt.Errorf("the file exceeds the %d byte limit", p.config.MaxBytes))
	}
	return data, nil
}

func (p *Processor) load(ctx context.Context, data []byte, name string) (*domain.Table, error) {
	ctx, span := p.tracer.Start(ctx, "report.load")
	defer span.End()

	table, err := p.loader.Load(ctx, data, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperrors.Kind(err))
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", table.Len()))
	return table, nil
}
