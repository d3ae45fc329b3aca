package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	comma rune
}

// NewCSVWriter creates a new CSV writer instance using comma as delimiter
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{comma: ','}
}

// WithDelimiter returns a copy of the writer using delim between fields
func (w *CSVWriter) WithDelimiter(delim rune) *CSVWriter {
	return &CSVWriter{comma: delim}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes headers and records to dst
func (w *CSVWriter) WriteCSV(dst io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := dst.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(dst)
	writer.Comma = w.comma

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSimpleCSV writes a BOM-prefixed CSV with headers and records
func (w *CSVWriter) WriteSimpleCSV(dst io.Writer, headers []string, records [][]string) error {
	return w.WriteCSV(dst, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}
