package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownParseFailure stands in for a missing cause so a ParseError
// always has something to report.
var ErrUnknownParseFailure = errors.New("unknown parse failure")

// SchemaError is returned when required columns are absent. Required holds
// the full list in reporting order, Missing the subset not found.
type SchemaError struct {
	Required []string
	Missing  []string
}

// NewSchemaError creates a schema error. Both slices are copied.
func NewSchemaError(required, missing []string) *SchemaError {
	return &SchemaError{
		Required: append([]string(nil), required...),
		Missing:  append([]string(nil), missing...),
	}
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	msg := "the spreadsheet must contain the following required columns: " + strings.Join(e.Required, ", ")
	if len(e.Missing) > 0 {
		msg += " (missing: " + strings.Join(e.Missing, ", ") + ")"
	}
	return msg
}

// ParseError is returned when the input cannot be read as a table.
// Row and Column are set when a single cell is at fault.
type ParseError struct {
	Source string
	Row    int
	Column string
	Cause  error
}

// NewParseError wraps cause as a ParseError for source.
func NewParseError(source string, cause error) *ParseError {
	if cause == nil {
		cause = ErrUnknownParseFailure
	}
	return &ParseError{Source: source, Cause: cause}
}

// NewCellParseError reports an unreadable cell.
func NewCellParseError(source string, row int, column string, cause error) *ParseError {
	pe := NewParseError(source, cause)
	pe.Row = row
	pe.Column = column
	return pe
}

// Error implements the error interface
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("error processing the spreadsheet")
	if e.Source != "" {
		fmt.Fprintf(&b, " %q", e.Source)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
		if e.Column != "" {
			fmt.Fprintf(&b, ", column %q", e.Column)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Cause.Error())
	return b.String()
}

// Unwrap returns the underlying cause
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// AsSchemaError extracts a SchemaError from err's chain.
func AsSchemaError(err error) (*SchemaError, bool) {
	var se *SchemaError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsParseError extracts a ParseError from err's chain.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// Pipeline error kinds reported by Kind
const (
	KindNone     = "none"
	KindSchema   = "schema"
	KindParse    = "parse"
	KindTimeout  = "timeout"
	KindInternal = "internal"
)

// Kind classifies a pipeline error for metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return KindNone
	case isSchema(err):
		return KindSchema
	case isParse(err):
		return KindParse
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	default:
		return KindInternal
	}
}

func isSchema(err error) bool {
	_, ok := AsSchemaError(err)
	return ok
}

func isParse(err error) bool {
	_, ok := AsParseError(err)
	return ok
}
