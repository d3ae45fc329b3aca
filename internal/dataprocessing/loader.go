package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// Format identifies how an upload is encoded
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}

	// ErrLegacyWorkbook is returned for binary .xls files
	ErrLegacyWorkbook = errors.New("legacy .xls workbooks are not supported, save the file as .xlsx or .csv")
	// ErrEmptyInput is returned for zero-byte uploads
	ErrEmptyInput = errors.New("the file is empty")
	// ErrNoSheets is returned for a workbook without worksheets
	ErrNoSheets = errors.New("the workbook has no worksheets")
)

// DetectFormat picks the reader from the file extension, falling back to
// the content signature when the extension is missing or unknown.
func DetectFormat(name string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	case ".xls":
		return "", ErrLegacyWorkbook
	}

	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX, nil
	case bytes.HasPrefix(data, oleMagic):
		return "", ErrLegacyWorkbook
	case len(data) > 0 && bytes.IndexByte(data, 0) < 0:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unrecognized file format for %q", name)
}

// grid is a sheet read twice: text holds display values for the label
// columns, numeric holds unformatted values for the amount columns. For CSV
// both point at the same rows.
type grid struct {
	text    [][]string
	numeric [][]string
}

func cellAt(rows [][]string, row, col int) string {
	if col < 0 || row >= len(rows) || col >= len(rows[row]) {
		return ""
	}
	return rows[row][col]
}

// Loader reads spreadsheet bytes into a domain.Table
type Loader struct {
	logger  *slog.Logger
	maxRows int
}

// NewLoader creates a loader. maxRows caps the data rows; zero means no cap.
func NewLoader(logger *slog.Logger, maxRows int) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:  logger.With(slog.String("component", "loader")),
		maxRows: maxRows,
	}
}

// Load parses data and validates the header. It returns a SchemaError when
// required columns are missing and a ParseError for anything unreadable.
func (l *Loader) Load(ctx context.Context, data []byte, name string) (*domain.Table, error) {
	if len(data) == 0 {
		return nil, apperrors.NewParseError(name, ErrEmptyInput)
	}

	format, err := DetectFormat(name, data)
	if err != nil {
		return nil, apperrors.NewParseError(name, err)
	}

	var g grid
	switch format {
	case FormatXLSX:
		g, err = readWorkbook(data)
	default:
		g, err = readCSV(data)
	}
	if err != nil {
		return nil, apperrors.NewParseError(name, err)
	}

	l.logger.DebugContext(ctx, "spreadsheet read",
		slog.String("source", name),
		slog.String("format", string(format)),
		slog.Int("raw_rows", len(g.text)))

	return l.buildTable(name, g)
}

func readWorkbook(data []byte) (grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return grid{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return grid{}, ErrNoSheets
	}

	text, err := f.GetRows(sheets[0])
	if err != nil {
		return grid{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	numeric, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return grid{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return grid{text: text, numeric: numeric}, nil
}

func readCSV(data []byte) (grid, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return grid{}, fmt.Errorf("decode text: %w", err)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = detectDelimiter(data)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return grid{}, fmt.Errorf("read csv: %w", err)
	}
	return grid{text: rows, numeric: rows}, nil
}

// detectDelimiter picks the most frequent of , ; and tab on the first line
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (l *Loader) buildTable(source string, g grid) (*domain.Table, error) {
	headerRow := -1
	for i, row := range g.text {
		if !isBlankRow(row) {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return nil, ValidateColumns(nil)
	}

	header := make([]string, len(g.text[headerRow]))
	for i, h := range g.text[headerRow] {
		header[i] = strings.TrimSpace(h)
	}
	if err := ValidateColumns(header); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}

	records := make([]domain.Record, 0, len(g.text)-headerRow-1)
	for i := headerRow + 1; i < len(g.text); i++ {
		if isBlankRow(g.text[i]) && (i >= len(g.numeric) || isBlankRow(g.numeric[i])) {
			continue
		}
		if l.maxRows > 0 && len(records) >= l.maxRows {
			return nil, apperrors.NewParseError(source, fmt.Errorf("the file has more than %d data rows", l.maxRows))
		}

		rec, err := parseRecord(source, g, i, index)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return domain.NewTable(header, records), nil
}

func parseRecord(source string, g grid, row int, index map[string]int) (domain.Record, error) {
	col := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		return -1
	}
	text := func(name string) string {
		return strings.TrimSpace(cellAt(g.text, row, col(name)))
	}
	amount := func(name string) (decimal.Decimal, error) {
		d, err := ParseAmount(cellAt(g.numeric, row, col(name)))
		if err != nil {
			return d, apperrors.NewCellParseError(source, row+1, name, err)
		}
		return d, nil
	}

	rec := domain.Record{
		Row:         row + 1,
		Unit:        text(domain.ColumnUnit),
		Client:      text(domain.ColumnClient),
		Salesperson: text(domain.ColumnSalesperson),
		Month:       text(domain.ColumnMonth),
	}

	var err error
	if rec.PurchaseValue, err = amount(domain.ColumnPurchaseValue); err != nil {
		return rec, err
	}
	if rec.MonthlyValue, err = amount(domain.ColumnMonthlyValue); err != nil {
		return rec, err
	}
	if rec.SubscriptionPlanValue, err = amount(domain.ColumnSubscriptionPlan); err != nil {
		return rec, err
	}
	if i := col(domain.ColumnTemperature); i >= 0 {
		rec.Temperature = ParseOptionalAmount(cellAt(g.numeric, row, i))
	}

	return rec, nil
}
