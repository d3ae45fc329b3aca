package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name     string
		writer   *CSVWriter
		options  WriteOptions
		expected string
	}{
		{
			name:   "headers and records",
			writer: NewCSVWriter(),
			options: WriteOptions{
				Headers: []string{"Unit", "Clients"},
				Records: [][]string{{"Centro", "2"}, {"Norte", "1"}},
			},
			expected: "Unit,Clients\nCentro,2\nNorte,1\n",
		},
		{
			name:   "with BOM",
			writer: NewCSVWriter(),
			options: WriteOptions{
				Headers:   []string{"A"},
				BOMPrefix: true,
			},
			expected: "\xEF\xBB\xBFA\n",
		},
		{
			name:   "quotes fields with delimiter",
			writer: NewCSVWriter(),
			options: WriteOptions{
				Records: [][]string{{"São Paulo, SP", "1"}},
			},
			expected: "\"São Paulo, SP\",1\n",
		},
		{
			name:   "semicolon delimiter",
			writer: NewCSVWriter().WithDelimiter(';'),
			options: WriteOptions{
				Headers: []string{"Unit", "Clients"},
				Records: [][]string{{"Centro", "2"}},
			},
			expected: "Unit;Clients\nCentro;2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.writer.WriteCSV(&buf, tt.options))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter().WriteSimpleCSV(&buf, []string{"a", "b"}, [][]string{{"1", "2"}}))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, utf8BOM))

	rows, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)
}

func TestCSVWriter_WriteError(t *testing.T) {
	err := NewCSVWriter().WriteCSV(failingWriter{}, WriteOptions{BOMPrefix: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOM")

	err = NewCSVWriter().WriteCSV(failingWriter{}, WriteOptions{Headers: []string{"a"}})
	assert.Error(t, err)
}
