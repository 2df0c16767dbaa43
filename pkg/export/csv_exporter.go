package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is the tabular form a simulation report is flattened into
// before rendering. Rows are ordered column slices matching Headers.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Append adds one row, padded so every record has a value per header.
func (d *Dataset) Append(values ...string) {
	row := make([]string, len(d.Headers))
	copy(row, values)
	d.Rows = append(d.Rows, row)
}

// CSVExporter renders a dataset as RFC 4180 CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render returns the encoded bytes, header row first.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("dataset has no headers")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := make([][]string, 0, len(data.Rows)+1)
	records = append(records, data.Headers)
	records = append(records, data.Rows...)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}
