package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a dataset as a one-table A4 document.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render draws the title and the table. Column widths are uniform.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("dataset has no headers")
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(10, 15, 10)
	doc.AddPage()

	if data.Title != "" {
		doc.SetFont("Helvetica", "B", 14)
		doc.CellFormat(0, 10, data.Title, "", 1, "C", false, 0, "")
		doc.Ln(4)
	}

	width := 190.0 / float64(len(data.Headers))
	writeRow := func(cells []string, border string) {
		for _, cell := range cells {
			doc.CellFormat(width, 7, cell, border, 0, "", false, 0, "")
		}
		doc.Ln(-1)
	}

	doc.SetFont("Helvetica", "B", 10)
	writeRow(data.Headers, "1")
	doc.SetFont("Helvetica", "", 9)
	for _, row := range data.Rows {
		writeRow(row, "1")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("encode pdf: %w", err)
	}
	return buf.Bytes(), nil
}
