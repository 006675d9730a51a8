package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth  = 277.0 // A4 landscape minus margins
	rowHeight  = 6.0
	cellMargin = 2.0
)

// PDFExporter renders datasets into a landscape table.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with the dataset title and table body. Cell text
// that does not fit its column is cut with an ellipsis.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Columns) == 0 {
		return nil, fmt.Errorf("pdf requires at least one column")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	widths := columnWidths(data.Columns)
	titles := data.titles()

	header := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for i, title := range titles {
			pdf.CellFormat(widths[i], rowHeight+1, fit(pdf, tr(title), widths[i]), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 7)
	}

	pdf.AddPage()
	if data.Title != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(2)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range data.Rows {
		if pdf.GetY()+rowHeight > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		for i, value := range data.record(row) {
			text := strings.Join(strings.Fields(value), " ")
			pdf.CellFormat(widths[i], rowHeight, fit(pdf, tr(text), widths[i]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(cols []Column) []float64 {
	total := 0.0
	weights := make([]float64, len(cols))
	for i, col := range cols {
		weights[i] = col.Weight
		if weights[i] <= 0 {
			weights[i] = 1
		}
		total += weights[i]
	}
	for i := range weights {
		weights[i] = pageWidth * weights[i] / total
	}
	return weights
}

// fit works on translated text, which is single-byte encoded. The cut point is
// found by binary search over a prefix no longer than the narrowest glyph allows.
func fit(pdf *gofpdf.Fpdf, text string, width float64) string {
	limit := width - cellMargin
	if pdf.GetStringWidth(text) <= limit {
		return text
	}
	room := limit - pdf.GetStringWidth(ellipsis)
	if room <= 0 {
		return ellipsis
	}
	if narrow := narrowestGlyph(pdf); narrow > 0 {
		if bound := int(room/narrow) + 1; bound < len(text) {
			text = text[:bound]
		}
	}

	lo, hi := 0, len(text)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if pdf.GetStringWidth(text[:mid]) <= room {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return text[:lo] + ellipsis
}

const ellipsis = "..."

func narrowestGlyph(pdf *gofpdf.Fpdf) float64 {
	narrow := 0.0
	for b := 1; b < 256; b++ {
		if w := pdf.GetStringWidth(string([]byte{byte(b)})); w > 0 && (narrow == 0 || w < narrow) {
			narrow = w
		}
	}
	return narrow
}
