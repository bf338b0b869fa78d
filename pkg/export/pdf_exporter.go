package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const utf8FontFamily = "portal"

// PDFExporter renders datasets into a basic tabular PDF. The built-in fonts
// cover WinAnsi only; Arabic text needs a registered TTF with full glyph
// coverage.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter. fontPath may name a UTF-8 capable
// TTF; when empty, rendering is limited to text the core fonts can encode.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// UnicodeCapable reports whether a UTF-8 font is registered for rendering.
func (e *PDFExporter) UnicodeCapable() bool {
	return e.fontPath != ""
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}

	family := "Arial"
	pdf := gofpdf.New("P", "mm", "A4", "")
	if e.fontPath != "" {
		pdf.AddUTF8Font(utf8FontFamily, "", e.fontPath)
		pdf.AddUTF8Font(utf8FontFamily, "B", e.fontPath)
		family = utf8FontFamily
	} else if err := coreEncodable(data, title); err != nil {
		return nil, err
	}
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont(family, "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			value := row[header]
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// coreEncodable rejects text the single-byte core fonts cannot represent.
// Writing such text anyway would come out as mojibake in the document.
func coreEncodable(data Dataset, title string) error {
	check := func(s string) error {
		for _, r := range s {
			if r > 0xFF {
				return fmt.Errorf("core pdf fonts cannot encode %q, a unicode font is required", s)
			}
		}
		return nil
	}
	if err := check(title); err != nil {
		return err
	}
	for _, header := range data.Headers {
		if err := check(header); err != nil {
			return err
		}
	}
	for _, row := range data.Rows {
		for _, value := range row {
			if err := check(value); err != nil {
				return err
			}
		}
	}
	return nil
}
