package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont       = "Helvetica"
	pdfMargin     = 15.0
	pdfTitleSize  = 20.0
	pdfHeadSize   = 14.0
	pdfBodySize   = 11.0
	pdfSmallSize  = 8.0
	pdfLineHeight = 7.0
	pdfGap        = 4.0
)

// RenderPDF writes d as a US Letter PDF.
func RenderPDF(w io.Writer, d Data) error {
	pdf := newPDF(d)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return nil
}

// WritePDFFile renders d into path, creating or truncating it.
func WritePDFFile(path string, d Data) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return RenderPDF(f, d)
}

func newPDF(d Data) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetCompression(true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetTitle(Title, true)
	pdf.SetCreator("emissionmission", true)
	if d.Author != "" {
		pdf.SetAuthor(d.Author, true)
	}
	if !d.GeneratedAt.IsZero() {
		pdf.SetCreationDate(d.GeneratedAt)
		pdf.SetModificationDate(d.GeneratedAt)
	}

	// Core fonts are cp1252; the translator maps the bullet and similar runes.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont(pdfFont, "I", pdfSmallSize)
		pdf.SetTextColor(128, 128, 128)
		footer := fmt.Sprintf("Report %s", d.ID)
		if !d.GeneratedAt.IsZero() {
			footer += " - generated " + d.GeneratedAt.Format("2006-01-02 15:04 MST")
		}
		pdf.CellFormat(0, pdfLineHeight, tr(footer), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", pdfTitleSize)
	pdf.CellFormat(0, 12, Title, "", 1, "C", false, 0, "")
	pdf.Ln(pdfGap)

	pdf.SetFont(pdfFont, "B", pdfHeadSize)
	pdf.CellFormat(0, pdfLineHeight+1, tr(d.TotalLine()), "", 1, "L", false, 0, "")
	pdf.Ln(pdfGap)

	section := func(heading string, lines []string, bullet bool) {
		if len(lines) == 0 {
			return
		}
		pdf.SetFont(pdfFont, "B", pdfBodySize+1)
		pdf.CellFormat(0, pdfLineHeight, heading, "", 1, "L", false, 0, "")
		pdf.SetFont(pdfFont, "", pdfBodySize)
		for _, line := range lines {
			if bullet {
				line = "• " + line
			}
			pdf.MultiCell(0, pdfLineHeight, tr(line), "", "L", false)
		}
		pdf.Ln(pdfGap)
	}

	section("Breakdown:", d.BreakdownLines(), false)
	if d.Comparison != "" {
		section("Comparison:", []string{d.Comparison}, false)
	}
	section("Suggestions:", d.Suggestions, true)
	section("Savings:", d.SavingsLines(), false)
	if d.Equivalency != "" {
		section("In perspective:", []string{d.Equivalency}, false)
	}

	return pdf
}
