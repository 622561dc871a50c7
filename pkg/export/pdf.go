package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// PDFRenderer lays documents out on A4 pages. When the document carries an
// ID a QR code encoding VerificationPayload is printed in the header.
type PDFRenderer struct{}

// NewPDFRenderer returns a PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Format() Format      { return FormatPDF }
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

// VerificationPayload is the text encoded in the report QR code.
func VerificationPayload(doc Document) string {
	return fmt.Sprintf("eventmaster:%s:%s:%s", doc.Report, doc.ID, doc.GeneratedAt.UTC().Format("2006-01-02"))
}

// Render writes doc as a PDF.
func (r *PDFRenderer) Render(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(plainSpaces(s)) }

	pdf.SetFooterFunc(func() {
		pdf.SetY(-18)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(107, 114, 128)
		for _, line := range doc.Footer {
			pdf.CellFormat(0, 4, text(line), "", 1, "C", false, 0, "")
		}
	})
	pdf.AddPage()

	if doc.ID != "" {
		png, err := qrcode.Encode(VerificationPayload(doc), qrcode.Medium, qrSize)
		if err != nil {
			return fmt.Errorf("export: encode qr: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("qr", 170, 12, 25, 25, false, opts, 0, "")
	}

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(37, 99, 235)
	pdf.CellFormat(150, 9, text(doc.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(150, 5, text(doc.Generated), "", 1, "L", false, 0, "")
	pdf.CellFormat(150, 5, text(doc.Organization+" - "+doc.Confidentiality), "", 1, "L", false, 0, "")
	if doc.ID != "" {
		pdf.SetFont("Courier", "", 8)
		pdf.CellFormat(150, 5, "ID "+doc.ID, "", 1, "L", false, 0, "")
	}
	pdf.SetY(40)
	pdf.SetDrawColor(31, 41, 55)
	pdf.SetLineWidth(0.6)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(6)

	for _, section := range doc.Sections {
		pdf.SetFont("Arial", "B", 13)
		pdf.SetTextColor(17, 24, 39)
		pdf.CellFormat(0, 8, text(section.Heading), "", 1, "L", false, 0, "")
		if section.Text != "" {
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, text(section.Text), "", "L", false)
			pdf.Ln(2)
		}
		if len(section.KPIs) > 0 {
			pdfKPIs(pdf, section.KPIs, text)
		}
		if section.Table != nil {
			pdfTable(pdf, *section.Table, text)
		}
		pdf.Ln(5)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}

func pdfKPIs(pdf *gofpdf.Fpdf, kpis []KPI, text func(string) string) {
	const gap = 4.0
	width := (180 - gap*float64(len(kpis)-1)) / float64(len(kpis))
	x, y := pdf.GetX(), pdf.GetY()
	pdf.SetFillColor(239, 246, 255)
	for i, k := range kpis {
		left := x + float64(i)*(width+gap)
		pdf.Rect(left, y, width, 16, "F")
		pdf.SetXY(left+2, y+2)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(107, 114, 128)
		pdf.CellFormat(width-4, 4, text(k.Label), "", 2, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(17, 24, 39)
		pdf.CellFormat(width-4, 7, text(k.Value), "", 0, "L", false, 0, "")
	}
	pdf.SetXY(x, y+20)
}

func pdfTable(pdf *gofpdf.Fpdf, t Table, text func(string) string) {
	if len(t.Columns) == 0 {
		return
	}
	width := 180 / float64(len(t.Columns))
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(31, 41, 55)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range t.Columns {
		pdf.CellFormat(width, 7, text(col), "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(17, 24, 39)
	pdf.SetFillColor(249, 250, 251)
	for r, row := range t.Rows {
		for i := range t.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(width, 6, text(truncate(cell, 32)), "", 0, "L", r%2 == 1, 0, "")
		}
		pdf.Ln(-1)
	}
}
