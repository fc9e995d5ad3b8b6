package bill

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
)

type pdfColumn struct {
	title string
	width float64
	align string
	value func(r Row) string
}

var pdfColumns = []pdfColumn{
	{"#", 8, "R", func(r Row) string { return fmt.Sprintf("%d", r.Index+1) }},
	{"Date", 20, "L", func(r Row) string { return r.Date }},
	{"Shift", 16, "L", func(r Row) string { return r.Time }},
	{"Customer", 30, "L", func(r Row) string { return r.Customer }},
	{"Kg", 16, "R", func(r Row) string { return fmtFloat(r.WeightKg, 2) }},
	{"Fat %", 12, "R", func(r Row) string { return fmtEntered(r.FatPercentage) }},
	{"SNF %", 12, "R", func(r Row) string { return fmtEntered(r.SNFPercentage) }},
	{"CLR", 14, "R", func(r Row) string { return fmtFloat(r.Result.CLR, 3) }},
	{"Fat Kg", 14, "R", func(r Row) string { return fmtFloat(r.Result.FatKg, 2) }},
	{"SNF Kg", 14, "R", func(r Row) string { return fmtFloat(r.Result.SNFKg, 2) }},
	{"Amount", 22, "R", func(r Row) string { return fmtFloat(r.Result.Amount, 2) }},
}

const (
	rowHeight     = 6.0
	bottomMargin  = 10.0
	summaryMargin = 4.0
)

// RenderPDF lays the bill out as an A4 table with a Code128 barcode of the
// bill number.
func RenderPDF(b *Bill, printedAt time.Time) ([]byte, error) {
	pdf, err := layoutPDF(b, printedAt)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func layoutPDF(b *Bill, printedAt time.Time) (*gofpdf.Fpdf, error) {
	if b == nil || len(b.Rows) == 0 {
		return nil, fmt.Errorf("no rows to render")
	}

	barcodePNG, err := renderCode128PNG(b.Number, 900, 160)
	if err != nil {
		return nil, fmt.Errorf("render barcode: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Milk Bill "+b.Number, false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	dairy := strings.TrimSpace(b.Dairy)
	if dairy == "" {
		dairy = "Milk Collection Bill"
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, dairy, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Bill No: "+b.Number, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Printed: "+printedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := "bill-barcode-" + b.Number
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	pageW, pageH := pdf.GetPageSize()
	imgW, imgH := 90.0, 16.0
	pdf.ImageOptions(imageName, (pageW-imgW)/2, pdf.GetY()+2, imgW, imgH, false, opt, 0, "")
	pdf.SetY(pdf.GetY() + imgH + 6)

	writeTableHeader(pdf)
	pdf.SetFont("Helvetica", "", 9)
	for _, r := range b.Rows {
		if pdf.GetY() > pageH-30 {
			pdf.AddPage()
			writeTableHeader(pdf)
			pdf.SetFont("Helvetica", "", 9)
		}
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, rowHeight, c.value(r), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	t := b.Totals
	summary := []struct{ label, value string }{
		{"Entries", fmt.Sprintf("%d", t.Entries)},
		{"Total Kg", fmtFloat(t.WeightKg, 3)},
		{"Total Liters", fmtFloat(t.Liters, 2)},
		{"Fat Kg", fmtFloat(t.FatKg, 2)},
		{"SNF Kg", fmtFloat(t.SNFKg, 2)},
		{"Average Rate", fmtFloat(t.AverageRate, 2)},
		{"Total Amount", fmtFloat(t.Amount, 2)},
	}
	// Totals stay together on one page.
	if pdf.GetY()+summaryMargin+float64(len(summary))*rowHeight > pageH-bottomMargin {
		pdf.AddPage()
	} else {
		pdf.Ln(summaryMargin)
	}
	pdf.SetFont("Helvetica", "B", 10)
	for _, s := range summary {
		pdf.CellFormat(40, rowHeight, s.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, rowHeight, s.value, "", 1, "R", false, 0, "")
	}

	return pdf, pdf.Error()
}

func writeTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
