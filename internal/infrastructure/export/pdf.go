package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"ledgerpos/internal/domain/aging"
	"ledgerpos/internal/domain/reports"
)

const (
	pdfMargin  = 10.0
	pdfRowH    = 6.0
	pdfFooterH = 12.0
)

// widths of the nine detail columns on a landscape A4 page, in mm
var pdfCols = []float64{30, 62, 24, 28, 28, 28, 24, 26, 27}

var pdfAlign = []string{"L", "L", "C", "R", "R", "R", "R", "L", "L"}

// WritePDF writes the report as a landscape A4 document: the summary first,
// then receivables and payables, with numbered pages.
func WritePDF(w io.Writer, r *reports.AgingReport) error {
	pdf := renderPDF(r)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}

func renderPDF(r *reports.AgingReport) *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	loc := r.Cutoff.Location()
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfFooterH)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Corte %s - Página %d de {nb}", date(r.Cutoff, loc), pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Estado de cuentas", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr("Fecha de corte: "+date(r.Cutoff, loc)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Generado: "+r.GeneratedAt.In(loc).Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	summary := [][2]string{
		{"Total por cobrar", "$" + Amount(r.Summary.TotalReceivable)},
		{"Total por pagar", "$" + Amount(r.Summary.TotalPayable)},
		{"Saldo neto", "$" + Amount(r.Summary.NetBalance)},
	}
	for _, line := range summary {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, pdfRowH, tr(line[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(40, pdfRowH, line[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(221, 228, 238)
	pdf.CellFormat(50, pdfRowH, tr("Antigüedad"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, pdfRowH, "Por cobrar", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, pdfRowH, "Por pagar", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, b := range aging.AllBuckets {
		pdf.CellFormat(50, pdfRowH, tr(bucketLabels[b]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, pdfRowH, Amount(r.ReceivableAged.Get(b)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, pdfRowH, Amount(r.PayableAged.Get(b)), "1", 1, "R", false, 0, "")
	}

	for _, t := range []table{receivablesTable(r.Receivables, loc), payablesTable(r.Payables, loc)} {
		pdf.AddPage()
		writePDFTable(pdf, tr, t)
	}
	return pdf
}

func writePDFTable(pdf *fpdf.Fpdf, tr func(string) string, t table) {
	_, pageH := pdf.GetPageSize()
	limit := pageH - pdfMargin - pdfFooterH

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, tr(t.title), "", 1, "L", false, 0, "")

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(221, 228, 238)
		for i, h := range t.headers {
			pdf.CellFormat(pdfCols[i], pdfRowH, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	header()

	if len(t.rows) == 0 {
		pdf.CellFormat(0, pdfRowH, "Sin documentos pendientes", "", 1, "L", false, 0, "")
		return
	}

	for _, row := range t.rows {
		if pdf.GetY()+pdfRowH > limit {
			pdf.AddPage()
			header()
		}
		for i, c := range row {
			pdf.CellFormat(pdfCols[i], pdfRowH, tr(truncate(c.text, pdfCols[i])), "1", 0, pdfAlign[i], false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// truncate keeps text inside a column of width mm at the table font size.
func truncate(s string, width float64) string {
	limit := int(width / 1.7)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "."
}
