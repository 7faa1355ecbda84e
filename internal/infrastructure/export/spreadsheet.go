package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ledgerpos/internal/domain/aging"
	"ledgerpos/internal/domain/reports"
)

// numFmtAmount is the built-in "#,##0.00" format.
const numFmtAmount = 4

type styles struct {
	header int
	amount int
	title  int
}

// WriteSpreadsheet writes the report as an xlsx workbook with the sheets
// Resumen, Cuentas por Cobrar and Cuentas por Pagar.
func WriteSpreadsheet(w io.Writer, r *reports.AgingReport) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	if err := writeSummary(f, st, r); err != nil {
		return err
	}

	loc := r.Cutoff.Location()
	for _, t := range []table{receivablesTable(r.Receivables, loc), payablesTable(r.Payables, loc)} {
		if _, err := f.NewSheet(t.title); err != nil {
			return fmt.Errorf("export: add sheet %s: %w", t.title, err)
		}
		if err := writeTable(f, st, t); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write xlsx: %w", err)
	}
	return nil
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	if st.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDE4EE"}},
	}); err != nil {
		return st, fmt.Errorf("export: header style: %w", err)
	}
	if st.amount, err = f.NewStyle(&excelize.Style{NumFmt: numFmtAmount}); err != nil {
		return st, fmt.Errorf("export: amount style: %w", err)
	}
	if st.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return st, fmt.Errorf("export: title style: %w", err)
	}
	return st, nil
}

func writeSummary(f *excelize.File, st styles, r *reports.AgingReport) error {
	loc := r.Cutoff.Location()
	rows := [][]any{
		{"Estado de cuentas"},
		{"Fecha de corte", date(r.Cutoff, loc)},
		{"Generado", r.GeneratedAt.In(loc).Format("02/01/2006 15:04")},
		{},
		{"Total por cobrar", money(r.Summary.TotalReceivable)},
		{"Total por pagar", money(r.Summary.TotalPayable)},
		{"Saldo neto", money(r.Summary.NetBalance)},
		{},
		{"Antigüedad", "Por cobrar", "Por pagar"},
	}
	for _, b := range aging.AllBuckets {
		rows = append(rows, []any{bucketLabels[b], money(r.ReceivableAged.Get(b)), money(r.PayableAged.Get(b))})
	}

	for i, row := range rows {
		cellName, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetSummary, cellName, &row); err != nil {
			return fmt.Errorf("export: summary row %d: %w", i+1, err)
		}
	}

	_ = f.SetCellStyle(sheetSummary, "A1", "A1", st.title)
	_ = f.SetCellStyle(sheetSummary, "A9", "C9", st.header)
	_ = f.SetCellStyle(sheetSummary, "B5", "B7", st.amount)
	last := fmt.Sprintf("C%d", len(rows))
	_ = f.SetCellStyle(sheetSummary, "B10", last, st.amount)
	return f.SetColWidth(sheetSummary, "A", "C", 20)
}

func writeTable(f *excelize.File, st styles, t table) error {
	header := make([]any, len(t.headers))
	for i, h := range t.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(t.title, "A1", &header); err != nil {
		return fmt.Errorf("export: %s header: %w", t.title, err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(t.headers))
	_ = f.SetCellStyle(t.title, "A1", lastCol+"1", st.header)

	for i, row := range t.rows {
		values := make([]any, len(row))
		for j, c := range row {
			values[j] = c.value
		}
		cellName, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(t.title, cellName, &values); err != nil {
			return fmt.Errorf("export: %s row %d: %w", t.title, i+2, err)
		}
	}
	if len(t.rows) > 0 {
		_ = f.SetCellStyle(t.title, "D2", fmt.Sprintf("F%d", len(t.rows)+1), st.amount)
	}

	if err := f.SetPanes(t.title, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("export: %s panes: %w", t.title, err)
	}
	return f.SetColWidth(t.title, "A", lastCol, 16)
}
