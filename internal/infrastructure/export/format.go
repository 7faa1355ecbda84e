// Package export renders the aging report as a spreadsheet or a PDF.
package export

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/aging"
)

var locale = language.MustParse("es-AR")

// Amount formats m with es-AR separators and two decimals, e.g. 12.345,50.
func Amount(m types.Money) string {
	return message.NewPrinter(locale).Sprintf("%.2f", money(m))
}

func date(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02/01/2006")
}

var bucketLabels = map[aging.Bucket]string{
	aging.BucketCurrent: "Al día",
	aging.Bucket30:      "1 a 30 días",
	aging.Bucket60:      "31 a 60 días",
	aging.Bucket90:      "61 a 90 días",
	aging.BucketOver90:  "Más de 90 días",
}

var statusLabels = map[string]string{
	"pending": "Pendiente",
	"partial": "Parcial",
	"paid":    "Pagado",
}

func statusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

// table is the shared shape of both detail sections.
type table struct {
	title   string
	headers []string
	rows    [][]cell
}

// cell keeps the typed value for the spreadsheet and the text for the PDF.
type cell struct {
	text  string
	value any
}

func textCell(s string) cell { return cell{text: s, value: s} }

func moneyCell(m types.Money) cell {
	return cell{text: Amount(m), value: money(m)}
}

func intCell(n int) cell {
	return cell{text: message.NewPrinter(locale).Sprintf("%d", n), value: n}
}

const (
	sheetSummary     = "Resumen"
	sheetReceivables = "Cuentas por Cobrar"
	sheetPayables    = "Cuentas por Pagar"
)

func receivablesTable(rows []aging.Receivable, loc *time.Location) table {
	t := table{
		title:   sheetReceivables,
		headers: []string{"Venta", "Cliente", "Fecha", "Total", "Pagado", "Saldo", "Días vencidos", "Antigüedad", "Estado"},
		rows:    make([][]cell, 0, len(rows)),
	}
	for _, r := range rows {
		customer := r.CustomerName
		if customer == "" {
			customer = "Consumidor final"
		}
		t.rows = append(t.rows, []cell{
			textCell(r.SaleNumber),
			textCell(customer),
			textCell(date(r.SaleDate, loc)),
			moneyCell(r.Total),
			moneyCell(r.PaidAmount),
			moneyCell(r.Balance),
			intCell(r.DaysOverdue),
			textCell(bucketLabels[r.Bucket]),
			textCell(statusLabel(string(r.PaymentStatus))),
		})
	}
	return t
}

func payablesTable(rows []aging.Payable, loc *time.Location) table {
	t := table{
		title:   sheetPayables,
		headers: []string{"Orden", "Proveedor", "Fecha", "Total", "Pagado", "Saldo", "Días vencidos", "Antigüedad", "Estado"},
		rows:    make([][]cell, 0, len(rows)),
	}
	for _, p := range rows {
		t.rows = append(t.rows, []cell{
			textCell(p.OrderNumber),
			textCell(p.SupplierName),
			textCell(date(p.OrderDate, loc)),
			moneyCell(p.Total),
			moneyCell(p.PaidAmount),
			moneyCell(p.Balance),
			intCell(p.DaysOverdue),
			textCell(bucketLabels[p.Bucket]),
			textCell(statusLabel(string(p.PaymentStatus))),
		})
	}
	return t
}

func money(m types.Money) float64 {
	f, _ := m.Round(types.MoneyScale).Float64()
	return f
}
