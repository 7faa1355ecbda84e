// Package aging classifies open documents by how long their balance has been
// outstanding relative to a cutoff date.
package aging

import (
	"cmp"
	"math"
	"slices"
	"time"

	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
)

const day = 24 * time.Hour

// DaysOverdue returns floor((cutoff - txDate) / 1 day).
// Documents dated after the cutoff yield negative values (not yet due).
func DaysOverdue(cutoff, txDate time.Time) int {
	return int(math.Floor(float64(cutoff.Sub(txDate)) / float64(day)))
}

// EndOfDay returns the last instant of date's calendar day in loc.
// Cutoffs given as plain dates are evaluated at this instant.
func EndOfDay(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), loc)
}

// StartOfDay returns midnight of date's calendar day in loc.
func StartOfDay(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// FilterByPaymentStatus keeps documents whose payment status is in statuses.
func FilterByPaymentStatus[D ledger.Document](docs []D, statuses ...ledger.PaymentStatus) []D {
	out := make([]D, 0, len(docs))
	for _, d := range docs {
		if ledger.HasStatus(d.DocumentPaymentStatus(), statuses) {
			out = append(out, d)
		}
	}
	return out
}

// FilterByDate keeps documents dated on or before cutoff.
func FilterByDate[D ledger.Document](docs []D, cutoff time.Time) []D {
	out := make([]D, 0, len(docs))
	for _, d := range docs {
		if !d.DocumentDate().After(cutoff) {
			out = append(out, d)
		}
	}
	return out
}

// Aged is a row that knows its days overdue.
type Aged interface {
	Overdue() int
}

// SortByDaysOverdue returns a copy of items ordered by days overdue, most
// overdue first. Ties keep their input order.
func SortByDaysOverdue[T Aged](items []T) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(b.Overdue(), a.Overdue())
	})
	return out
}

// Receivable is one open sale in the receivables report.
type Receivable struct {
	SaleID        string               `json:"saleId"`
	SaleNumber    string               `json:"saleNumber"`
	CustomerID    string               `json:"customerId,omitempty"`
	CustomerName  string               `json:"customerName"`
	SaleDate      time.Time            `json:"saleDate"`
	Total         types.Money          `json:"total"`
	PaidAmount    types.Money          `json:"paidAmount"`
	Balance       types.Money          `json:"balance"`
	DaysOverdue   int                  `json:"daysOverdue"`
	Bucket        Bucket               `json:"bucket"`
	PaymentStatus ledger.PaymentStatus `json:"paymentStatus"`
}

// Overdue implements Aged.
func (r Receivable) Overdue() int { return r.DaysOverdue }

// Payable is one open purchase order in the payables report.
type Payable struct {
	OrderID       string               `json:"orderId"`
	OrderNumber   string               `json:"orderNumber"`
	SupplierID    string               `json:"supplierId"`
	SupplierName  string               `json:"supplierName"`
	OrderDate     time.Time            `json:"orderDate"`
	Total         types.Money          `json:"total"`
	PaidAmount    types.Money          `json:"paidAmount"`
	Balance       types.Money          `json:"balance"`
	DaysOverdue   int                  `json:"daysOverdue"`
	Bucket        Bucket               `json:"bucket"`
	PaymentStatus ledger.PaymentStatus `json:"paymentStatus"`
}

// Overdue implements Aged.
func (p Payable) Overdue() int { return p.DaysOverdue }

// ProcessAccountsReceivable builds the receivables report as of cutoff: open
// sales dated on or before cutoff, most overdue first.
func ProcessAccountsReceivable(sales []ledger.Sale, cutoff time.Time) []Receivable {
	open := FilterByDate(FilterByPaymentStatus(sales, ledger.OpenStatuses...), cutoff)

	rows := make([]Receivable, 0, len(open))
	for _, s := range open {
		days := DaysOverdue(cutoff, s.SaleDate)
		row := Receivable{
			SaleID:        s.ID.String(),
			SaleNumber:    s.Number,
			CustomerName:  s.CustomerName,
			SaleDate:      s.SaleDate,
			Total:         s.Total,
			PaidAmount:    ledger.PaidAmount(s.Payments),
			Balance:       ledger.Balance(s),
			DaysOverdue:   days,
			Bucket:        BucketFor(days),
			PaymentStatus: s.PaymentStatus,
		}
		if s.CustomerID != nil {
			row.CustomerID = s.CustomerID.String()
		}
		rows = append(rows, row)
	}
	return SortByDaysOverdue(rows)
}

// ProcessAccountsPayable builds the payables report as of cutoff.
func ProcessAccountsPayable(orders []ledger.PurchaseOrder, cutoff time.Time) []Payable {
	open := FilterByDate(FilterByPaymentStatus(orders, ledger.OpenStatuses...), cutoff)

	rows := make([]Payable, 0, len(open))
	for _, o := range open {
		days := DaysOverdue(cutoff, o.OrderDate)
		rows = append(rows, Payable{
			OrderID:       o.ID.String(),
			OrderNumber:   o.Number,
			SupplierID:    o.SupplierID.String(),
			SupplierName:  o.SupplierName,
			OrderDate:     o.OrderDate,
			Total:         o.Total,
			PaidAmount:    ledger.PaidAmount(o.DocumentPayments()),
			Balance:       ledger.Balance(o),
			DaysOverdue:   days,
			Bucket:        BucketFor(days),
			PaymentStatus: o.PaymentStatus,
		})
	}
	return SortByDaysOverdue(rows)
}

// Summary nets receivables against payables.
type Summary struct {
	TotalReceivable types.Money `json:"totalReceivable"`
	TotalPayable    types.Money `json:"totalPayable"`
	NetBalance      types.Money `json:"netBalance"`
}

// CalculateFinancialSummary totals both reports.
func CalculateFinancialSummary(receivables []Receivable, payables []Payable) Summary {
	totalReceivable := types.Zero()
	for _, r := range receivables {
		totalReceivable = totalReceivable.Add(r.Balance)
	}
	totalPayable := types.Zero()
	for _, p := range payables {
		totalPayable = totalPayable.Add(p.Balance)
	}
	return Summary{
		TotalReceivable: totalReceivable,
		TotalPayable:    totalPayable,
		NetBalance:      totalReceivable.Sub(totalPayable),
	}
}
