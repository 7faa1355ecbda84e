// Package accounts builds balance-annotated account histories for customers
// and suppliers.
package accounts

import (
	"fmt"
	"slices"
	"time"

	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
)

// MovementType tells a debit row from a credit row.
type MovementType string

const (
	MovementSale     MovementType = "sale"
	MovementPurchase MovementType = "purchase"
	MovementPayment  MovementType = "payment"
)

// Movement is one derived row of an account history. Exactly one of Debit
// and Credit is non-zero.
type Movement struct {
	ID          string       `json:"id"`
	Type        MovementType `json:"type"`
	Date        time.Time    `json:"date"`
	Reference   string       `json:"reference"`
	Description string       `json:"description"`
	Debit       types.Money  `json:"debit"`
	Credit      types.Money  `json:"credit"`
	Balance     types.Money  `json:"balance"`
}

func (m Movement) isDebit() bool { return m.Type != MovementPayment }

// CustomerMovements lists one debit per sale and one credit per payment
// recorded against it. Order is not significant.
func CustomerMovements(sales []ledger.Sale) []Movement {
	out := make([]Movement, 0, len(sales))
	for _, s := range sales {
		out = append(out, Movement{
			ID:          s.ID.String(),
			Type:        MovementSale,
			Date:        s.SaleDate,
			Reference:   s.Number,
			Description: fmt.Sprintf("Venta %s", s.Number),
			Debit:       s.Total,
			Credit:      types.Zero(),
		})
		for _, p := range s.Payments {
			out = append(out, paymentMovement(p, s.Number))
		}
	}
	return out
}

// SupplierMovements lists one debit per purchase order and one credit per
// supplier payment. Supplier payments are keyed by the supplier, so they are
// taken as a separate list rather than from the orders.
func SupplierMovements(orders []ledger.PurchaseOrder, payments []ledger.SupplierPayment) []Movement {
	out := make([]Movement, 0, len(orders)+len(payments))

	numbers := make(map[string]string, len(orders))
	for _, o := range orders {
		numbers[o.ID.String()] = o.Number
		out = append(out, Movement{
			ID:          o.ID.String(),
			Type:        MovementPurchase,
			Date:        o.OrderDate,
			Reference:   o.Number,
			Description: fmt.Sprintf("Orden de compra %s", o.Number),
			Debit:       o.Total,
			Credit:      types.Zero(),
		})
	}

	for _, p := range payments {
		ref := ""
		if p.PurchaseOrderID != nil {
			ref = numbers[p.PurchaseOrderID.String()]
		}
		out = append(out, paymentMovement(p.Payment, ref))
	}
	return out
}

func paymentMovement(p ledger.Payment, documentNumber string) Movement {
	ref := documentNumber
	if p.ReferenceNumber != nil && *p.ReferenceNumber != "" {
		ref = *p.ReferenceNumber
	}

	desc := "Pago"
	if p.PaymentMethod != "" {
		desc = fmt.Sprintf("Pago (%s)", p.PaymentMethod)
	}
	if documentNumber != "" {
		desc += " - " + documentNumber
	}

	return Movement{
		ID:          p.ID.String(),
		Type:        MovementPayment,
		Date:        p.PaymentDate,
		Reference:   ref,
		Description: desc,
		Debit:       types.Zero(),
		Credit:      p.Amount,
	}
}

// Reconcile orders movements newest first and annotates each with the
// running balance accumulated from the oldest movement through itself.
// On equal dates debit rows count as older than payments. The input is not
// modified; an empty input yields an empty, non-nil slice.
func Reconcile(movements []Movement) []Movement {
	out := slices.Clone(movements)
	if out == nil {
		out = []Movement{}
	}

	slices.SortStableFunc(out, func(a, b Movement) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		// newest first: payments ahead of documents on the same instant
		switch {
		case a.isDebit() == b.isDebit():
			return 0
		case a.isDebit():
			return 1
		default:
			return -1
		}
	})

	running := types.Zero()
	for i := len(out) - 1; i >= 0; i-- {
		running = running.Add(out[i].Debit).Sub(out[i].Credit)
		out[i].Balance = running
	}
	return out
}
