package ledger

import (
	"slices"
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

// Document is the {total, payments} capability shared by Sale, PurchaseOrder
// and RepairOrder.
type Document interface {
	DocumentID() id.ID
	DocumentNumber() string
	DocumentDate() time.Time
	DocumentTotal() types.Money
	DocumentPayments() []Payment
	DocumentPaymentStatus() PaymentStatus
}

// CalculateBalance returns total minus the sum of payment amounts.
// The result is not clamped: a negative balance is an overpayment.
func CalculateBalance(total types.Money, payments []Payment) types.Money {
	return total.Sub(PaidAmount(payments))
}

// PaidAmount sums payment amounts.
func PaidAmount(payments []Payment) types.Money {
	paid := types.Zero()
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// Balance returns the outstanding balance of doc.
func Balance(doc Document) types.Money {
	return CalculateBalance(doc.DocumentTotal(), doc.DocumentPayments())
}

// StatusFor derives the payment status. Paid wins whenever paid covers total,
// which makes a zero-total document paid from the start.
func StatusFor(paid, total types.Money) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return PaymentPaid
	case paid.IsPositive():
		return PaymentPartial
	default:
		return PaymentPending
	}
}

// HasStatus reports whether s is one of statuses.
func HasStatus(s PaymentStatus, statuses []PaymentStatus) bool {
	return slices.Contains(statuses, s)
}

func (s Sale) DocumentID() id.ID                    { return s.ID }
func (s Sale) DocumentNumber() string               { return s.Number }
func (s Sale) DocumentDate() time.Time              { return s.SaleDate }
func (s Sale) DocumentTotal() types.Money           { return s.Total }
func (s Sale) DocumentPayments() []Payment          { return s.Payments }
func (s Sale) DocumentPaymentStatus() PaymentStatus { return s.PaymentStatus }

func (r RepairOrder) DocumentID() id.ID                    { return r.ID }
func (r RepairOrder) DocumentNumber() string               { return r.Number }
func (r RepairOrder) DocumentDate() time.Time              { return r.ReceivedAt }
func (r RepairOrder) DocumentTotal() types.Money           { return r.Total }
func (r RepairOrder) DocumentPayments() []Payment          { return r.Payments }
func (r RepairOrder) DocumentPaymentStatus() PaymentStatus { return r.PaymentStatus }

func (o PurchaseOrder) DocumentID() id.ID                    { return o.ID }
func (o PurchaseOrder) DocumentNumber() string               { return o.Number }
func (o PurchaseOrder) DocumentDate() time.Time              { return o.OrderDate }
func (o PurchaseOrder) DocumentTotal() types.Money           { return o.Total }
func (o PurchaseOrder) DocumentPaymentStatus() PaymentStatus { return o.PaymentStatus }

// DocumentPayments returns the supplier payments recorded against this order.
func (o PurchaseOrder) DocumentPayments() []Payment {
	out := make([]Payment, len(o.Payments))
	for i, p := range o.Payments {
		out[i] = p.Payment
	}
	return out
}

var (
	_ Document = Sale{}
	_ Document = PurchaseOrder{}
	_ Document = RepairOrder{}
)
