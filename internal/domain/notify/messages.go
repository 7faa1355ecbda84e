package notify

import (
	"context"
	"fmt"
	"sync"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

// NewSale builds the notification emitted when a sale is registered.
func NewSale(companyID, saleID id.ID, number string, total types.Money) Notification {
	return Notification{
		CompanyID: companyID,
		Kind:      KindNewSale,
		Title:     "Nueva venta",
		Message:   fmt.Sprintf("Se registró la venta %s por $%s", number, total.StringFixed(types.MoneyScale)),
		EntityID:  &saleID,
		Data:      map[string]any{"number": number, "total": total.String()},
	}
}

// PaymentReceived builds the notification emitted when a payment is applied.
func PaymentReceived(companyID, documentID id.ID, documentType, number string, amount types.Money) Notification {
	return Notification{
		CompanyID: companyID,
		Kind:      KindPaymentReceived,
		Title:     "Pago recibido",
		Message:   fmt.Sprintf("Se registró un pago de $%s en %s", amount.StringFixed(types.MoneyScale), number),
		EntityID:  &documentID,
		Data:      map[string]any{"documentType": documentType, "number": number, "amount": amount.String()},
	}
}

// Recorder is an in-memory Notifier. Safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// Sent returns a copy of the recorded notifications.
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}
