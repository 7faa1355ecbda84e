package dto

import (
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/payments"
	"ledgerpos/internal/domain/sales"
)

// SaleItemRequest is one sale line.
type SaleItemRequest struct {
	ProductID string         `json:"productId" binding:"required,uuid"`
	Quantity  types.Quantity `json:"quantity" binding:"money_gt0"`
	UnitPrice types.Money    `json:"unitPrice"`
}

// CreateSaleRequest registers a sale.
type CreateSaleRequest struct {
	CustomerID    *string           `json:"customerId" binding:"omitempty,uuid"`
	SaleDate      *time.Time        `json:"saleDate"`
	Status        string            `json:"status" binding:"omitempty,oneof=pending confirmed completed"`
	PaymentMethod string            `json:"paymentMethod" binding:"required,max=50"`
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToInput converts the request to the service input. Ids were checked by binding.
func (r CreateSaleRequest) ToInput() sales.Input {
	in := sales.Input{
		SaleDate:      r.SaleDate,
		Status:        ledger.SaleStatus(r.Status),
		PaymentMethod: r.PaymentMethod,
		Items:         make([]sales.ItemInput, len(r.Items)),
	}
	if r.CustomerID != nil {
		customerID := id.MustParse(*r.CustomerID)
		in.CustomerID = &customerID
	}
	for i, it := range r.Items {
		in.Items[i] = sales.ItemInput{
			ProductID: id.MustParse(it.ProductID),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	return in
}

// AddPaymentRequest applies a payment to a sale, repair order or purchase order.
type AddPaymentRequest struct {
	Amount          types.Money `json:"amount" binding:"money_gt0"`
	PaymentMethod   string      `json:"paymentMethod" binding:"required,max=50"`
	PaymentDate     *time.Time  `json:"paymentDate"`
	ReferenceNumber *string     `json:"referenceNumber" binding:"omitempty,max=100"`
	Notes           *string     `json:"notes"`
}

// ToInput converts the request to the service input.
func (r AddPaymentRequest) ToInput() payments.Input {
	return payments.Input{
		Amount:          r.Amount,
		Method:          r.PaymentMethod,
		PaymentDate:     r.PaymentDate,
		ReferenceNumber: r.ReferenceNumber,
		Notes:           r.Notes,
	}
}
