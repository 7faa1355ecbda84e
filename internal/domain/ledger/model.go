// Package ledger defines the settleable documents of the ledger store (sales,
// purchase orders, repair orders), their payments, and the balance rules shared
// by every reconciliation component.
package ledger

import (
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

// PaymentStatus is derived from a document's total and its payments.
// Only Payment Application writes it.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// OpenStatuses are the payment statuses that still carry a balance.
var OpenStatuses = []PaymentStatus{PaymentPending, PaymentPartial}

// SaleStatus is the commercial lifecycle of a sale, independent of payment.
type SaleStatus string

const (
	SalePending   SaleStatus = "pending"
	SaleConfirmed SaleStatus = "confirmed"
	SaleCompleted SaleStatus = "completed"
	SaleCancelled SaleStatus = "cancelled"
)

// RevenueStatuses are the sale statuses counted as revenue.
var RevenueStatuses = []SaleStatus{SaleConfirmed, SaleCompleted}

// Payment is one recorded monetary application against a document. Append-only.
type Payment struct {
	ID              id.ID       `db:"id" json:"id"`
	DocumentID      id.ID       `db:"document_id" json:"documentId"`
	Amount          types.Money `db:"amount" json:"amount"`
	PaymentDate     time.Time   `db:"payment_date" json:"paymentDate"`
	PaymentMethod   string      `db:"payment_method" json:"paymentMethod"`
	ReferenceNumber *string     `db:"reference_number" json:"referenceNumber,omitempty"`
	Notes           *string     `db:"notes" json:"notes,omitempty"`
	CreatedBy       *id.ID      `db:"created_by" json:"createdBy,omitempty"`
}

// SupplierPayment is a payment recorded against a supplier account. It may
// name the purchase order it settles, but supplier balances do not require it.
type SupplierPayment struct {
	Payment
	SupplierID      id.ID  `db:"supplier_id" json:"supplierId"`
	PurchaseOrderID *id.ID `db:"purchase_order_id" json:"purchaseOrderId,omitempty"`
}

// SaleItem is one line of a sale.
type SaleItem struct {
	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`
}

// Subtotal returns quantity × unit price.
func (i SaleItem) Subtotal() types.Money {
	return i.UnitPrice.Mul(i.Quantity)
}

// Sale is a customer-facing document.
type Sale struct {
	ID            id.ID         `db:"id" json:"id"`
	CompanyID     id.ID         `db:"company_id" json:"-"`
	Number        string        `db:"sale_number" json:"saleNumber"`
	CustomerID    *id.ID        `db:"customer_id" json:"customerId,omitempty"`
	CustomerName  string        `db:"customer_name" json:"customerName,omitempty"`
	Total         types.Money   `db:"total" json:"total"`
	SaleDate      time.Time     `db:"sale_date" json:"saleDate"`
	Status        SaleStatus    `db:"status" json:"status"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`
	PaymentMethod string        `db:"payment_method" json:"paymentMethod"`
	Items         []SaleItem    `db:"-" json:"items,omitempty"`
	Payments      []Payment     `db:"-" json:"payments"`
}

// PurchaseOrder is a supplier-facing document.
type PurchaseOrder struct {
	ID            id.ID             `db:"id" json:"id"`
	CompanyID     id.ID             `db:"company_id" json:"-"`
	Number        string            `db:"order_number" json:"orderNumber"`
	SupplierID    id.ID             `db:"supplier_id" json:"supplierId"`
	SupplierName  string            `db:"supplier_name" json:"supplierName,omitempty"`
	Total         types.Money       `db:"total" json:"total"`
	OrderDate     time.Time         `db:"order_date" json:"orderDate"`
	Status        string            `db:"status" json:"status"`
	PaymentStatus PaymentStatus     `db:"payment_status" json:"paymentStatus"`
	Payments      []SupplierPayment `db:"-" json:"payments"`
}

// RepairOrder is a service-desk document billed to a customer.
type RepairOrder struct {
	ID            id.ID         `db:"id" json:"id"`
	CompanyID     id.ID         `db:"company_id" json:"-"`
	Number        string        `db:"order_number" json:"orderNumber"`
	CustomerID    *id.ID        `db:"customer_id" json:"customerId,omitempty"`
	Total         types.Money   `db:"total" json:"total"`
	ReceivedAt    time.Time     `db:"received_at" json:"receivedAt"`
	Status        string        `db:"status" json:"status"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`
	Payments      []Payment     `db:"-" json:"payments"`
}
