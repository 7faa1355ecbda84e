// Package payments applies payments to sales, repair orders and purchase
// orders and keeps their payment status current.
package payments

import (
	"context"
	"strings"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/notify"
	"ledgerpos/pkg/logger"
)

// DocumentKind names the table family a payment is applied to.
type DocumentKind string

const (
	KindSale          DocumentKind = "sale"
	KindRepair        DocumentKind = "repair_order"
	KindPurchaseOrder DocumentKind = "purchase_order"
)

func (k DocumentKind) label() string {
	switch k {
	case KindSale:
		return "la venta"
	case KindRepair:
		return "la orden de reparación"
	default:
		return "la orden de compra"
	}
}

// Target is the payable state of a document at load time.
type Target struct {
	ID         id.ID
	Number     string
	Total      types.Money
	Paid       types.Money
	Status     ledger.PaymentStatus
	SupplierID *id.ID // purchase orders only
}

// Repository is the store contract for payment application.
type Repository interface {
	LoadDocument(ctx context.Context, companyID id.ID, kind DocumentKind, documentID id.ID) (Target, error)
	// InsertPayment appends p. Purchase order payments land in the supplier
	// account keyed by target.SupplierID.
	InsertPayment(ctx context.Context, companyID id.ID, kind DocumentKind, target Target, p ledger.Payment) error
	UpdatePaymentStatus(ctx context.Context, companyID id.ID, kind DocumentKind, documentID id.ID, status ledger.PaymentStatus) error
}

// Input is one payment request.
type Input struct {
	Amount          types.Money
	Method          string
	PaymentDate     *time.Time
	ReferenceNumber *string
	Notes           *string
}

// Applied is the outcome returned to the caller.
type Applied struct {
	Payment       ledger.Payment       `json:"payment"`
	PaymentStatus ledger.PaymentStatus `json:"paymentStatus"`
	Balance       types.Money          `json:"balance"`
}

// Service applies payments.
//
// The insert and the status update are separate writes issued in that order
// with no wrapping transaction, and the new paid amount is computed from the
// state read before the insert. Two concurrent payments against one document
// can therefore both read the same prior amount.
type Service struct {
	repo     Repository
	notifier notify.Notifier
	now      func() time.Time
}

// NewService creates a new payments service.
func NewService(repo Repository, notifier notify.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier, now: time.Now}
}

// AddSalePayment applies a payment to a sale.
func (s *Service) AddSalePayment(ctx context.Context, companyID, actorID, saleID id.ID, in Input) (*Applied, error) {
	return s.apply(ctx, companyID, actorID, KindSale, saleID, in)
}

// AddRepairPayment applies a payment to a repair order.
func (s *Service) AddRepairPayment(ctx context.Context, companyID, actorID, repairID id.ID, in Input) (*Applied, error) {
	return s.apply(ctx, companyID, actorID, KindRepair, repairID, in)
}

// AddPurchasePayment records a supplier payment against a purchase order.
func (s *Service) AddPurchasePayment(ctx context.Context, companyID, actorID, orderID id.ID, in Input) (*Applied, error) {
	return s.apply(ctx, companyID, actorID, KindPurchaseOrder, orderID, in)
}

func (s *Service) apply(ctx context.Context, companyID, actorID id.ID, kind DocumentKind, documentID id.ID, in Input) (*Applied, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	op := "payments.add_" + string(kind)

	target, err := s.repo.LoadDocument(ctx, companyID, kind, documentID)
	if err != nil {
		return nil, domain.Fail(ctx, op, companyID, documentID, domain.NormalizeNotFound(err, kind.label(), documentID))
	}

	p := ledger.Payment{
		ID:              id.New(),
		DocumentID:      documentID,
		Amount:          in.Amount,
		PaymentDate:     s.now(),
		PaymentMethod:   strings.TrimSpace(in.Method),
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	}
	if in.PaymentDate != nil {
		p.PaymentDate = *in.PaymentDate
	}
	if !id.IsNil(actorID) {
		p.CreatedBy = &actorID
	}

	if err := s.repo.InsertPayment(ctx, companyID, kind, target, p); err != nil {
		return nil, domain.Fail(ctx, op, companyID, documentID, err)
	}

	newPaid := target.Paid.Add(in.Amount)
	status := ledger.StatusFor(newPaid, target.Total)
	if newPaid.GreaterThan(target.Total) {
		logger.Warn(ctx, "document overpaid",
			"op", op,
			"company_id", companyID,
			"entity_id", documentID,
			"total", target.Total.String(),
			"paid", newPaid.String(),
		)
	}

	if err := s.repo.UpdatePaymentStatus(ctx, companyID, kind, documentID, status); err != nil {
		logger.Error(ctx, "payment recorded but status not updated",
			"op", op, "company_id", companyID, "entity_id", documentID, "payment_id", p.ID)
		return nil, domain.Fail(ctx, op, companyID, documentID, err)
	}

	s.notifier.Notify(ctx, notify.PaymentReceived(companyID, documentID, string(kind), target.Number, in.Amount))

	return &Applied{
		Payment:       p,
		PaymentStatus: status,
		Balance:       target.Total.Sub(newPaid),
	}, nil
}

func (in Input) validate() error {
	if !in.Amount.IsPositive() {
		return apperror.NewValidation("El monto del pago debe ser mayor a cero").
			WithDetail("field", "amount")
	}
	if strings.TrimSpace(in.Method) == "" {
		return apperror.NewValidation("El método de pago es requerido").
			WithDetail("field", "paymentMethod")
	}
	return nil
}
