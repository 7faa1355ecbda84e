// Package sales registers point-of-sale sales.
package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/numerator"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/notify"
	"ledgerpos/pkg/logger"
)

// Repository persists sales.
type Repository interface {
	// InsertSale writes the sale header and its items.
	InsertSale(ctx context.Context, sale *ledger.Sale, createdBy *id.ID) error
}

// ItemInput is one requested sale line.
type ItemInput struct {
	ProductID id.ID
	Quantity  types.Quantity
	UnitPrice types.Money
}

// Input is a sale request.
type Input struct {
	CustomerID    *id.ID
	SaleDate      *time.Time
	Status        ledger.SaleStatus
	PaymentMethod string
	Items         []ItemInput
}

// Service registers sales.
type Service struct {
	repo     Repository
	tx       tx.Manager
	numbers  numerator.Generator
	notifier notify.Notifier
	now      func() time.Time
}

// NewService creates a new sales service.
func NewService(repo Repository, txm tx.Manager, numbers numerator.Generator, notifier notify.Notifier) *Service {
	if txm == nil {
		txm = tx.Passthrough
	}
	return &Service{repo: repo, tx: txm, numbers: numbers, notifier: notifier, now: time.Now}
}

// CreateSale validates and stores a new sale with payment status pending,
// then announces it.
func (s *Service) CreateSale(ctx context.Context, companyID, actorID id.ID, in Input) (*ledger.Sale, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	sale := &ledger.Sale{
		ID:            id.New(),
		CompanyID:     companyID,
		CustomerID:    in.CustomerID,
		SaleDate:      s.now(),
		Status:        in.Status,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Items:         make([]ledger.SaleItem, 0, len(in.Items)),
		Payments:      []ledger.Payment{},
	}
	if in.SaleDate != nil {
		sale.SaleDate = *in.SaleDate
	}
	if sale.Status == "" {
		sale.Status = ledger.SaleCompleted
	}

	total := types.Zero()
	for _, it := range in.Items {
		line := ledger.SaleItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
		sale.Items = append(sale.Items, line)
		total = total.Add(line.Subtotal())
	}
	sale.Total = types.Round(total)
	// pending, unless the total is zero
	sale.PaymentStatus = ledger.StatusFor(types.Zero(), sale.Total)

	var createdBy *id.ID
	if !id.IsNil(actorID) {
		createdBy = &actorID
	}

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numbers.Next(ctx, companyID, numerator.DefaultConfig(numerator.PrefixSale), sale.SaleDate)
		if err != nil {
			return err
		}
		sale.Number = number
		return s.repo.InsertSale(ctx, sale, createdBy)
	})
	if err != nil {
		return nil, domain.Fail(ctx, "sales.create", companyID, sale.ID, err)
	}

	logger.Info(ctx, "sale created", "company_id", companyID, "sale_id", sale.ID, "number", sale.Number, "total", sale.Total.String())
	s.notifier.Notify(ctx, notify.NewSale(companyID, sale.ID, sale.Number, sale.Total))
	return sale, nil
}

func (in Input) validate() error {
	if len(in.Items) == 0 {
		return apperror.NewValidation("La venta debe tener al menos un producto").WithDetail("field", "items")
	}
	switch in.Status {
	case "", ledger.SalePending, ledger.SaleConfirmed, ledger.SaleCompleted:
	default:
		return apperror.NewValidation("Estado de venta inválido").WithDetail("field", "status")
	}
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if id.IsNil(it.ProductID) {
			return apperror.NewValidation("El producto es requerido").WithDetail("field", field+".productId")
		}
		if !it.Quantity.IsPositive() {
			return apperror.NewValidation("La cantidad debe ser mayor a cero").WithDetail("field", field+".quantity")
		}
		if it.UnitPrice.IsNegative() {
			return apperror.NewValidation("El precio no puede ser negativo").WithDetail("field", field+".unitPrice")
		}
	}
	return nil
}
