package accounts

import (
	"context"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/ledger"
)

// Repository loads a party's full document history, payments included.
// Every call is scoped to companyID.
type Repository interface {
	ListCustomerSales(ctx context.Context, companyID, customerID id.ID) ([]ledger.Sale, error)
	ListSupplierOrders(ctx context.Context, companyID, supplierID id.ID) ([]ledger.PurchaseOrder, error)
	ListSupplierPayments(ctx context.Context, companyID, supplierID id.ID) ([]ledger.SupplierPayment, error)
}

// Service answers account history and balance queries.
type Service struct {
	repo Repository
}

// NewService creates a new accounts service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetCustomerAccountMovements returns the customer's history, newest first.
func (s *Service) GetCustomerAccountMovements(ctx context.Context, companyID, customerID id.ID) ([]Movement, error) {
	sales, err := s.repo.ListCustomerSales(ctx, companyID, customerID)
	if err != nil {
		return nil, domain.Fail(ctx, "accounts.customer_movements", companyID, customerID, err)
	}
	return Reconcile(CustomerMovements(sales)), nil
}

// GetSupplierAccountMovements returns the supplier's history, newest first.
func (s *Service) GetSupplierAccountMovements(ctx context.Context, companyID, supplierID id.ID) ([]Movement, error) {
	orders, payments, err := s.supplierHistory(ctx, companyID, supplierID)
	if err != nil {
		return nil, domain.Fail(ctx, "accounts.supplier_movements", companyID, supplierID, err)
	}
	return Reconcile(SupplierMovements(orders, payments)), nil
}

// GetCustomerBalance sums the per-sale balances of the customer.
func (s *Service) GetCustomerBalance(ctx context.Context, companyID, customerID id.ID) (types.Money, error) {
	sales, err := s.repo.ListCustomerSales(ctx, companyID, customerID)
	if err != nil {
		return types.Zero(), domain.Fail(ctx, "accounts.customer_balance", companyID, customerID, err)
	}
	return CustomerBalance(sales), nil
}

// GetSupplierBalance nets all purchase order totals against all supplier
// payments.
func (s *Service) GetSupplierBalance(ctx context.Context, companyID, supplierID id.ID) (types.Money, error) {
	orders, payments, err := s.supplierHistory(ctx, companyID, supplierID)
	if err != nil {
		return types.Zero(), domain.Fail(ctx, "accounts.supplier_balance", companyID, supplierID, err)
	}
	return SupplierBalance(orders, payments), nil
}

func (s *Service) supplierHistory(ctx context.Context, companyID, supplierID id.ID) ([]ledger.PurchaseOrder, []ledger.SupplierPayment, error) {
	orders, err := s.repo.ListSupplierOrders(ctx, companyID, supplierID)
	if err != nil {
		return nil, nil, err
	}
	payments, err := s.repo.ListSupplierPayments(ctx, companyID, supplierID)
	if err != nil {
		return nil, nil, err
	}
	return orders, payments, nil
}

// CustomerBalance is Σ CalculateBalance over each sale. Overpaid sales
// contribute negative amounts.
func CustomerBalance(sales []ledger.Sale) types.Money {
	total := types.Zero()
	for _, sale := range sales {
		total = total.Add(ledger.Balance(sale))
	}
	return total
}

// SupplierBalance is Σ order totals − Σ supplier payments. Payments are not
// matched to orders, so a payment without an order still reduces the balance.
func SupplierBalance(orders []ledger.PurchaseOrder, payments []ledger.SupplierPayment) types.Money {
	purchased := types.Zero()
	for _, o := range orders {
		purchased = purchased.Add(o.Total)
	}
	paid := types.Zero()
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return purchased.Sub(paid)
}
