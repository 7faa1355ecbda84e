package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/accounts"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/sales"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

// Store implements the sales, accounts and payments repositories.
type Store struct {
	txManager *postgres.TxManager
}

var (
	_ sales.Repository    = (*Store)(nil)
	_ accounts.Repository = (*Store)(nil)
)

// NewStore creates a new document store.
func NewStore(txManager *postgres.TxManager) *Store {
	return &Store{txManager: txManager}
}

// InsertSale writes the sale header and its items. Callers run it inside a
// transaction so a failed item insert leaves no header behind.
func (r *Store) InsertSale(ctx context.Context, sale *ledger.Sale, createdBy *id.ID) error {
	querier := r.txManager.GetQuerier(ctx)

	sql, args, err := Builder().
		Insert("sales").
		Columns("id", "company_id", "sale_number", "customer_id", "total", "sale_date",
			"status", "payment_status", "payment_method", "created_by").
		Values(sale.ID, sale.CompanyID, sale.Number, sale.CustomerID, sale.Total, sale.SaleDate,
			sale.Status, sale.PaymentStatus, sale.PaymentMethod, createdBy).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sales: %w", err)
	}

	if len(sale.Items) == 0 {
		return nil
	}

	items := Builder().
		Insert("sale_items").
		Columns("id", "company_id", "sale_id", "product_id", "quantity", "unit_price", "subtotal")
	for _, it := range sale.Items {
		items = items.Values(id.New(), sale.CompanyID, sale.ID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal())
	}

	sql, args, err = items.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale_items: %w", err)
	}
	return nil
}

// ListCustomerSales returns every sale of the customer, whatever its status,
// with payments.
func (r *Store) ListCustomerSales(ctx context.Context, companyID, customerID id.ID) ([]ledger.Sale, error) {
	return SelectSales(ctx, r.txManager.GetQuerier(ctx), companyID, customerSalesFilter(customerID), "s.sale_date", "s.id")
}

func customerSalesFilter(customerID id.ID) squirrel.Sqlizer {
	return squirrel.Eq{"s.customer_id": customerID}
}

// ListSupplierOrders returns every purchase order of the supplier.
func (r *Store) ListSupplierOrders(ctx context.Context, companyID, supplierID id.ID) ([]ledger.PurchaseOrder, error) {
	return SelectPurchaseOrders(ctx, r.txManager.GetQuerier(ctx), companyID,
		squirrel.Eq{"o.supplier_id": supplierID},
		"o.order_date", "o.id")
}
