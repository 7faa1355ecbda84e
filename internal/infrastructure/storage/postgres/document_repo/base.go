// Package document_repo provides PostgreSQL storage for sales, repair orders,
// purchase orders and the payments recorded against them.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

// Builder returns the squirrel builder with PostgreSQL placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

var saleCols = []string{
	"s.id", "s.company_id", "s.sale_number", "s.customer_id",
	"COALESCE(c.name, '') AS customer_name",
	"s.total", "s.sale_date", "s.status", "s.payment_status", "s.payment_method",
}

var orderCols = []string{
	"o.id", "o.company_id", "o.order_number", "o.supplier_id",
	"COALESCE(sp.name, '') AS supplier_name",
	"o.total", "o.order_date", "o.status", "o.payment_status",
}

func paymentCols(documentCol string) []string {
	return []string{
		"id", documentCol + " AS document_id", "amount", "payment_date",
		"payment_method", "reference_number", "notes", "created_by",
	}
}

// supplier payments without an order point at the supplier account
var supplierPaymentCols = append(
	paymentCols("COALESCE(purchase_order_id, supplier_id)"),
	"supplier_id", "purchase_order_id",
)

// SelectSales lists sales matching where, with customer names and payments.
func SelectSales(ctx context.Context, q postgres.Querier, companyID id.ID, where squirrel.Sqlizer, orderBy ...string) ([]ledger.Sale, error) {
	sql, args, err := salesQuery(companyID, where, orderBy...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	sales := []ledger.Sale{}
	if err := pgxscan.Select(ctx, q, &sales, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales: %w", err)
	}
	if err := attachSalePayments(ctx, q, companyID, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// SelectPurchaseOrders lists purchase orders matching where, with supplier
// names and the supplier payments that reference them.
func SelectPurchaseOrders(ctx context.Context, q postgres.Querier, companyID id.ID, where squirrel.Sqlizer, orderBy ...string) ([]ledger.PurchaseOrder, error) {
	sql, args, err := ordersQuery(companyID, where, orderBy...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	orders := []ledger.PurchaseOrder{}
	if err := pgxscan.Select(ctx, q, &orders, sql, args...); err != nil {
		return nil, fmt.Errorf("select purchase orders: %w", err)
	}
	if err := attachOrderPayments(ctx, q, companyID, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func salesQuery(companyID id.ID, where squirrel.Sqlizer, orderBy ...string) squirrel.SelectBuilder {
	return Builder().
		Select(saleCols...).
		From("sales s").
		LeftJoin("customers c ON c.id = s.customer_id").
		Where(squirrel.Eq{"s.company_id": companyID}).
		Where(where).
		OrderBy(orderBy...)
}

func ordersQuery(companyID id.ID, where squirrel.Sqlizer, orderBy ...string) squirrel.SelectBuilder {
	return Builder().
		Select(orderCols...).
		From("purchase_orders o").
		LeftJoin("suppliers sp ON sp.id = o.supplier_id").
		Where(squirrel.Eq{"o.company_id": companyID}).
		Where(where).
		OrderBy(orderBy...)
}

func attachSalePayments(ctx context.Context, q postgres.Querier, companyID id.ID, sales []ledger.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]id.ID, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
	}

	sql, args, err := Builder().
		Select(paymentCols("sale_id")...).
		From("sale_payments").
		Where(squirrel.Eq{"company_id": companyID, "sale_id": ids}).
		OrderBy("payment_date", "id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var rows []ledger.Payment
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return fmt.Errorf("select sale payments: %w", err)
	}

	bySale := make(map[id.ID][]ledger.Payment, len(sales))
	for _, p := range rows {
		bySale[p.DocumentID] = append(bySale[p.DocumentID], p)
	}
	for i := range sales {
		sales[i].Payments = bySale[sales[i].ID]
		if sales[i].Payments == nil {
			sales[i].Payments = []ledger.Payment{}
		}
	}
	return nil
}

func attachOrderPayments(ctx context.Context, q postgres.Querier, companyID id.ID, orders []ledger.PurchaseOrder) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]id.ID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	sql, args, err := Builder().
		Select(supplierPaymentCols...).
		From("supplier_payments").
		Where(squirrel.Eq{"company_id": companyID, "purchase_order_id": ids}).
		OrderBy("payment_date", "id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var rows []ledger.SupplierPayment
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return fmt.Errorf("select supplier payments: %w", err)
	}

	byOrder := make(map[id.ID][]ledger.SupplierPayment, len(orders))
	for _, p := range rows {
		byOrder[*p.PurchaseOrderID] = append(byOrder[*p.PurchaseOrderID], p)
	}
	for i := range orders {
		orders[i].Payments = byOrder[orders[i].ID]
		if orders[i].Payments == nil {
			orders[i].Payments = []ledger.SupplierPayment{}
		}
	}
	return nil
}
