package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/payments"
)

var _ payments.Repository = (*Store)(nil)

// documentTable locates a document kind and its payments.
type documentTable struct {
	table       string
	numberCol   string
	paymentsTbl string
	foreignKey  string
}

var documentTables = map[payments.DocumentKind]documentTable{
	payments.KindSale:          {"sales", "sale_number", "sale_payments", "sale_id"},
	payments.KindRepair:        {"repair_orders", "order_number", "repair_payments", "repair_order_id"},
	payments.KindPurchaseOrder: {"purchase_orders", "order_number", "supplier_payments", "purchase_order_id"},
}

func tableFor(kind payments.DocumentKind) (documentTable, error) {
	t, ok := documentTables[kind]
	if !ok {
		return documentTable{}, fmt.Errorf("unknown document kind %q", kind)
	}
	return t, nil
}

type targetRow struct {
	ID         id.ID                `db:"id"`
	Number     string               `db:"number"`
	Total      types.Money          `db:"total"`
	Paid       types.Money          `db:"paid"`
	Status     ledger.PaymentStatus `db:"status"`
	SupplierID *id.ID               `db:"supplier_id"`
}

// LoadDocument reads the document total and the sum of its payments.
func (r *Store) LoadDocument(ctx context.Context, companyID id.ID, kind payments.DocumentKind, documentID id.ID) (payments.Target, error) {
	t, err := tableFor(kind)
	if err != nil {
		return payments.Target{}, err
	}

	supplierCol := "NULL::uuid AS supplier_id"
	if kind == payments.KindPurchaseOrder {
		supplierCol = "d.supplier_id"
	}

	sql, args, err := Builder().
		Select(
			"d.id",
			"d."+t.numberCol+" AS number",
			"d.total",
			fmt.Sprintf("COALESCE((SELECT SUM(p.amount) FROM %s p WHERE p.%s = d.id), 0) AS paid", t.paymentsTbl, t.foreignKey),
			"d.payment_status AS status",
			supplierCol,
		).
		From(t.table + " d").
		Where(squirrel.Eq{"d.id": documentID, "d.company_id": companyID}).
		ToSql()
	if err != nil {
		return payments.Target{}, fmt.Errorf("build query: %w", err)
	}

	var row targetRow
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return payments.Target{}, apperror.NewNotFound(t.table, documentID.String())
		}
		return payments.Target{}, fmt.Errorf("load %s: %w", t.table, err)
	}

	return payments.Target{
		ID:         row.ID,
		Number:     row.Number,
		Total:      row.Total,
		Paid:       row.Paid,
		Status:     row.Status,
		SupplierID: row.SupplierID,
	}, nil
}

// InsertPayment appends p to the document's payment table. Purchase order
// payments are written to the supplier account.
func (r *Store) InsertPayment(ctx context.Context, companyID id.ID, kind payments.DocumentKind, target payments.Target, p ledger.Payment) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}

	data := map[string]any{
		"id":               p.ID,
		"company_id":       companyID,
		t.foreignKey:       target.ID,
		"amount":           p.Amount,
		"payment_date":     p.PaymentDate,
		"payment_method":   p.PaymentMethod,
		"reference_number": p.ReferenceNumber,
		"notes":            p.Notes,
		"created_by":       p.CreatedBy,
	}
	if kind == payments.KindPurchaseOrder {
		if target.SupplierID == nil {
			return fmt.Errorf("purchase order %s has no supplier", target.ID)
		}
		data["supplier_id"] = *target.SupplierID
	}

	sql, args, err := Builder().Insert(t.paymentsTbl).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", t.paymentsTbl, err)
	}
	return nil
}

// UpdatePaymentStatus stores the derived payment status.
func (r *Store) UpdatePaymentStatus(ctx context.Context, companyID id.ID, kind payments.DocumentKind, documentID id.ID, status ledger.PaymentStatus) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}

	sql, args, err := Builder().
		Update(t.table).
		Set("payment_status", status).
		Where(squirrel.Eq{"id": documentID, "company_id": companyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.table, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(t.table, documentID.String())
	}
	return nil
}
