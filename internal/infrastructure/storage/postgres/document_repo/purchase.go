package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/ledger"
)

// ListSupplierPayments returns every payment on the supplier account,
// including payments not tied to a purchase order.
func (r *Store) ListSupplierPayments(ctx context.Context, companyID, supplierID id.ID) ([]ledger.SupplierPayment, error) {
	sql, args, err := Builder().
		Select(supplierPaymentCols...).
		From("supplier_payments").
		Where(squirrel.Eq{"company_id": companyID, "supplier_id": supplierID}).
		OrderBy("payment_date", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := []ledger.SupplierPayment{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("select supplier payments: %w", err)
	}
	return out, nil
}
