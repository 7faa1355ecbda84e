// Package report_repo provides PostgreSQL implementations for the aging report
// and financial summary repositories.
package report_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/finance"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/reports"
	"ledgerpos/internal/infrastructure/storage/postgres"
	"ledgerpos/internal/infrastructure/storage/postgres/document_repo"
)

// ReportRepo implements reports.Repository and finance.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var (
	_ reports.Repository = (*ReportRepo)(nil)
	_ finance.Repository = (*ReportRepo)(nil)
)

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   document_repo.Builder(),
	}
}

// ListOpenSales returns pending and partial sales dated on or before cutoff.
func (r *ReportRepo) ListOpenSales(ctx context.Context, companyID id.ID, cutoff time.Time) ([]ledger.Sale, error) {
	return document_repo.SelectSales(ctx, r.txManager.GetQuerier(ctx), companyID,
		openFilter("s.payment_status", "s.sale_date", cutoff),
		"s.sale_date", "s.id")
}

// ListOpenPurchaseOrders returns pending and partial purchase orders dated on
// or before cutoff.
func (r *ReportRepo) ListOpenPurchaseOrders(ctx context.Context, companyID id.ID, cutoff time.Time) ([]ledger.PurchaseOrder, error) {
	return document_repo.SelectPurchaseOrders(ctx, r.txManager.GetQuerier(ctx), companyID,
		openFilter("o.payment_status", "o.order_date", cutoff),
		"o.order_date", "o.id")
}

func openFilter(statusCol, dateCol string, cutoff time.Time) squirrel.Sqlizer {
	return squirrel.And{
		squirrel.Eq{statusCol: ledger.OpenStatuses},
		squirrel.LtOrEq{dateCol: cutoff},
	}
}

// SumSalesBetween sums totals of sales dated in [from, to] with one of statuses.
func (r *ReportRepo) SumSalesBetween(ctx context.Context, companyID id.ID, from, to time.Time, statuses []ledger.SaleStatus) (types.Money, error) {
	sql, args, err := r.sumSalesQuery(companyID, from, to, statuses).ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var sum types.Money
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return types.Zero(), fmt.Errorf("sum sales: %w", err)
	}
	return sum, nil
}

func (r *ReportRepo) sumSalesQuery(companyID id.ID, from, to time.Time, statuses []ledger.SaleStatus) squirrel.SelectBuilder {
	return r.builder.
		Select("COALESCE(SUM(total), 0)").
		From("sales").
		Where(squirrel.Eq{"company_id": companyID, "status": statuses}).
		Where(squirrel.GtOrEq{"sale_date": from}).
		Where(squirrel.LtOrEq{"sale_date": to})
}

// LatestOpeningAmount returns the initial cash of the newest opening.
func (r *ReportRepo) LatestOpeningAmount(ctx context.Context, companyID id.ID) (types.Money, error) {
	sql, args, err := r.builder.
		Select("initial_cash_amount").
		From("cash_register_openings").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("opening_date DESC", "created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var amount types.Money
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Zero(), nil
		}
		return types.Zero(), fmt.Errorf("latest opening: %w", err)
	}
	return amount, nil
}

// ListActiveCustomerIDs returns the ids of active customers.
func (r *ReportRepo) ListActiveCustomerIDs(ctx context.Context, companyID id.ID) ([]id.ID, error) {
	return r.activeIDs(ctx, "customers", companyID)
}

// ListActiveSupplierIDs returns the ids of active suppliers.
func (r *ReportRepo) ListActiveSupplierIDs(ctx context.Context, companyID id.ID) ([]id.ID, error) {
	return r.activeIDs(ctx, "suppliers", companyID)
}

func (r *ReportRepo) activeIDs(ctx context.Context, table string, companyID id.ID) ([]id.ID, error) {
	sql, args, err := r.builder.
		Select("id").
		From(table).
		Where(squirrel.Eq{"company_id": companyID, "is_active": true}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	ids := []id.ID{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return ids, nil
}

// ListProfitLines returns sale lines in [from, to] priced against the
// product's current cost.
func (r *ReportRepo) ListProfitLines(ctx context.Context, companyID id.ID, from, to time.Time, statuses []ledger.SaleStatus) ([]finance.ProfitLine, error) {
	query := `
		SELECT
			i.product_id,
			i.quantity,
			i.unit_price,
			COALESCE(p.cost, 0) AS cost
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		LEFT JOIN products p ON p.id = i.product_id
		WHERE s.company_id = $1
			AND s.status = ANY($2)
			AND s.sale_date >= $3
			AND s.sale_date <= $4
	`
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}

	lines := []finance.ProfitLine{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, query, companyID, names, from, to); err != nil {
		return nil, fmt.Errorf("profit lines: %w", err)
	}
	return lines, nil
}
