// Package register_repo provides PostgreSQL storage for cash-register
// sessions: openings, manual movements and closures.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/cash"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/infrastructure/storage/postgres"
	"ledgerpos/internal/infrastructure/storage/postgres/document_repo"
)

const (
	openingsTable  = "cash_register_openings"
	closuresTable  = "cash_register_closures"
	movementsTable = "cash_movements"
)

var openingCols = []string{
	"o.id", "o.company_id", "o.opening_number", "o.opening_date", "o.shift",
	"o.initial_cash_amount", "o.notes", "o.created_by", "o.created_at",
}

var movementCols = []string{
	"id", "company_id", "opening_id", "movement_type", "amount", "description", "created_by", "created_at",
}

var closureCols = []string{
	"id", "company_id", "closure_number", "opening_id", "closure_date", "shift",
	"total_sales_count", "total_sales_amount", "cash_sales", "card_sales", "transfer_sales", "other_sales",
	"cash_counted", "cash_difference", "notes", "created_by", "created_at",
}

// CashRepo implements cash.Repository.
type CashRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ cash.Repository = (*CashRepo)(nil)

// NewCashRepo creates a new cash register repository.
func NewCashRepo(txManager *postgres.TxManager) *CashRepo {
	return &CashRepo{
		txManager: txManager,
		builder:   document_repo.Builder(),
	}
}

// InsertOpening stores a new opening.
func (r *CashRepo) InsertOpening(ctx context.Context, o *cash.Opening) error {
	sql, args, err := r.builder.
		Insert(openingsTable).
		Columns("id", "company_id", "opening_number", "opening_date", "shift",
			"initial_cash_amount", "notes", "created_by", "created_at").
		Values(o.ID, o.CompanyID, o.Number, o.OpeningDate, o.Shift,
			o.InitialCashAmount, o.Notes, o.CreatedBy, o.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", openingsTable, err)
	}
	return nil
}

// ActiveOpening returns the most recent opening without a closure.
func (r *CashRepo) ActiveOpening(ctx context.Context, companyID id.ID) (*cash.Opening, error) {
	sql, args, err := r.activeOpeningQuery(companyID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var opening cash.Opening
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &opening, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active opening: %w", err)
	}
	return &opening, nil
}

func (r *CashRepo) activeOpeningQuery(companyID id.ID) squirrel.SelectBuilder {
	return r.builder.
		Select(openingCols...).
		From("cash_register_openings o").
		Where(squirrel.Eq{"o.company_id": companyID}).
		Where("NOT EXISTS (SELECT 1 FROM cash_register_closures c WHERE c.opening_id = o.id)").
		OrderBy("o.opening_date DESC", "o.created_at DESC").
		Limit(1)
}

// InsertMovement stores a manual cash movement.
func (r *CashRepo) InsertMovement(ctx context.Context, m *cash.Movement) error {
	sql, args, err := r.builder.
		Insert(movementsTable).
		Columns(movementCols...).
		Values(m.ID, m.CompanyID, m.OpeningID, m.MovementType, m.Amount, m.Description, m.CreatedBy, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", movementsTable, err)
	}
	return nil
}

// ListMovements returns the movements of one session in creation order.
func (r *CashRepo) ListMovements(ctx context.Context, companyID, openingID id.ID) ([]cash.Movement, error) {
	sql, args, err := r.builder.
		Select(movementCols...).
		From(movementsTable).
		Where(squirrel.Eq{"company_id": companyID, "opening_id": openingID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := []cash.Movement{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", movementsTable, err)
	}
	return out, nil
}

// ListCompletedSales returns completed sales dated in [from, to], payments included.
func (r *CashRepo) ListCompletedSales(ctx context.Context, companyID id.ID, from, to time.Time) ([]ledger.Sale, error) {
	return document_repo.SelectSales(ctx, r.txManager.GetQuerier(ctx), companyID,
		completedSalesFilter(from, to),
		"s.sale_date", "s.id")
}

func completedSalesFilter(from, to time.Time) squirrel.Sqlizer {
	return squirrel.And{
		squirrel.Eq{"s.status": ledger.SaleCompleted},
		squirrel.GtOrEq{"s.sale_date": from},
		squirrel.LtOrEq{"s.sale_date": to},
	}
}

// InsertClosure stores a closure. The unique index on opening_id rejects a
// second closure of the same session.
func (r *CashRepo) InsertClosure(ctx context.Context, c *cash.Closure) error {
	sql, args, err := r.builder.
		Insert(closuresTable).
		Columns(closureCols...).
		Values(c.ID, c.CompanyID, c.Number, c.OpeningID, c.ClosureDate, c.Shift,
			c.TotalSalesCount, c.TotalSalesAmount, c.CashSales, c.CardSales, c.TransferSales, c.OtherSales,
			c.CashCounted, c.CashDifference, c.Notes, c.CreatedBy, c.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", closuresTable, err)
	}
	return nil
}

// ListClosures returns closures dated in [from, to], newest first.
func (r *CashRepo) ListClosures(ctx context.Context, companyID id.ID, from, to time.Time) ([]cash.Closure, error) {
	sql, args, err := r.closuresQuery(companyID, from, to).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := []cash.Closure{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", closuresTable, err)
	}
	return out, nil
}

func (r *CashRepo) closuresQuery(companyID id.ID, from, to time.Time) squirrel.SelectBuilder {
	return r.builder.
		Select(closureCols...).
		From(closuresTable).
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.GtOrEq{"closure_date": from}).
		Where(squirrel.LtOrEq{"closure_date": to}).
		OrderBy("closure_date DESC", "id DESC")
}
