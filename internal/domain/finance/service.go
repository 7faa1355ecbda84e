// Package finance aggregates the dashboard financial snapshot.
package finance

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/aging"
	"ledgerpos/internal/domain/ledger"
)

var tracer = otel.Tracer("ledgerpos/finance")

// Summary is the on-demand financial snapshot. It is never persisted.
type Summary struct {
	DailySales         types.Money `json:"dailySales"`
	CurrentCashBalance types.Money `json:"currentCashBalance"`
	AccountsReceivable types.Money `json:"accountsReceivable"`
	AccountsPayable    types.Money `json:"accountsPayable"`
	MonthlyProfit      types.Money `json:"monthlyProfit"`
	GeneratedAt        time.Time   `json:"generatedAt"`
}

// ProfitLine is one sale line priced against the product's current cost.
type ProfitLine struct {
	ProductID id.ID          `db:"product_id"`
	Quantity  types.Quantity `db:"quantity"`
	UnitPrice types.Money    `db:"unit_price"`
	Cost      types.Money    `db:"cost"`
}

// Repository reads the aggregates behind the snapshot.
type Repository interface {
	SumSalesBetween(ctx context.Context, companyID id.ID, from, to time.Time, statuses []ledger.SaleStatus) (types.Money, error)
	// LatestOpeningAmount returns the initial cash of the most recent opening,
	// zero when the company has none.
	LatestOpeningAmount(ctx context.Context, companyID id.ID) (types.Money, error)
	ListActiveCustomerIDs(ctx context.Context, companyID id.ID) ([]id.ID, error)
	ListActiveSupplierIDs(ctx context.Context, companyID id.ID) ([]id.ID, error)
	ListProfitLines(ctx context.Context, companyID id.ID, from, to time.Time, statuses []ledger.SaleStatus) ([]ProfitLine, error)
}

// BalanceSource resolves party balances. accounts.Service satisfies it.
type BalanceSource interface {
	GetCustomerBalance(ctx context.Context, companyID, customerID id.ID) (types.Money, error)
	GetSupplierBalance(ctx context.Context, companyID, supplierID id.ID) (types.Money, error)
}

// DefaultFanout bounds concurrent per-party balance lookups.
const DefaultFanout = 8

// Service computes the snapshot. The five metrics run concurrently without
// a shared transaction, so they may reflect slightly different instants.
type Service struct {
	repo     Repository
	balances BalanceSource
	fanout   int
	loc      *time.Location
	now      func() time.Time
}

// Config wires a Service.
type Config struct {
	Repo     Repository
	Balances BalanceSource
	Fanout   int
	Location *time.Location
}

// NewService creates a new finance service.
func NewService(cfg Config) *Service {
	s := &Service{
		repo:     cfg.Repo,
		balances: cfg.Balances,
		fanout:   cfg.Fanout,
		loc:      cfg.Location,
		now:      time.Now,
	}
	if s.fanout <= 0 {
		s.fanout = DefaultFanout
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	return s
}

// GetFinancialStats builds the snapshot for companyID.
//
// currentCashBalance is the initial amount of the latest opening with no
// movements netted in, and monthlyProfit prices every line at the product's
// cost as of now rather than at the time of sale.
func (s *Service) GetFinancialStats(ctx context.Context, companyID id.ID) (*Summary, error) {
	ctx, span := tracer.Start(ctx, "finance.GetFinancialStats",
		trace.WithAttributes(attribute.String("company.id", companyID.String())))
	defer span.End()

	now := s.now().In(s.loc)
	dayStart, dayEnd := aging.StartOfDay(now, s.loc), aging.EndOfDay(now, s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	summary := &Summary{GeneratedAt: now}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := s.repo.SumSalesBetween(gctx, companyID, dayStart, dayEnd, ledger.RevenueStatuses)
		summary.DailySales = v
		return err
	})

	g.Go(func() error {
		v, err := s.repo.LatestOpeningAmount(gctx, companyID)
		summary.CurrentCashBalance = v
		return err
	})

	g.Go(func() error {
		ids, err := s.repo.ListActiveCustomerIDs(gctx, companyID)
		if err != nil {
			return err
		}
		v, err := s.sumPositive(gctx, companyID, ids, s.balances.GetCustomerBalance)
		summary.AccountsReceivable = v
		return err
	})

	g.Go(func() error {
		ids, err := s.repo.ListActiveSupplierIDs(gctx, companyID)
		if err != nil {
			return err
		}
		v, err := s.sumPositive(gctx, companyID, ids, s.balances.GetSupplierBalance)
		summary.AccountsPayable = v
		return err
	})

	g.Go(func() error {
		lines, err := s.repo.ListProfitLines(gctx, companyID, monthStart, monthEnd, ledger.RevenueStatuses)
		summary.MonthlyProfit = Profit(lines)
		return err
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "financial stats failed")
		return nil, domain.Fail(ctx, "finance.stats", companyID, nil, err)
	}
	return summary, nil
}

type balanceFunc func(ctx context.Context, companyID, partyID id.ID) (types.Money, error)

// sumPositive adds max(balance, 0) over parties, looking up at most fanout
// balances at a time.
func (s *Service) sumPositive(ctx context.Context, companyID id.ID, parties []id.ID, balance balanceFunc) (types.Money, error) {
	results := make([]types.Money, len(parties))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, party := range parties {
		i, party := i, party
		g.Go(func() error {
			v, err := balance(gctx, companyID, party)
			if err != nil {
				return err
			}
			results[i] = types.NonNegative(v)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.Zero(), err
	}
	return types.Sum(results...), nil
}

// Profit is Σ (unit price − cost) × quantity.
func Profit(lines []ProfitLine) types.Money {
	total := types.Zero()
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Sub(l.Cost).Mul(l.Quantity))
	}
	return total
}
