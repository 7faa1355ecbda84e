// Package reports provides the accounts aging report.
package reports

import (
	"context"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/aging"
	"ledgerpos/internal/domain/ledger"
)

// AgingReport is the receivables and payables snapshot as of a cutoff.
type AgingReport struct {
	Cutoff         time.Time          `json:"cutoff"`
	GeneratedAt    time.Time          `json:"generatedAt"`
	Receivables    []aging.Receivable `json:"receivables"`
	Payables       []aging.Payable    `json:"payables"`
	Summary        aging.Summary      `json:"summary"`
	ReceivableAged aging.BucketTotals `json:"receivableBuckets"`
	PayableAged    aging.BucketTotals `json:"payableBuckets"`
}

// Service provides report generation operations.
type Service struct {
	repo     Repository
	snapshot tx.Manager
	loc      *time.Location
	now      func() time.Time
}

// NewService creates a new reports service. Cutoff days are read in loc.
func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, snapshot: tx.Passthrough, loc: loc, now: time.Now}
}

// WithSnapshot makes both report queries read through m, so receivables and
// payables come from the same database snapshot.
func (s *Service) WithSnapshot(m tx.Manager) *Service {
	if m != nil {
		s.snapshot = m
	}
	return s
}

// Location is the calendar used to read cutoff dates.
func (s *Service) Location() *time.Location { return s.loc }

// ParseCutoff reads a YYYY-MM-DD cutoff as the end of that day. An empty
// value means today.
func (s *Service) ParseCutoff(value string) (time.Time, error) {
	if value == "" {
		return aging.EndOfDay(s.now(), s.loc), nil
	}
	day, err := time.ParseInLocation(time.DateOnly, value, s.loc)
	if err != nil {
		return time.Time{}, apperror.NewValidation("Fecha de corte inválida, use el formato AAAA-MM-DD").
			WithDetail("field", "cutoff")
	}
	return aging.EndOfDay(day, s.loc), nil
}

// AgingReport builds the report for companyID as of cutoff.
func (s *Service) AgingReport(ctx context.Context, companyID id.ID, cutoff time.Time) (*AgingReport, error) {
	var (
		sales  []ledger.Sale
		orders []ledger.PurchaseOrder
	)
	err := s.snapshot.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if sales, err = s.repo.ListOpenSales(ctx, companyID, cutoff); err != nil {
			return err
		}
		orders, err = s.repo.ListOpenPurchaseOrders(ctx, companyID, cutoff)
		return err
	})
	if err != nil {
		return nil, domain.Fail(ctx, "reports.aging", companyID, nil, err)
	}

	// the store pre-filters; the classifier applies the same rules again
	receivables := aging.ProcessAccountsReceivable(sales, cutoff)
	payables := aging.ProcessAccountsPayable(orders, cutoff)

	return &AgingReport{
		Cutoff:         cutoff,
		GeneratedAt:    s.now(),
		Receivables:    receivables,
		Payables:       payables,
		Summary:        aging.CalculateFinancialSummary(receivables, payables),
		ReceivableAged: aging.ReceivableBuckets(receivables),
		PayableAged:    aging.PayableBuckets(payables),
	}, nil
}

// Filename names an export of the report, e.g. estado-cuentas-2026-10-19.xlsx.
func Filename(cutoff time.Time, ext string) string {
	return "estado-cuentas-" + cutoff.Format(time.DateOnly) + "." + ext
}
