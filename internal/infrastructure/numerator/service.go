// Package numerator provides the PostgreSQL implementation of document
// auto-numbering.
package numerator

import (
	"context"
	"fmt"
	"time"

	"ledgerpos/internal/core/id"
	corenumerator "ledgerpos/internal/core/numerator"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

// QuerierSource resolves the querier for ctx, joining an open transaction.
type QuerierSource interface {
	GetQuerier(ctx context.Context) postgres.Querier
}

// Service issues gap-free numbers per company and key with an UPSERT on
// sys_sequences. Inside a transaction the row lock is held until commit, so
// a rolled-back document does not consume its number.
type Service struct {
	db QuerierSource
}

var _ corenumerator.Generator = (*Service)(nil)

// New creates a new numerator service.
func New(db QuerierSource) *Service {
	return &Service{db: db}
}

// Next implements corenumerator.Generator.
func (s *Service) Next(ctx context.Context, companyID id.ID, cfg corenumerator.Config, period time.Time) (string, error) {
	key := cfg.Key(period)

	var num int64
	err := s.db.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (company_id, key, current_val)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, companyID, key).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next number %s: %w", key, err)
	}

	return cfg.Format(period, num), nil
}
