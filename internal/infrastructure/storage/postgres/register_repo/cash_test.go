package register_repo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/ledger"
)

func TestActiveOpeningQuery(t *testing.T) {
	r := NewCashRepo(nil)
	company := id.New()

	sql, args, err := r.activeOpeningQuery(company).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, "SELECT o.id, o.company_id, o.opening_number"), sql)
	assert.Contains(t, sql, "FROM cash_register_openings o")
	assert.Contains(t, sql,
		"WHERE o.company_id = $1 AND NOT EXISTS (SELECT 1 FROM cash_register_closures c WHERE c.opening_id = o.id)")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY o.opening_date DESC, o.created_at DESC LIMIT 1"), sql)
	assert.Equal(t, []any{company.String()}, args)
}

func TestCompletedSalesFilter(t *testing.T) {
	from := time.Date(2026, 8, 14, 8, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 14, 23, 59, 59, 0, time.UTC)

	sql, args, err := completedSalesFilter(from, to).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "(s.status = ? AND s.sale_date >= ? AND s.sale_date <= ?)", sql)
	assert.Equal(t, []any{ledger.SaleCompleted, from, to}, args)
}

func TestClosuresQuery(t *testing.T) {
	r := NewCashRepo(nil)
	company := id.New()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)

	sql, args, err := r.closuresQuery(company, from, to).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM cash_register_closures WHERE company_id = $1 AND closure_date >= $2 AND closure_date <= $3")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY closure_date DESC, id DESC"), sql)
	assert.Equal(t, []any{company.String(), from, to}, args)
}
