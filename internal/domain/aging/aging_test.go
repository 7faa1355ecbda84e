package aging

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
)

var cutoff = time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)

func TestDaysOverdue(t *testing.T) {
	tests := []struct {
		name string
		tx   time.Time
		want int
	}{
		{"same instant", cutoff, 0},
		{"ten days before", cutoff.AddDate(0, 0, -10), 10},
		{"partial day floors", cutoff.Add(-36 * time.Hour), 1},
		{"future dated", cutoff.AddDate(0, 0, 3), -3},
		{"future partial day floors down", cutoff.Add(12 * time.Hour), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysOverdue(cutoff, tt.tx))
		})
	}
}

func TestEndOfDay(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	got := EndOfDay(time.Date(2026, 6, 30, 8, 0, 0, 0, loc), loc)

	assert.Equal(t, 30, got.Day())
	assert.Equal(t, 23, got.Hour())
	assert.True(t, time.Date(2026, 6, 30, 23, 59, 59, 0, loc).Before(got))
	assert.True(t, got.Before(time.Date(2026, 7, 1, 0, 0, 0, 0, loc)))
}

func sale(total, paid string, daysBefore int, status ledger.PaymentStatus) ledger.Sale {
	s := ledger.Sale{
		ID:            id.New(),
		Number:        "V-" + total,
		Total:         types.MustMoney(total),
		SaleDate:      cutoff.AddDate(0, 0, -daysBefore),
		PaymentStatus: status,
		Status:        ledger.SaleCompleted,
	}
	if paid != "0" {
		s.Payments = []ledger.Payment{{Amount: types.MustMoney(paid)}}
	}
	return s
}

func TestProcessAccountsReceivable_Scenario(t *testing.T) {
	a := sale("1000", "0", 10, ledger.PaymentPending)
	b := sale("500", "500", 5, ledger.PaymentPaid)

	got := ProcessAccountsReceivable([]ledger.Sale{a, b}, cutoff)

	require.Len(t, got, 1)
	assert.Equal(t, a.ID.String(), got[0].SaleID)
	assert.True(t, got[0].Balance.Equal(types.MustMoney("1000")))
	assert.Equal(t, 10, got[0].DaysOverdue)
	assert.Equal(t, Bucket30, got[0].Bucket)
}

func TestProcessAccountsReceivable_SortedAndDated(t *testing.T) {
	sales := []ledger.Sale{
		sale("100", "0", 3, ledger.PaymentPending),
		sale("200", "50", 40, ledger.PaymentPartial),
		sale("300", "0", -2, ledger.PaymentPending), // after cutoff
		sale("400", "0", 95, ledger.PaymentPending),
	}

	got := ProcessAccountsReceivable(sales, cutoff)

	require.Len(t, got, 3)
	assert.Equal(t, []int{95, 40, 3}, []int{got[0].DaysOverdue, got[1].DaysOverdue, got[2].DaysOverdue})
	assert.True(t, got[1].Balance.Equal(types.MustMoney("150")))
	assert.True(t, got[1].PaidAmount.Equal(types.MustMoney("50")))
	assert.Equal(t, BucketOver90, got[0].Bucket)
}

func TestProcessAccountsPayable(t *testing.T) {
	supplier := id.New()
	orders := []ledger.PurchaseOrder{
		{
			ID: id.New(), Number: "OC-1", SupplierID: supplier, SupplierName: "Distribuidora Sur",
			Total: types.MustMoney("800"), OrderDate: cutoff.AddDate(0, 0, -20), PaymentStatus: ledger.PaymentPartial,
			Payments: []ledger.SupplierPayment{{Payment: ledger.Payment{Amount: types.MustMoney("300")}}},
		},
		{
			ID: id.New(), Number: "OC-2", SupplierID: supplier, Total: types.MustMoney("100"),
			OrderDate: cutoff.AddDate(0, 0, -70), PaymentStatus: ledger.PaymentPaid,
		},
	}

	got := ProcessAccountsPayable(orders, cutoff)

	require.Len(t, got, 1)
	assert.Equal(t, "OC-1", got[0].OrderNumber)
	assert.True(t, got[0].Balance.Equal(types.MustMoney("500")))
	assert.Equal(t, 20, got[0].DaysOverdue)
}

func TestCalculateFinancialSummary(t *testing.T) {
	receivables := []Receivable{{Balance: types.MustMoney("1000")}, {Balance: types.MustMoney("250.50")}}
	payables := []Payable{{Balance: types.MustMoney("400")}}

	got := CalculateFinancialSummary(receivables, payables)

	assert.True(t, got.TotalReceivable.Equal(types.MustMoney("1250.50")))
	assert.True(t, got.TotalPayable.Equal(types.MustMoney("400")))
	assert.True(t, got.NetBalance.Equal(types.MustMoney("850.50")))
}

func TestCalculateFinancialSummary_Empty(t *testing.T) {
	got := CalculateFinancialSummary(nil, nil)
	assert.True(t, got.NetBalance.IsZero())
}

func randomSales(r *rand.Rand, n int) []ledger.Sale {
	statuses := []ledger.PaymentStatus{ledger.PaymentPending, ledger.PaymentPartial, ledger.PaymentPaid}
	out := make([]ledger.Sale, n)
	for i := range out {
		out[i] = ledger.Sale{
			ID:            id.New(),
			Total:         types.NewMoneyFromInt(r.Int64N(1000)),
			SaleDate:      cutoff.Add(time.Duration(r.Int64N(int64(200*day))) - 150*day),
			PaymentStatus: statuses[r.IntN(len(statuses))],
		}
	}
	return out
}

func TestFilterComposition_Property(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 100; round++ {
		docs := randomSales(r, r.IntN(30))
		got := FilterByDate(FilterByPaymentStatus(docs, ledger.PaymentPending, ledger.PaymentPartial), cutoff)

		for _, d := range got {
			assert.Contains(t, []ledger.PaymentStatus{ledger.PaymentPending, ledger.PaymentPartial}, d.PaymentStatus)
			assert.False(t, d.SaleDate.After(cutoff))
		}

		kept := 0
		for _, d := range docs {
			if d.PaymentStatus != ledger.PaymentPaid && !d.SaleDate.After(cutoff) {
				kept++
			}
		}
		assert.Len(t, got, kept)
	}
}

type agedRow struct {
	days int
	seq  int
}

func (a agedRow) Overdue() int { return a.days }

func TestSortByDaysOverdue_Property(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 4))

	for round := 0; round < 100; round++ {
		rows := make([]agedRow, r.IntN(40))
		for i := range rows {
			rows[i] = agedRow{days: r.IntN(20) - 5, seq: i}
		}

		once := SortByDaysOverdue(rows)
		twice := SortByDaysOverdue(once)

		require.Len(t, once, len(rows))
		for i := 1; i < len(once); i++ {
			assert.GreaterOrEqual(t, once[i-1].days, once[i].days)
			if once[i-1].days == once[i].days {
				assert.Less(t, once[i-1].seq, once[i].seq, "ties keep input order")
			}
		}
		assert.Equal(t, once, twice)
	}
}

func TestSortByDaysOverdue_DoesNotMutateInput(t *testing.T) {
	rows := []agedRow{{days: 1, seq: 0}, {days: 5, seq: 1}}
	_ = SortByDaysOverdue(rows)
	assert.Equal(t, 1, rows[0].days)
}

func TestBuckets(t *testing.T) {
	assert.Equal(t, BucketCurrent, BucketFor(-4))
	assert.Equal(t, BucketCurrent, BucketFor(0))
	assert.Equal(t, Bucket30, BucketFor(30))
	assert.Equal(t, Bucket60, BucketFor(31))
	assert.Equal(t, Bucket90, BucketFor(90))
	assert.Equal(t, BucketOver90, BucketFor(91))

	totals := ReceivableBuckets([]Receivable{
		{Bucket: Bucket30, Balance: types.MustMoney("10")},
		{Bucket: Bucket30, Balance: types.MustMoney("5")},
		{Bucket: BucketOver90, Balance: types.MustMoney("7")},
	})
	assert.True(t, totals.Get(Bucket30).Equal(types.MustMoney("15")))
	assert.True(t, totals.Get(Bucket60).IsZero())
}
