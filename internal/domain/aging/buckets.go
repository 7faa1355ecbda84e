package aging

import (
	"ledgerpos/internal/core/types"
)

// Bucket groups rows by days overdue.
type Bucket string

const (
	BucketCurrent Bucket = "current"
	Bucket30      Bucket = "1-30"
	Bucket60      Bucket = "31-60"
	Bucket90      Bucket = "61-90"
	BucketOver90  Bucket = "90+"
)

// AllBuckets lists buckets in report order.
var AllBuckets = []Bucket{BucketCurrent, Bucket30, Bucket60, Bucket90, BucketOver90}

// BucketFor places days overdue into a bucket. Zero or negative is current.
func BucketFor(days int) Bucket {
	switch {
	case days <= 0:
		return BucketCurrent
	case days <= 30:
		return Bucket30
	case days <= 60:
		return Bucket60
	case days <= 90:
		return Bucket90
	default:
		return BucketOver90
	}
}

// BucketTotals is the balance per bucket.
type BucketTotals map[Bucket]types.Money

// Get returns the total of b, zero when absent.
func (t BucketTotals) Get(b Bucket) types.Money {
	if v, ok := t[b]; ok {
		return v
	}
	return types.Zero()
}

// ReceivableBuckets sums receivable balances per bucket.
func ReceivableBuckets(rows []Receivable) BucketTotals {
	totals := make(BucketTotals, len(AllBuckets))
	for _, r := range rows {
		totals[r.Bucket] = totals.Get(r.Bucket).Add(r.Balance)
	}
	return totals
}

// PayableBuckets sums payable balances per bucket.
func PayableBuckets(rows []Payable) BucketTotals {
	totals := make(BucketTotals, len(AllBuckets))
	for _, p := range rows {
		totals[p.Bucket] = totals.Get(p.Bucket).Add(p.Balance)
	}
	return totals
}
