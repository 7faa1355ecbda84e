// Package cash manages cash-register sessions: opening, movements during the
// shift, and closure with totals derived from the session's sales.
package cash

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
)

// Opening starts a cash-drawer session. It is active while no Closure
// references it.
type Opening struct {
	ID                id.ID       `db:"id" json:"id"`
	CompanyID         id.ID       `db:"company_id" json:"-"`
	Number            string      `db:"opening_number" json:"openingNumber"`
	OpeningDate       time.Time   `db:"opening_date" json:"openingDate"`
	Shift             string      `db:"shift" json:"shift"`
	InitialCashAmount types.Money `db:"initial_cash_amount" json:"initialCashAmount"`
	Notes             *string     `db:"notes" json:"notes,omitempty"`
	CreatedBy         *id.ID      `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt         time.Time   `db:"created_at" json:"createdAt"`
}

// MovementType is the direction of a manual cash movement.
type MovementType string

const (
	MovementIncome     MovementType = "income"
	MovementWithdrawal MovementType = "withdrawal"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	return t == MovementIncome || t == MovementWithdrawal
}

// Movement is money put into or taken out of the drawer during a session.
type Movement struct {
	ID           id.ID        `db:"id" json:"id"`
	CompanyID    id.ID        `db:"company_id" json:"-"`
	OpeningID    id.ID        `db:"opening_id" json:"openingId"`
	MovementType MovementType `db:"movement_type" json:"movementType"`
	Amount       types.Money  `db:"amount" json:"amount"`
	Description  string       `db:"description" json:"description"`
	CreatedBy    *id.ID       `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
}

// Signed returns the amount with withdrawals negative.
func (m Movement) Signed() types.Money {
	if m.MovementType == MovementWithdrawal {
		return m.Amount.Neg()
	}
	return m.Amount
}

// Closure ends a session and records the totals of the sales made during it.
type Closure struct {
	ID               id.ID        `db:"id" json:"id"`
	CompanyID        id.ID        `db:"company_id" json:"-"`
	Number           string       `db:"closure_number" json:"closureNumber"`
	OpeningID        id.ID        `db:"opening_id" json:"openingId"`
	ClosureDate      time.Time    `db:"closure_date" json:"closureDate"`
	Shift            string       `db:"shift" json:"shift"`
	TotalSalesCount  int          `db:"total_sales_count" json:"totalSalesCount"`
	TotalSalesAmount types.Money  `db:"total_sales_amount" json:"totalSalesAmount"`
	CashSales        types.Money  `db:"cash_sales" json:"cashSales"`
	CardSales        types.Money  `db:"card_sales" json:"cardSales"`
	TransferSales    types.Money  `db:"transfer_sales" json:"transferSales"`
	OtherSales       types.Money  `db:"other_sales" json:"otherSales"`
	CashCounted      *types.Money `db:"cash_counted" json:"cashCounted"`
	CashDifference   *types.Money `db:"cash_difference" json:"cashDifference"`
	Notes            *string      `db:"notes" json:"notes,omitempty"`
	CreatedBy        *id.ID       `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt        time.Time    `db:"created_at" json:"createdAt"`
}

// MethodBucket is the closure column a payment method is counted in.
type MethodBucket string

const (
	BucketCash     MethodBucket = "cash"
	BucketCard     MethodBucket = "card"
	BucketTransfer MethodBucket = "transfer"
	BucketOther    MethodBucket = "other"
)

var methodKeywords = []struct {
	bucket   MethodBucket
	keywords []string
}{
	{BucketCash, []string{"efectivo", "cash"}},
	{BucketCard, []string{"tarjeta", "card", "débito", "crédito"}},
	{BucketTransfer, []string{"transferencia", "transfer"}},
}

// ClassifyMethod maps a free-text payment method to its bucket by
// case-insensitive substring match on the NFC form. Unknown methods are other.
func ClassifyMethod(method string) MethodBucket {
	// a Caser holds state, so one per call
	folded := cases.Fold().String(norm.NFC.String(method))
	for _, group := range methodKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(folded, kw) {
				return group.bucket
			}
		}
	}
	return BucketOther
}

// Totals are the aggregate figures stored on a Closure.
type Totals struct {
	Count    int         `json:"count"`
	Amount   types.Money `json:"amount"`
	Cash     types.Money `json:"cash"`
	Card     types.Money `json:"card"`
	Transfer types.Money `json:"transfer"`
	Other    types.Money `json:"other"`
}

func (t *Totals) add(bucket MethodBucket, amount types.Money) {
	switch bucket {
	case BucketCash:
		t.Cash = t.Cash.Add(amount)
	case BucketCard:
		t.Card = t.Card.Add(amount)
	case BucketTransfer:
		t.Transfer = t.Transfer.Add(amount)
	default:
		t.Other = t.Other.Add(amount)
	}
}

// Partition splits sales into method buckets. Each recorded payment is
// counted under its own method; a sale without payments counts its total
// under the sale's payment method.
func Partition(sales []ledger.Sale) Totals {
	t := Totals{
		Amount:   types.Zero(),
		Cash:     types.Zero(),
		Card:     types.Zero(),
		Transfer: types.Zero(),
		Other:    types.Zero(),
	}
	for _, s := range sales {
		t.Count++
		t.Amount = t.Amount.Add(s.Total)

		if len(s.Payments) == 0 {
			t.add(ClassifyMethod(s.PaymentMethod), s.Total)
			continue
		}
		for _, p := range s.Payments {
			t.add(ClassifyMethod(p.PaymentMethod), p.Amount)
		}
	}
	return t
}

// Session is the active opening with its movements.
type Session struct {
	Opening      Opening     `json:"opening"`
	Movements    []Movement  `json:"movements"`
	NetMovements types.Money `json:"netMovements"`
	ExpectedCash types.Money `json:"expectedCash"`
}
