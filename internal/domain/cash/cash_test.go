package cash

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/numerator"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/ledger"
)

type memRepo struct {
	openings  []*Opening
	movements []*Movement
	closures  []*Closure
	sales     []ledger.Sale
	calls     int

	salesFrom, salesTo time.Time
}

func (m *memRepo) InsertOpening(_ context.Context, o *Opening) error {
	m.calls++
	m.openings = append(m.openings, o)
	return nil
}

func (m *memRepo) ActiveOpening(_ context.Context, companyID id.ID) (*Opening, error) {
	m.calls++
	for i := len(m.openings) - 1; i >= 0; i-- {
		o := m.openings[i]
		if o.CompanyID != companyID {
			continue
		}
		closed := false
		for _, c := range m.closures {
			if c.OpeningID == o.ID {
				closed = true
			}
		}
		if !closed {
			return o, nil
		}
	}
	return nil, nil
}

func (m *memRepo) InsertMovement(_ context.Context, mv *Movement) error {
	m.calls++
	m.movements = append(m.movements, mv)
	return nil
}

func (m *memRepo) ListMovements(_ context.Context, _, openingID id.ID) ([]Movement, error) {
	m.calls++
	var out []Movement
	for _, mv := range m.movements {
		if mv.OpeningID == openingID {
			out = append(out, *mv)
		}
	}
	return out, nil
}

func (m *memRepo) ListCompletedSales(_ context.Context, _ id.ID, from, to time.Time) ([]ledger.Sale, error) {
	m.calls++
	m.salesFrom, m.salesTo = from, to
	var out []ledger.Sale
	for _, s := range m.sales {
		if s.Status == ledger.SaleCompleted && !s.SaleDate.Before(from) && !s.SaleDate.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memRepo) InsertClosure(_ context.Context, c *Closure) error {
	m.calls++
	m.closures = append(m.closures, c)
	return nil
}

func (m *memRepo) ListClosures(_ context.Context, _ id.ID, _, _ time.Time) ([]Closure, error) {
	m.calls++
	return nil, nil
}

var day = time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)

func newService(repo *memRepo) *Service {
	svc := NewService(Config{Repo: repo, Numerator: numerator.NewMemory(), Location: time.UTC})
	svc.now = func() time.Time { return day.Add(20 * time.Hour) }
	return svc
}

func money(s string) types.Money { return types.MustMoney(s) }

func open(t *testing.T, svc *Service, company id.ID) *Opening {
	t.Helper()
	o, err := svc.CreateOpening(context.Background(), company, id.New(), OpeningInput{
		OpeningDate:       day.Add(8 * time.Hour),
		Shift:             "mañana",
		InitialCashAmount: money("5000"),
	})
	require.NoError(t, err)
	return o
}

func TestClassifyMethod(t *testing.T) {
	tests := map[string]MethodBucket{
		"Efectivo":           BucketCash,
		"CASH":               BucketCash,
		"Tarjeta de crédito": BucketCard,
		"DÉBITO":             BucketCard,
		"credit card":        BucketCard,
		"Transferencia":      BucketTransfer,
		"bank transfer":      BucketTransfer,
		"Mercado Pago":       BucketOther,
		"":                   BucketOther,
	}
	for method, want := range tests {
		assert.Equal(t, want, ClassifyMethod(method), method)
	}
}

func TestClassifyMethod_DecomposedAccents(t *testing.T) {
	assert.Equal(t, BucketCard, ClassifyMethod(norm.NFD.String("Débito")))
	assert.Equal(t, BucketCard, ClassifyMethod(norm.NFD.String("CRÉDITO")))
}

func TestPartition_SaleWithoutPaymentsUsesOwnMethod(t *testing.T) {
	got := Partition([]ledger.Sale{
		{Total: money("120"), PaymentMethod: "transferencia"},
		{Total: money("80"), PaymentMethod: "cheque"},
	})

	assert.Equal(t, 2, got.Count)
	assert.Equal(t, "200", got.Amount.String())
	assert.Equal(t, "120", got.Transfer.String())
	assert.Equal(t, "80", got.Other.String())
	assert.True(t, got.Cash.IsZero())
}

func TestCreateClosure_PartitionScenario(t *testing.T) {
	repo := &memRepo{}
	svc := newService(repo)
	company := id.New()
	opening := open(t, svc, company)

	repo.sales = []ledger.Sale{
		{
			ID: id.New(), Total: money("300"), SaleDate: day.Add(11 * time.Hour), Status: ledger.SaleCompleted,
			Payments: []ledger.Payment{
				{Amount: money("200"), PaymentMethod: "efectivo"},
				{Amount: money("100"), PaymentMethod: "tarjeta"},
			},
		},
		{ID: id.New(), Total: money("999"), SaleDate: day.Add(-time.Hour), Status: ledger.SaleCompleted, PaymentMethod: "efectivo"},
		{ID: id.New(), Total: money("50"), SaleDate: day.Add(12 * time.Hour), Status: ledger.SalePending, PaymentMethod: "efectivo"},
	}

	c, err := svc.CreateClosure(context.Background(), company, id.New(), ClosureInput{ClosureDate: day.Add(18 * time.Hour)})
	require.NoError(t, err)

	assert.Equal(t, 1, c.TotalSalesCount)
	assert.Equal(t, "300", c.TotalSalesAmount.String())
	assert.Equal(t, "200", c.CashSales.String())
	assert.Equal(t, "100", c.CardSales.String())
	assert.True(t, c.TransferSales.IsZero())
	assert.True(t, c.OtherSales.IsZero())
	assert.Nil(t, c.CashDifference)
	assert.Equal(t, opening.ID, c.OpeningID)
	assert.Equal(t, "CIE-2026-00001", c.Number)

	assert.Equal(t, opening.OpeningDate, repo.salesFrom)
	assert.Equal(t, day.Day(), repo.salesTo.Day())
	assert.Equal(t, 23, repo.salesTo.Hour())
}

func TestCreateClosure_TwoShiftsSameDay(t *testing.T) {
	repo := &memRepo{sales: []ledger.Sale{
		{ID: id.New(), Total: money("300"), SaleDate: day.Add(9 * time.Hour), Status: ledger.SaleCompleted, PaymentMethod: "efectivo"},
	}}
	svc := newService(repo)
	company := id.New()
	ctx := context.Background()

	open(t, svc, company)
	morning, err := svc.CreateClosure(ctx, company, id.New(), ClosureInput{ClosureDate: day.Add(13 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 1, morning.TotalSalesCount)
	assert.Equal(t, "300", morning.CashSales.String())

	afternoon, err := svc.CreateOpening(ctx, company, id.New(), OpeningInput{
		OpeningDate:       day.Add(14 * time.Hour),
		Shift:             "tarde",
		InitialCashAmount: money("1000"),
	})
	require.NoError(t, err)
	repo.sales = append(repo.sales,
		ledger.Sale{ID: id.New(), Total: money("150"), SaleDate: day.Add(16 * time.Hour), Status: ledger.SaleCompleted, PaymentMethod: "efectivo"})

	counted := money("150")
	c, err := svc.CreateClosure(ctx, company, id.New(), ClosureInput{ClosureDate: day.Add(20 * time.Hour), CashCounted: &counted})
	require.NoError(t, err)

	assert.Equal(t, afternoon.ID, c.OpeningID)
	assert.Equal(t, 1, c.TotalSalesCount)
	assert.Equal(t, "150", c.CashSales.String())
	require.NotNil(t, c.CashDifference)
	assert.True(t, c.CashDifference.IsZero(), c.CashDifference.String())
}

func TestCreateClosure_BeforeOpeningRejected(t *testing.T) {
	repo := &memRepo{}
	svc := newService(repo)
	company := id.New()
	open(t, svc, company)

	_, err := svc.CreateClosure(context.Background(), company, id.New(), ClosureInput{ClosureDate: day.AddDate(0, 0, -1)})

	assert.True(t, apperror.IsCategory(err, apperror.CategoryValidation))
	assert.Empty(t, repo.closures)
}

func TestCreateClosure_CashDifference(t *testing.T) {
	repo := &memRepo{sales: []ledger.Sale{
		{Total: money("450"), SaleDate: day.Add(9 * time.Hour), Status: ledger.SaleCompleted, PaymentMethod: "Efectivo"},
	}}
	svc := newService(repo)
	company := id.New()
	open(t, svc, company)
	counted := money("430")

	c, err := svc.CreateClosure(context.Background(), company, id.New(), ClosureInput{ClosureDate: day, CashCounted: &counted})

	require.NoError(t, err)
	require.NotNil(t, c.CashDifference)
	assert.Equal(t, "-20", c.CashDifference.String())
}

func TestCreateClosure_ClosesSession(t *testing.T) {
	repo := &memRepo{}
	svc := newService(repo)
	company := id.New()
	open(t, svc, company)

	_, err := svc.CreateClosure(context.Background(), company, id.New(), ClosureInput{ClosureDate: day})
	require.NoError(t, err)

	_, err = svc.CreateClosure(context.Background(), company, id.New(), ClosureInput{ClosureDate: day})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNoActiveCash, appErr.Code)

	_, err = svc.RecordMovement(context.Background(), company, id.New(), MovementInput{Type: MovementIncome, Amount: money("10"), Description: "cambio"})
	assert.True(t, apperror.IsCategory(err, apperror.CategoryValidation))
}

func TestCreateOpening_RequiresPositiveAmount(t *testing.T) {
	repo := &memRepo{}
	svc := newService(repo)

	for _, amount := range []string{"0", "-1"} {
		_, err := svc.CreateOpening(context.Background(), id.New(), id.New(), OpeningInput{InitialCashAmount: money(amount)})
		assert.True(t, apperror.IsCategory(err, apperror.CategoryValidation))
	}
	assert.Zero(t, repo.calls)
}

func TestCreateOpening_SecondOpenAllowed(t *testing.T) {
	repo := &memRepo{}
	svc := newService(repo)
	company := id.New()

	first := open(t, svc, company)
	second, err := svc.CreateOpening(context.Background(), company, id.New(), OpeningInput{InitialCashAmount: money("100")})
	require.NoError(t, err)

	assert.Equal(t, "APE-2026-00001", first.Number)
	assert.Equal(t, "APE-2026-00002", second.Number)
	// no date means now
	assert.Equal(t, day.Add(20*time.Hour), second.OpeningDate)
}

func TestRecordMovement_ValidatesBeforeStore(t *testing.T) {
	tests := []struct {
		name string
		in   MovementInput
	}{
		{"zero amount", MovementInput{Type: MovementIncome, Amount: money("0"), Description: "x"}},
		{"empty description", MovementInput{Type: MovementWithdrawal, Amount: money("10"), Description: "   "}},
		{"unknown type", MovementInput{Type: "refund", Amount: money("10"), Description: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memRepo{}
			_, err := newService(repo).RecordMovement(context.Background(), id.New(), id.New(), tt.in)

			assert.True(t, apperror.IsCategory(err, apperror.CategoryValidation))
			assert.Zero(t, repo.calls)
		})
	}
}

func TestRecordMovement_NoActiveOpening(t *testing.T) {
	repo := &memRepo{}

	_, err := newService(repo).RecordMovement(context.Background(), id.New(), id.New(),
		MovementInput{Type: MovementIncome, Amount: money("10"), Description: "fondo"})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNoActiveCash, appErr.Code)
	assert.Empty(t, repo.movements)
}

func TestActiveSession(t *testing.T) {
	repo := &memRepo{}
	svc := newService(repo)
	company := id.New()
	opening := open(t, svc, company)

	_, err := svc.RecordMovement(context.Background(), company, id.New(), MovementInput{Type: MovementIncome, Amount: money("300"), Description: "fondo extra"})
	require.NoError(t, err)
	_, err = svc.RecordMovement(context.Background(), company, id.New(), MovementInput{Type: MovementWithdrawal, Amount: money("120"), Description: "pago proveedor"})
	require.NoError(t, err)

	session, err := svc.ActiveSession(context.Background(), company)

	require.NoError(t, err)
	assert.Equal(t, opening.ID, session.Opening.ID)
	assert.Len(t, session.Movements, 2)
	assert.Equal(t, "180", session.NetMovements.String())
	assert.Equal(t, "5180", session.ExpectedCash.String())
}

func TestListClosures_RejectsInvertedRange(t *testing.T) {
	repo := &memRepo{}

	_, err := newService(repo).ListClosures(context.Background(), id.New(), day, day.AddDate(0, 0, -1))

	assert.True(t, apperror.IsCategory(err, apperror.CategoryValidation))
	assert.Zero(t, repo.calls)
}

func TestListClosures_EmptyIsNotNil(t *testing.T) {
	got, err := newService(&memRepo{}).ListClosures(context.Background(), id.New(), day, day)

	require.NoError(t, err)
	assert.NotNil(t, got)
}
