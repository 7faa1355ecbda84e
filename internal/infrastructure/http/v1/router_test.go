package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/apperror"
	appctx "ledgerpos/internal/core/context"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/accounts"
	"ledgerpos/internal/domain/auth"
	"ledgerpos/internal/domain/cash"
	"ledgerpos/internal/domain/finance"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/payments"
	"ledgerpos/internal/domain/reports"
	"ledgerpos/internal/domain/sales"
	"ledgerpos/internal/infrastructure/http/v1/middleware"
	"ledgerpos/pkg/logger"
)

var (
	companyID = id.MustParse("01920000-0000-7000-8000-000000000001")
	userID    = id.MustParse("01920000-0000-7000-8000-0000000000aa")
	otherID   = id.MustParse("01920000-0000-7000-8000-000000000002")
	partyID   = id.MustParse("01920000-0000-7000-8000-0000000000c1")
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubAccounts struct {
	gotCompany id.ID
	gotParty   id.ID
	balance    types.Money
}

func (s *stubAccounts) GetCustomerAccountMovements(_ context.Context, companyID, customerID id.ID) ([]accounts.Movement, error) {
	s.gotCompany, s.gotParty = companyID, customerID
	return []accounts.Movement{}, nil
}

func (s *stubAccounts) GetSupplierAccountMovements(_ context.Context, companyID, supplierID id.ID) ([]accounts.Movement, error) {
	s.gotCompany, s.gotParty = companyID, supplierID
	return []accounts.Movement{}, nil
}

func (s *stubAccounts) GetCustomerBalance(_ context.Context, companyID, customerID id.ID) (types.Money, error) {
	s.gotCompany, s.gotParty = companyID, customerID
	return s.balance, nil
}

func (s *stubAccounts) GetSupplierBalance(_ context.Context, companyID, supplierID id.ID) (types.Money, error) {
	s.gotCompany, s.gotParty = companyID, supplierID
	return s.balance, nil
}

type stubReports struct{}

func (stubReports) ParseCutoff(value string) (time.Time, error) {
	if value == "" {
		return time.Date(2026, 10, 19, 23, 59, 59, 0, time.UTC), nil
	}
	day, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, apperror.NewValidation("Fecha de corte inválida")
	}
	return day.Add(24*time.Hour - time.Second), nil
}

func (stubReports) AgingReport(_ context.Context, _ id.ID, cutoff time.Time) (*reports.AgingReport, error) {
	return &reports.AgingReport{Cutoff: cutoff, GeneratedAt: cutoff}, nil
}

type stubFinance struct{}

func (stubFinance) GetFinancialStats(context.Context, id.ID) (*finance.Summary, error) {
	return &finance.Summary{DailySales: types.MustMoney("300")}, nil
}

type stubCash struct {
	err error
}

func (s stubCash) CreateOpening(_ context.Context, companyID, _ id.ID, in cash.OpeningInput) (*cash.Opening, error) {
	return &cash.Opening{ID: id.New(), CompanyID: companyID, InitialCashAmount: in.InitialCashAmount}, s.err
}

func (s stubCash) RecordMovement(context.Context, id.ID, id.ID, cash.MovementInput) (*cash.Movement, error) {
	return nil, s.err
}

func (s stubCash) CreateClosure(context.Context, id.ID, id.ID, cash.ClosureInput) (*cash.Closure, error) {
	return nil, s.err
}

func (s stubCash) ActiveSession(context.Context, id.ID) (*cash.Session, error) {
	return nil, s.err
}

func (s stubCash) ListClosures(context.Context, id.ID, time.Time, time.Time) ([]cash.Closure, error) {
	return []cash.Closure{}, s.err
}

type stubSales struct{ got sales.Input }

func (s *stubSales) CreateSale(_ context.Context, companyID, _ id.ID, in sales.Input) (*ledger.Sale, error) {
	s.got = in
	return &ledger.Sale{ID: id.New(), CompanyID: companyID, Status: ledger.SaleCompleted}, nil
}

type stubPayments struct {
	calls      int
	gotDoc     id.ID
	gotCompany id.ID
	gotActor   id.ID
}

func (s *stubPayments) record(companyID, actorID, documentID id.ID, in payments.Input) (*payments.Applied, error) {
	s.calls++
	s.gotCompany, s.gotActor, s.gotDoc = companyID, actorID, documentID
	return &payments.Applied{
		Payment:       ledger.Payment{ID: id.New(), Amount: in.Amount, PaymentMethod: in.Method},
		PaymentStatus: ledger.PaymentPartial,
		Balance:       types.MustMoney("50"),
	}, nil
}

func (s *stubPayments) AddSalePayment(_ context.Context, companyID, actorID, saleID id.ID, in payments.Input) (*payments.Applied, error) {
	return s.record(companyID, actorID, saleID, in)
}

func (s *stubPayments) AddRepairPayment(_ context.Context, companyID, actorID, repairID id.ID, in payments.Input) (*payments.Applied, error) {
	return s.record(companyID, actorID, repairID, in)
}

func (s *stubPayments) AddPurchasePayment(_ context.Context, companyID, actorID, orderID id.ID, in payments.Input) (*payments.Applied, error) {
	return s.record(companyID, actorID, orderID, in)
}

type fixture struct {
	handler  http.Handler
	jwt      *auth.JWTService
	accounts *stubAccounts
	sales    *stubSales
	payments *stubPayments
}

func newFixture(t *testing.T, cashErr error, dbErr error) *fixture {
	t.Helper()
	f := &fixture{
		jwt:      auth.NewJWTService(auth.DefaultJWTConfig("test-secret")),
		accounts: &stubAccounts{balance: types.MustMoney("150")},
		sales:    &stubSales{},
		payments: &stubPayments{},
	}
	f.handler = NewRouter(RouterConfig{
		Logger:       logger.NewNop(),
		JWTValidator: f.jwt,
		DB:           stubPinger{err: dbErr},
		Location:     time.UTC,
		Accounts:     f.accounts,
		Reports:      stubReports{},
		Finance:      stubFinance{},
		Cash:         stubCash{err: cashErr},
		Sales:        f.sales,
		Payments:     f.payments,
	})
	return f
}

func (f *fixture) token(t *testing.T, perms ...string) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken(appctx.UserContext{
		UserID:      userID.String(),
		CompanyID:   companyID.String(),
		Email:       "caja@example.com",
		Permissions: perms,
	})
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) apperror.Result {
	t.Helper()
	var res apperror.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil, nil)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health/ready", "", nil).Code)

	down := newFixture(t, nil, errors.New("connection refused"))
	rec := down.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestAuth_RequiresBearerToken(t *testing.T) {
	f := newFixture(t, nil, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/finance/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	res := decodeResult(t, rec)
	assert.False(t, res.Success)
	assert.Equal(t, apperror.CategoryPermission, res.ErrorType)

	rec = f.do(t, http.MethodGet, "/api/v1/finance/stats", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTenant_HeaderMustMatchToken(t *testing.T) {
	f := newFixture(t, nil, nil)
	token := f.token(t, middleware.PermFinanceRead)

	rec := f.do(t, http.MethodGet, "/api/v1/finance/stats", token, nil, middleware.CompanyHeader, companyID.String())
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/finance/stats", token, nil, middleware.CompanyHeader, otherID.String())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/finance/stats", token, nil, middleware.CompanyHeader, "abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPermission_Denied(t *testing.T) {
	f := newFixture(t, nil, nil)
	rec := f.do(t, http.MethodGet, "/api/v1/finance/stats", f.token(t, middleware.PermCashRead), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	res := decodeResult(t, rec)
	require.NotNil(t, res.ErrorDetails)
	assert.Equal(t, apperror.CodeForbidden, res.ErrorDetails.Code)
}

func TestAccounts_CustomerBalance(t *testing.T) {
	f := newFixture(t, nil, nil)
	token := f.token(t, middleware.PermAccountsRead)

	rec := f.do(t, http.MethodGet, "/api/v1/accounts/customers/"+partyID.String()+"/balance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"balance":"150"}`, rec.Body.String())
	assert.Equal(t, companyID, f.accounts.gotCompany)
	assert.Equal(t, partyID, f.accounts.gotParty)

	rec = f.do(t, http.MethodGet, "/api/v1/accounts/suppliers/"+partyID.String()+"/movements", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/accounts/customers/xyz/balance", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReports_AgingAndExports(t *testing.T) {
	f := newFixture(t, nil, nil)
	token := f.token(t, middleware.PermReportsRead)

	rec := f.do(t, http.MethodGet, "/api/v1/reports/aging?cutoff=2026-10-19", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/reports/aging?cutoff=19/10/2026", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/reports/aging/export.xlsx?cutoff=2026-10-19", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "estado-cuentas-2026-10-19.xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = f.do(t, http.MethodGet, "/api/v1/reports/aging/export.pdf?cutoff=2026-10-19", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestCash_NoActiveOpening(t *testing.T) {
	noOpening := apperror.NewBusinessRule(apperror.CodeNoActiveCash, "No hay una apertura de caja activa")
	f := newFixture(t, noOpening, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/cash/session", f.token(t, middleware.PermCashRead), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	res := decodeResult(t, rec)
	assert.Equal(t, apperror.CategoryValidation, res.ErrorType)
	require.NotNil(t, res.ErrorDetails)
	assert.Equal(t, apperror.CodeNoActiveCash, res.ErrorDetails.Code)
}

func TestCash_OpeningValidation(t *testing.T) {
	f := newFixture(t, nil, nil)
	token := f.token(t, middleware.PermCashWrite)

	rec := f.do(t, http.MethodPost, "/api/v1/cash/openings", token, map[string]any{"initialCashAmount": "0"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/cash/openings", token, map[string]any{"initialCashAmount": 500, "shift": "mañana"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/cash/movements", token, map[string]any{
		"movementType": "deposit", "amount": 10, "description": "cambio",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCash_ListClosuresRejectsBadDate(t *testing.T) {
	f := newFixture(t, nil, nil)
	token := f.token(t, middleware.PermCashRead)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/cash/closures?from=2026-10-01&to=2026-10-19", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/cash/closures?from=octubre", token, nil).Code)
}

func TestSales_Create(t *testing.T) {
	f := newFixture(t, nil, nil)
	token := f.token(t, middleware.PermSalesWrite)
	product := id.New()

	rec := f.do(t, http.MethodPost, "/api/v1/sales", token, map[string]any{
		"customerId":    partyID.String(),
		"paymentMethod": "Efectivo",
		"items": []map[string]any{
			{"productId": product.String(), "quantity": "2", "unitPrice": "150"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, f.sales.got.Items, 1)
	assert.Equal(t, product, f.sales.got.Items[0].ProductID)
	require.NotNil(t, f.sales.got.CustomerID)
	assert.Equal(t, partyID, *f.sales.got.CustomerID)

	rec = f.do(t, http.MethodPost, "/api/v1/sales", token, map[string]any{
		"paymentMethod": "Efectivo",
		"items":         []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSales_CreateRejectsCancelledStatus(t *testing.T) {
	f := newFixture(t, nil, nil)
	token := f.token(t, middleware.PermSalesWrite)

	rec := f.do(t, http.MethodPost, "/api/v1/sales", token, map[string]any{
		"status":        "cancelled",
		"paymentMethod": "Efectivo",
		"items": []map[string]any{
			{"productId": id.New().String(), "quantity": "1", "unitPrice": "10"},
		},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.sales.got.Items)
}

func TestPayments_Apply(t *testing.T) {
	f := newFixture(t, nil, nil)
	token := f.token(t, middleware.PermPaymentWrite)
	doc := id.New()

	for _, path := range []string{"/api/v1/sales/", "/api/v1/repairs/", "/api/v1/purchase-orders/"} {
		rec := f.do(t, http.MethodPost, path+doc.String()+"/payments", token, map[string]any{
			"amount": "50", "paymentMethod": "Transferencia",
		})
		require.Equal(t, http.StatusCreated, rec.Code, path)
	}
	assert.Equal(t, 3, f.payments.calls)
	assert.Equal(t, doc, f.payments.gotDoc)
	assert.Equal(t, companyID, f.payments.gotCompany)
	assert.Equal(t, userID, f.payments.gotActor)

	rec := f.do(t, http.MethodPost, "/api/v1/sales/"+doc.String()+"/payments", token, map[string]any{
		"amount": "-5", "paymentMethod": "Efectivo",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 3, f.payments.calls)
}
