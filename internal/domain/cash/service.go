package cash

import (
	"context"
	"strings"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/numerator"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/aging"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/pkg/logger"
)

// Repository is the store contract for cash sessions. Every call is scoped
// to companyID.
type Repository interface {
	InsertOpening(ctx context.Context, o *Opening) error
	// ActiveOpening returns the most recent opening no closure references,
	// or nil when there is none.
	ActiveOpening(ctx context.Context, companyID id.ID) (*Opening, error)
	InsertMovement(ctx context.Context, m *Movement) error
	ListMovements(ctx context.Context, companyID, openingID id.ID) ([]Movement, error)
	// ListCompletedSales returns completed sales dated in [from, to], payments included.
	ListCompletedSales(ctx context.Context, companyID id.ID, from, to time.Time) ([]ledger.Sale, error)
	InsertClosure(ctx context.Context, c *Closure) error
	ListClosures(ctx context.Context, companyID id.ID, from, to time.Time) ([]Closure, error)
}

// OpeningInput opens a session.
type OpeningInput struct {
	OpeningDate       time.Time
	Shift             string
	InitialCashAmount types.Money
	Notes             *string
}

// MovementInput records cash in or out of the drawer.
type MovementInput struct {
	Type        MovementType
	Amount      types.Money
	Description string
}

// ClosureInput closes the active session.
type ClosureInput struct {
	ClosureDate time.Time
	Shift       string
	CashCounted *types.Money
	Notes       *string
}

// Service runs the session lifecycle OPEN -> CLOSED.
//
// A closure binds to the active opening, which is what ends the session, and
// its totals are the aggregate of completed sales dated from that opening
// through the end of the closure day.
type Service struct {
	repo    Repository
	tx      tx.Manager
	numbers numerator.Generator
	loc     *time.Location
	now     func() time.Time
}

// Config wires a Service.
type Config struct {
	Repo      Repository
	TxManager tx.Manager
	Numerator numerator.Generator
	Location  *time.Location
}

// NewService creates a new cash service.
func NewService(cfg Config) *Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	txm := cfg.TxManager
	if txm == nil {
		txm = tx.Passthrough
	}
	return &Service{
		repo:    cfg.Repo,
		tx:      txm,
		numbers: cfg.Numerator,
		loc:     loc,
		now:     time.Now,
	}
}

func errNoActiveOpening() *apperror.AppError {
	return apperror.NewBusinessRule(apperror.CodeNoActiveCash, "No hay una apertura de caja activa").
		WithHint("Registre una apertura de caja antes de continuar")
}

// CreateOpening starts a session. A second open session is not rejected.
func (s *Service) CreateOpening(ctx context.Context, companyID, actorID id.ID, in OpeningInput) (*Opening, error) {
	if !in.InitialCashAmount.IsPositive() {
		return nil, apperror.NewValidation("El monto inicial de caja debe ser mayor a cero").
			WithDetail("field", "initialCashAmount")
	}

	o := &Opening{
		ID:                id.New(),
		CompanyID:         companyID,
		OpeningDate:       in.OpeningDate,
		Shift:             strings.TrimSpace(in.Shift),
		InitialCashAmount: in.InitialCashAmount,
		Notes:             in.Notes,
		CreatedBy:         actor(actorID),
		CreatedAt:         s.now(),
	}
	if o.OpeningDate.IsZero() {
		o.OpeningDate = o.CreatedAt
	}

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numbers.Next(ctx, companyID, numerator.DefaultConfig(numerator.PrefixOpening), o.OpeningDate)
		if err != nil {
			return err
		}
		o.Number = number
		return s.repo.InsertOpening(ctx, o)
	})
	if err != nil {
		return nil, domain.Fail(ctx, "cash.create_opening", companyID, o.ID, err)
	}

	logger.Info(ctx, "cash opening created", "company_id", companyID, "opening_id", o.ID, "number", o.Number)
	return o, nil
}

// RecordMovement adds a movement to the active session.
func (s *Service) RecordMovement(ctx context.Context, companyID, actorID id.ID, in MovementInput) (*Movement, error) {
	if !in.Type.Valid() {
		return nil, apperror.NewValidation("El tipo de movimiento debe ser ingreso o retiro").
			WithDetail("field", "movementType")
	}
	if !in.Amount.IsPositive() {
		return nil, apperror.NewValidation("El monto del movimiento debe ser mayor a cero").
			WithDetail("field", "amount")
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, apperror.NewValidation("La descripción del movimiento es requerida").
			WithDetail("field", "description")
	}

	opening, err := s.repo.ActiveOpening(ctx, companyID)
	if err != nil {
		return nil, domain.Fail(ctx, "cash.record_movement", companyID, nil, err)
	}
	if opening == nil {
		return nil, errNoActiveOpening()
	}

	m := &Movement{
		ID:           id.New(),
		CompanyID:    companyID,
		OpeningID:    opening.ID,
		MovementType: in.Type,
		Amount:       in.Amount,
		Description:  description,
		CreatedBy:    actor(actorID),
		CreatedAt:    s.now(),
	}
	if err := s.repo.InsertMovement(ctx, m); err != nil {
		return nil, domain.Fail(ctx, "cash.record_movement", companyID, opening.ID, err)
	}
	return m, nil
}

// CreateClosure closes the active session with the totals of the completed
// sales dated from the session's opening through the end of the closure day.
func (s *Service) CreateClosure(ctx context.Context, companyID, actorID id.ID, in ClosureInput) (*Closure, error) {
	if in.CashCounted != nil && in.CashCounted.IsNegative() {
		return nil, apperror.NewValidation("El efectivo contado no puede ser negativo").
			WithDetail("field", "cashCounted")
	}

	closureDate := in.ClosureDate
	if closureDate.IsZero() {
		closureDate = s.now()
	}
	day := aging.StartOfDay(closureDate, s.loc)
	end := aging.EndOfDay(closureDate, s.loc)

	c := &Closure{
		ID:          id.New(),
		CompanyID:   companyID,
		ClosureDate: day,
		Shift:       strings.TrimSpace(in.Shift),
		CashCounted: in.CashCounted,
		Notes:       in.Notes,
		CreatedBy:   actor(actorID),
		CreatedAt:   s.now(),
	}

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		opening, err := s.repo.ActiveOpening(ctx, companyID)
		if err != nil {
			return err
		}
		if opening == nil {
			return errNoActiveOpening()
		}
		c.OpeningID = opening.ID
		if end.Before(opening.OpeningDate) {
			return apperror.NewValidation("La fecha de cierre no puede ser anterior a la apertura").
				WithDetail("field", "closureDate")
		}

		sales, err := s.repo.ListCompletedSales(ctx, companyID, opening.OpeningDate, end)
		if err != nil {
			return err
		}
		c.apply(Partition(sales))

		number, err := s.numbers.Next(ctx, companyID, numerator.DefaultConfig(numerator.PrefixClosure), day)
		if err != nil {
			return err
		}
		c.Number = number
		return s.repo.InsertClosure(ctx, c)
	})
	if err != nil {
		return nil, domain.Fail(ctx, "cash.create_closure", companyID, c.OpeningID, err)
	}

	logger.Info(ctx, "cash closure created",
		"company_id", companyID,
		"closure_id", c.ID,
		"opening_id", c.OpeningID,
		"sales_count", c.TotalSalesCount,
		"total", c.TotalSalesAmount.String(),
	)
	return c, nil
}

func (c *Closure) apply(t Totals) {
	c.TotalSalesCount = t.Count
	c.TotalSalesAmount = t.Amount
	c.CashSales = t.Cash
	c.CardSales = t.Card
	c.TransferSales = t.Transfer
	c.OtherSales = t.Other
	if c.CashCounted != nil {
		diff := c.CashCounted.Sub(t.Cash)
		c.CashDifference = &diff
	}
}

// ActiveSession returns the open session with its movements.
func (s *Service) ActiveSession(ctx context.Context, companyID id.ID) (*Session, error) {
	opening, err := s.repo.ActiveOpening(ctx, companyID)
	if err != nil {
		return nil, domain.Fail(ctx, "cash.active_session", companyID, nil, err)
	}
	if opening == nil {
		return nil, errNoActiveOpening()
	}

	movements, err := s.repo.ListMovements(ctx, companyID, opening.ID)
	if err != nil {
		return nil, domain.Fail(ctx, "cash.active_session", companyID, opening.ID, err)
	}
	if movements == nil {
		movements = []Movement{}
	}

	net := types.Zero()
	for _, m := range movements {
		net = net.Add(m.Signed())
	}
	return &Session{
		Opening:      *opening,
		Movements:    movements,
		NetMovements: net,
		ExpectedCash: opening.InitialCashAmount.Add(net),
	}, nil
}

// ListClosures returns closures dated within [from, to], calendar days in
// the service location.
func (s *Service) ListClosures(ctx context.Context, companyID id.ID, from, to time.Time) ([]Closure, error) {
	if from.After(to) {
		return nil, apperror.NewValidation("La fecha desde debe ser anterior a la fecha hasta")
	}
	closures, err := s.repo.ListClosures(ctx, companyID, aging.StartOfDay(from, s.loc), aging.EndOfDay(to, s.loc))
	if err != nil {
		return nil, domain.Fail(ctx, "cash.list_closures", companyID, nil, err)
	}
	if closures == nil {
		closures = []Closure{}
	}
	return closures, nil
}

func actor(actorID id.ID) *id.ID {
	if id.IsNil(actorID) {
		return nil
	}
	return &actorID
}
