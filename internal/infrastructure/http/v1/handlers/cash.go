package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/cash"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// CashService is implemented by cash.Service.
type CashService interface {
	CreateOpening(ctx context.Context, companyID, actorID id.ID, in cash.OpeningInput) (*cash.Opening, error)
	RecordMovement(ctx context.Context, companyID, actorID id.ID, in cash.MovementInput) (*cash.Movement, error)
	CreateClosure(ctx context.Context, companyID, actorID id.ID, in cash.ClosureInput) (*cash.Closure, error)
	ActiveSession(ctx context.Context, companyID id.ID) (*cash.Session, error)
	ListClosures(ctx context.Context, companyID id.ID, from, to time.Time) ([]cash.Closure, error)
}

// CashHandler serves the cash register session endpoints.
type CashHandler struct {
	*BaseHandler
	service CashService
	loc     *time.Location
	now     func() time.Time
}

// NewCashHandler creates a new cash handler. Date filters are read in loc.
func NewCashHandler(base *BaseHandler, service CashService, loc *time.Location) *CashHandler {
	if loc == nil {
		loc = time.Local
	}
	return &CashHandler{BaseHandler: base, service: service, loc: loc, now: time.Now}
}

// CreateOpening handles POST /cash/openings
func (h *CashHandler) CreateOpening(c *gin.Context) {
	var req dto.CreateOpeningRequest
	if !h.BindJSON(c, &req) {
		return
	}
	opening, err := h.service.CreateOpening(c.Request.Context(), h.CompanyID(c), h.ActorID(c), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, opening)
}

// ActiveSession handles GET /cash/session
func (h *CashHandler) ActiveSession(c *gin.Context) {
	session, err := h.service.ActiveSession(c.Request.Context(), h.CompanyID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, session)
}

// RecordMovement handles POST /cash/movements
func (h *CashHandler) RecordMovement(c *gin.Context) {
	var req dto.CreateMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}
	movement, err := h.service.RecordMovement(c.Request.Context(), h.CompanyID(c), h.ActorID(c), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, movement)
}

// CreateClosure handles POST /cash/closures
func (h *CashHandler) CreateClosure(c *gin.Context) {
	var req dto.CreateClosureRequest
	if !h.BindJSON(c, &req) {
		return
	}
	closure, err := h.service.CreateClosure(c.Request.Context(), h.CompanyID(c), h.ActorID(c), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, closure)
}

// ListClosures handles GET /cash/closures?from=&to=
// Missing bounds default to today.
func (h *CashHandler) ListClosures(c *gin.Context) {
	var req dto.ListClosuresRequest
	if !h.BindQuery(c, &req) {
		return
	}
	today := h.now().In(h.loc)
	from, to := h.day(req.From, today), h.day(req.To, today)

	closures, err := h.service.ListClosures(c.Request.Context(), h.CompanyID(c), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, closures)
}

// day reads a YYYY-MM-DD value already checked by binding.
func (h *CashHandler) day(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	t, err := time.ParseInLocation(time.DateOnly, value, h.loc)
	if err != nil {
		return fallback
	}
	return t
}
