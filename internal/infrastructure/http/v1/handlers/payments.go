package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/payments"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// PaymentsService is implemented by payments.Service.
type PaymentsService interface {
	AddSalePayment(ctx context.Context, companyID, actorID, saleID id.ID, in payments.Input) (*payments.Applied, error)
	AddRepairPayment(ctx context.Context, companyID, actorID, repairID id.ID, in payments.Input) (*payments.Applied, error)
	AddPurchasePayment(ctx context.Context, companyID, actorID, orderID id.ID, in payments.Input) (*payments.Applied, error)
}

type applyFunc func(ctx context.Context, companyID, actorID, documentID id.ID, in payments.Input) (*payments.Applied, error)

// PaymentsHandler applies payments to documents.
type PaymentsHandler struct {
	*BaseHandler
	service PaymentsService
}

// NewPaymentsHandler creates a new payments handler.
func NewPaymentsHandler(base *BaseHandler, service PaymentsService) *PaymentsHandler {
	return &PaymentsHandler{BaseHandler: base, service: service}
}

// AddSalePayment handles POST /sales/:id/payments
func (h *PaymentsHandler) AddSalePayment(c *gin.Context) {
	h.apply(c, h.service.AddSalePayment)
}

// AddRepairPayment handles POST /repairs/:id/payments
func (h *PaymentsHandler) AddRepairPayment(c *gin.Context) {
	h.apply(c, h.service.AddRepairPayment)
}

// AddPurchasePayment handles POST /purchase-orders/:id/payments
func (h *PaymentsHandler) AddPurchasePayment(c *gin.Context) {
	h.apply(c, h.service.AddPurchasePayment)
}

func (h *PaymentsHandler) apply(c *gin.Context, fn applyFunc) {
	documentID, ok := h.PathID(c)
	if !ok {
		return
	}
	var req dto.AddPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	applied, err := fn(c.Request.Context(), h.CompanyID(c), h.ActorID(c), documentID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, applied)
}
