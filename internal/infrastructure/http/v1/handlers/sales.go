package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/sales"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// SalesService is implemented by sales.Service.
type SalesService interface {
	CreateSale(ctx context.Context, companyID, actorID id.ID, in sales.Input) (*ledger.Sale, error)
}

// SalesHandler registers sales.
type SalesHandler struct {
	*BaseHandler
	service SalesService
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(base *BaseHandler, service SalesService) *SalesHandler {
	return &SalesHandler{BaseHandler: base, service: service}
}

// Create handles POST /sales
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	sale, err := h.service.CreateSale(c.Request.Context(), h.CompanyID(c), h.ActorID(c), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, sale)
}
