package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/finance"
)

// FinanceService is implemented by finance.Service.
type FinanceService interface {
	GetFinancialStats(ctx context.Context, companyID id.ID) (*finance.Summary, error)
}

// FinanceHandler serves the dashboard snapshot.
type FinanceHandler struct {
	*BaseHandler
	service FinanceService
}

// NewFinanceHandler creates a new finance handler.
func NewFinanceHandler(base *BaseHandler, service FinanceService) *FinanceHandler {
	return &FinanceHandler{BaseHandler: base, service: service}
}

// GetStats handles GET /finance/stats
func (h *FinanceHandler) GetStats(c *gin.Context) {
	summary, err := h.service.GetFinancialStats(c.Request.Context(), h.CompanyID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}
