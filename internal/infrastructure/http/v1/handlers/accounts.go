package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/accounts"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// AccountsService is implemented by accounts.Service.
type AccountsService interface {
	GetCustomerAccountMovements(ctx context.Context, companyID, customerID id.ID) ([]accounts.Movement, error)
	GetSupplierAccountMovements(ctx context.Context, companyID, supplierID id.ID) ([]accounts.Movement, error)
	GetCustomerBalance(ctx context.Context, companyID, customerID id.ID) (types.Money, error)
	GetSupplierBalance(ctx context.Context, companyID, supplierID id.ID) (types.Money, error)
}

// AccountsHandler serves customer and supplier account statements.
type AccountsHandler struct {
	*BaseHandler
	service AccountsService
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(base *BaseHandler, service AccountsService) *AccountsHandler {
	return &AccountsHandler{BaseHandler: base, service: service}
}

// CustomerMovements handles GET /accounts/customers/:id/movements
func (h *AccountsHandler) CustomerMovements(c *gin.Context) {
	customerID, ok := h.PathID(c)
	if !ok {
		return
	}
	movements, err := h.service.GetCustomerAccountMovements(c.Request.Context(), h.CompanyID(c), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, movements)
}

// CustomerBalance handles GET /accounts/customers/:id/balance
func (h *AccountsHandler) CustomerBalance(c *gin.Context) {
	customerID, ok := h.PathID(c)
	if !ok {
		return
	}
	balance, err := h.service.GetCustomerBalance(c.Request.Context(), h.CompanyID(c), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.BalanceResponse{Balance: balance})
}

// SupplierMovements handles GET /accounts/suppliers/:id/movements
func (h *AccountsHandler) SupplierMovements(c *gin.Context) {
	supplierID, ok := h.PathID(c)
	if !ok {
		return
	}
	movements, err := h.service.GetSupplierAccountMovements(c.Request.Context(), h.CompanyID(c), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, movements)
}

// SupplierBalance handles GET /accounts/suppliers/:id/balance
func (h *AccountsHandler) SupplierBalance(c *gin.Context) {
	supplierID, ok := h.PathID(c)
	if !ok {
		return
	}
	balance, err := h.service.GetSupplierBalance(c.Request.Context(), h.CompanyID(c), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.BalanceResponse{Balance: balance})
}
