package middleware

import (
	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/apperror"
	appctx "ledgerpos/internal/core/context"
)

// Permissions checked by the v1 routes.
const (
	PermAccountsRead = "accounts:read"
	PermReportsRead  = "reports:read"
	PermFinanceRead  = "finance:read"
	PermCashRead     = "cash:read"
	PermCashWrite    = "cash:write"
	PermSalesWrite   = "sales:write"
	PermPaymentWrite = "payments:write"
)

// RequirePermission middleware checks if user has required permission.
// Admins automatically have all permissions.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if appctx.GetUser(ctx) == nil {
			abortUnauthorized(c, "Se requiere autenticación")
			return
		}

		if !appctx.HasPermission(ctx, permission) {
			_ = c.Error(apperror.NewForbidden("No tiene permisos para esta operación").
				WithDetail("required_permission", permission))
			c.Abort()
			return
		}

		c.Next()
	}
}
