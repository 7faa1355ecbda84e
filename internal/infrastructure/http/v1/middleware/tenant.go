package middleware

import (
	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/apperror"
	appctx "ledgerpos/internal/core/context"
	"ledgerpos/internal/core/id"
)

const (
	// CompanyHeader selects the company a request acts on.
	CompanyHeader = "X-Company-ID"

	companyKey = "company_id"
	actorKey   = "actor_id"
)

// Tenant resolves the company once per request. The header is optional and
// must match the token's company when present. Runs after Auth.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			abortUnauthorized(c, "Se requiere autenticación")
			return
		}

		tokenCompany, err := id.Parse(user.CompanyID)
		if err != nil {
			abortUnauthorized(c, "Token sin empresa válida")
			return
		}
		actor, err := id.Parse(user.UserID)
		if err != nil {
			abortUnauthorized(c, "Token sin usuario válido")
			return
		}

		if raw := c.GetHeader(CompanyHeader); raw != "" {
			headerCompany, err := id.Parse(raw)
			if err != nil {
				_ = c.Error(apperror.NewValidation("Identificador de empresa inválido").
					WithDetail("header", CompanyHeader))
				c.Abort()
				return
			}
			if headerCompany != tokenCompany {
				_ = c.Error(apperror.NewForbidden("No tiene acceso a esta empresa"))
				c.Abort()
				return
			}
		}

		c.Set(companyKey, tokenCompany)
		c.Set(actorKey, actor)
		c.Next()
	}
}

// CompanyID returns the company resolved by Tenant.
func CompanyID(c *gin.Context) id.ID {
	if v, ok := c.Get(companyKey); ok {
		if companyID, ok := v.(id.ID); ok {
			return companyID
		}
	}
	return id.ID{}
}

// ActorID returns the authenticated user resolved by Tenant.
func ActorID(c *gin.Context) id.ID {
	if v, ok := c.Get(actorKey); ok {
		if actorID, ok := v.(id.ID); ok {
			return actorID
		}
	}
	return id.ID{}
}
