package apperror

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes inspected by Classify.
const (
	pgInsufficientPrivilege = "42501"
	pgUniqueViolation       = "23505"
	pgForeignKeyViolation   = "23503"
	pgNotNullViolation      = "23502"
	pgCheckViolation        = "23514"
	pgRaiseException        = "P0001"
)

var (
	planLimitKeywords  = []string{"plan", "limit", "subscription", "límite", "suscripci"}
	validationKeywords = []string{"invalid", "validation", "required", "inválid", "requerid"}
)

// Classify maps any error into the failure taxonomy.
// An AppError anywhere in the chain is returned unchanged. Store errors are
// classified by SQLSTATE first and by message keywords second.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:       CodeTimeout,
			Category:   CategoryUnknown,
			Message:    "La operación tardó demasiado. Intente nuevamente.",
			HTTPStatus: http.StatusGatewayTimeout,
			Err:        err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if appErr := classifyPgError(pgErr); appErr != nil {
			return appErr.WithCause(err)
		}
		if appErr := classifyMessage(pgErr.Message); appErr != nil {
			appErr.Hint = pgErr.Hint
			return appErr.WithCause(err)
		}
		return NewInternal(err)
	}

	if appErr := classifyMessage(err.Error()); appErr != nil {
		return appErr.WithCause(err)
	}
	return NewInternal(err)
}

func classifyPgError(pgErr *pgconn.PgError) *AppError {
	switch {
	case pgErr.Code == pgRaiseException:
		// Quota and business triggers raise P0001; their message decides.
		return nil
	case pgErr.Code == pgInsufficientPrivilege:
		return NewForbidden("No tiene permisos para realizar esta operación").
			WithHint(pgErr.Hint).
			withSQLState(pgErr.Code)
	case pgErr.Code == pgUniqueViolation:
		return NewConstraint(CodeDuplicate, "Ya existe un registro con esos datos").
			WithHint(pgErr.Hint).
			withSQLState(pgErr.Code).
			WithDetail("constraint", pgErr.ConstraintName)
	case pgErr.Code == pgForeignKeyViolation:
		return NewConstraint(CodeConstraint, "El registro referenciado no existe o está en uso").
			WithHint(pgErr.Hint).
			withSQLState(pgErr.Code).
			WithDetail("constraint", pgErr.ConstraintName)
	case pgErr.Code == pgNotNullViolation:
		return NewConstraint(CodeConstraint, "Falta un dato obligatorio").
			WithHint(pgErr.Hint).
			withSQLState(pgErr.Code).
			WithDetail("column", pgErr.ColumnName)
	case pgErr.Code == pgCheckViolation, strings.HasPrefix(pgErr.Code, "23"):
		return NewConstraint(CodeConstraint, "Los datos no cumplen una restricción del sistema").
			WithHint(pgErr.Hint).
			withSQLState(pgErr.Code).
			WithDetail("constraint", pgErr.ConstraintName)
	case strings.HasPrefix(pgErr.Code, "22"):
		return NewValidation("Los datos enviados tienen un formato o rango inválido").
			WithHint(pgErr.Hint).
			withSQLState(pgErr.Code)
	}
	return nil
}

func classifyMessage(message string) *AppError {
	lower := strings.ToLower(message)
	if containsAny(lower, planLimitKeywords) {
		return NewPlanLimit("Se alcanzó el límite de su plan. Actualice la suscripción para continuar.")
	}
	if containsAny(lower, validationKeywords) {
		return NewValidation("Los datos enviados no son válidos")
	}
	return nil
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// SQLState returns the store error code recorded by Classify, if any.
func (e *AppError) SQLState() string {
	if v, ok := e.Details["sqlstate"].(string); ok {
		return v
	}
	return ""
}

func (e *AppError) withSQLState(code string) *AppError {
	return e.WithDetail("sqlstate", code)
}
