// Package domain holds helpers shared by the ledger services.
package domain

import (
	"context"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/pkg/logger"
)

// Fail is the service boundary for store and collaborator errors: it
// classifies err, logs the raw cause server side and returns the sanitized
// AppError. Validation errors raised before any store call pass through
// without logging.
func Fail(ctx context.Context, op string, companyID id.ID, entityID any, err error) error {
	if err == nil {
		return nil
	}

	appErr := apperror.Classify(err)
	if appErr.Err == nil && appErr.Category == apperror.CategoryValidation {
		return appErr
	}

	kv := []any{
		"op", op,
		"company_id", companyID,
		"entity_id", entityID,
		"error_type", appErr.Category,
		"error", err,
	}
	if appErr.Category == apperror.CategoryUnknown {
		logger.Error(ctx, "operation failed", kv...)
	} else {
		logger.Warn(ctx, "operation rejected", kv...)
	}
	return appErr
}

// NormalizeNotFound maps a store not-found into the entity-specific message.
func NormalizeNotFound(err error, entity string, entityID any) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(entity, entityID)
	}
	return err
}
