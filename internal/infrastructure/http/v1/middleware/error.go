package middleware

import (
	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/pkg/logger"
)

// ErrorHandler middleware turns the last handler error into the failure
// envelope {success, error, errorType, errorDetails}. Causes stay in the logs.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		// services log classified errors at their boundary
		if _, ok := apperror.AsAppError(err); !ok {
			logger.Error(c.Request.Context(), "unhandled error",
				"path", c.Request.URL.Path,
				"error", err,
			)
		}

		appErr := apperror.Classify(err)
		c.JSON(appErr.HTTPStatus, apperror.ToResult(appErr))
	}
}
