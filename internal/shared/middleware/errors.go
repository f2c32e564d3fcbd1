package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"jbook-backend/internal/shared/apperror"
	"jbook-backend/internal/shared/response"
)

// ErrorHandler is the global fault dispatcher. Handlers attach failures with
// c.Error instead of writing error bodies themselves; after the chain runs,
// the last recorded error is rendered through the shared envelope rules.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		var fieldErrs apperror.FieldErrors
		if !errors.As(err, &appErr) && !errors.As(err, &fieldErrs) {
			log.Error().
				Str("request_id", c.GetString("request_id")).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Err(err).
				Msg("Unrecognized failure")
		}

		response.Failure(c, err)
	}
}
