package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"jbook-backend/internal/shared/response"
)

// Recovery converts a handler panic into the generic error envelope instead
// of letting the connection drop.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Interface("panic", r).
					Msg("Panic recovered")

				response.Unexpected(c, fmt.Errorf("%v", r))
				c.Abort()
			}
		}()

		c.Next()
	}
}
