package response

import (
	"errors"
	"net/http"

	"jbook-backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// The error envelope is the wire contract clients depend on: one JSON object
// per failure, holding the offending field name mapped to its rejected value
// (when one exists) plus a "message" key. Whole-body validation renders an
// array of such objects; unrecognized faults use a fixed "error" key.

func envelope(e *apperror.AppError) gin.H {
	body := gin.H{"message": e.Message}
	if e.Field != "" {
		body[e.Field] = e.Value
	}
	return body
}

// Failure renders any error escaping a handler. Structured failures keep
// their own status; everything else is treated as unexpected.
func Failure(c *gin.Context, err error) {
	var fields apperror.FieldErrors
	if errors.As(err, &fields) {
		bodies := make([]gin.H, 0, len(fields))
		for _, fieldErr := range fields {
			bodies = append(bodies, envelope(fieldErr))
		}
		c.JSON(http.StatusBadRequest, bodies)
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, envelope(appErr))
		return
	}

	Unexpected(c, err)
}

// Unexpected renders a fault the system does not recognize. The original
// message is appended verbatim; a stack trace must never reach the client.
func Unexpected(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": apperror.MessageUnexpectedPrefix + err.Error(),
	})
}

// RouteNotFound renders the no-handler envelope: the attempted method mapped
// to the attempted path.
func RouteNotFound(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		c.Request.Method: c.Request.URL.Path,
		"message":        apperror.MessageRouteNotFound,
	})
}
