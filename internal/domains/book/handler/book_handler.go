package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"jbook-backend/internal/domains/book/model"
	"jbook-backend/internal/domains/book/service"
	"jbook-backend/internal/shared/apperror"
	"jbook-backend/pkg/cache"
)

const bookViewCacheTTL = 10 * time.Minute

func bookViewCacheKey(id int64) string {
	return fmt.Sprintf("book:view:%d", id)
}

// BookHandler exposes the book endpoints.
type BookHandler struct {
	service service.BookService
	cache   cache.Cache
}

// NewBookHandler creates a book handler. The cache may be nil when Redis is
// unavailable; reads then go straight to the database.
func NewBookHandler(svc service.BookService, c cache.Cache) *BookHandler {
	return &BookHandler{service: svc, cache: c}
}

// GetByID handles GET /books/:id.
func (h *BookHandler) GetByID(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.Error(apperror.TypeMismatch("id", raw))
		return
	}

	if h.cache != nil {
		var cached model.BookView
		hit, err := h.cache.Get(c.Request.Context(), bookViewCacheKey(id), &cached)
		if err != nil {
			log.Warn().Err(err).Int64("book_id", id).Msg("cache read failed")
		} else if hit {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	view, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	if view == nil {
		c.Status(http.StatusNoContent)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), bookViewCacheKey(id), view, bookViewCacheTTL); err != nil {
			log.Warn().Err(err).Int64("book_id", id).Msg("cache write failed")
		}
	}

	c.JSON(http.StatusOK, view)
}

// Register handles POST /books.
func (h *BookHandler) Register(c *gin.Context) {
	var req model.BookCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(validationError(err, &req))
		return
	}

	info, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	h.invalidateView(c, info.ID)
	c.JSON(http.StatusOK, info)
}

// BatchRegister handles POST /books/batch.
func (h *BookHandler) BatchRegister(c *gin.Context) {
	var reqs []model.BookCreate
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.Error(bindError(err))
		return
	}

	result, err := h.service.BatchRegister(c.Request.Context(), reqs)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(result.HTTPStatus, result)
}

// Update handles PUT /books.
func (h *BookHandler) Update(c *gin.Context) {
	var req model.BookUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(validationError(err, &req))
		return
	}

	info, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	h.invalidateView(c, info.ID)
	c.JSON(http.StatusOK, info)
}

func (h *BookHandler) invalidateView(c *gin.Context, id int64) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(c.Request.Context(), bookViewCacheKey(id)); err != nil {
		log.Warn().Err(err).Int64("book_id", id).Msg("cache invalidation failed")
	}
}

// validationError converts a declarative validation failure into the field
// error envelope, resolving submitted values through the request itself.
func validationError(err error, r apperror.FieldResolver) error {
	var errs validation.Errors
	if errors.As(err, &errs) {
		return apperror.FromValidationErrors(errs, r)
	}
	return err
}

// bindError maps a JSON binding failure onto the structured envelope. A type
// mismatch on a known field reports that field with the rejected token;
// anything else in the body is reported as malformed.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperror.TypeMismatch(typeErr.Field, typeErr.Value)
	}
	return apperror.MalformedBody()
}
