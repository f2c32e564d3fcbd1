package model

import (
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"jbook-backend/internal/shared/apperror"
)

// Request DTOs use pointer fields for id, publisherId, userId and price so a
// field the client did not send stays distinguishable from a zero value.
// The JSON names below are the wire contract: error envelopes address fields
// by exactly these names.

// BookCreate is the request payload for POST /books and /books/batch.
type BookCreate struct {
	ID          *int64 `json:"id"`
	Title       string `json:"title"`
	TitleKana   string `json:"titleKana"`
	Author      string `json:"author"`
	PublisherID *int64 `json:"publisherId"`
	UserID      *int64 `json:"userId"`
	Price       *int   `json:"price"`
}

// Validate runs the whole-body field rules. Nil fields are skipped; the
// service re-checks imperatively before persisting.
func (r BookCreate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Min(int64(1))),
		validation.Field(&r.PublisherID, validation.Min(int64(1))),
		validation.Field(&r.UserID, validation.Min(int64(1))),
		validation.Field(&r.Price, validation.Min(0)),
	)
}

// ToBook converts the request into an entity, stamping both timestamps with
// the supplied conversion time.
func (r BookCreate) ToBook(now time.Time) *Book {
	book := &Book{
		Title:       r.Title,
		TitleKana:   r.TitleKana,
		Author:      r.Author,
		PublisherID: r.PublisherID,
		UserID:      r.UserID,
		Price:       r.Price,
		IsDeleted:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if r.ID != nil {
		book.ID = *r.ID
	}
	return book
}

// FieldValue resolves a field's submitted value by its wire name. Unknown
// names resolve to nil so constraint-fault translation can never fail here.
func (r BookCreate) FieldValue(name string) any {
	switch name {
	case "id":
		return int64Value(r.ID)
	case "title":
		return r.Title
	case "titleKana":
		return r.TitleKana
	case "author":
		return r.Author
	case "publisherId":
		return int64Value(r.PublisherID)
	case "userId":
		return int64Value(r.UserID)
	case "price":
		return intValue(r.Price)
	}
	return nil
}

// BookUpdate is the request payload for PUT /books. Same field shape as
// BookCreate, but conversion only stamps updatedAt.
type BookUpdate struct {
	ID          *int64 `json:"id"`
	Title       string `json:"title"`
	TitleKana   string `json:"titleKana"`
	Author      string `json:"author"`
	PublisherID *int64 `json:"publisherId"`
	UserID      *int64 `json:"userId"`
	Price       *int   `json:"price"`
}

func (r BookUpdate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Min(int64(1))),
		validation.Field(&r.PublisherID, validation.Min(int64(1))),
		validation.Field(&r.UserID, validation.Min(int64(1))),
		validation.Field(&r.Price, validation.Min(0)),
	)
}

// ToBook converts the request into an entity carrying the update timestamp;
// createdAt is left zero, the store never writes it on update.
func (r BookUpdate) ToBook(updatedAt time.Time) *Book {
	book := &Book{
		Title:       r.Title,
		TitleKana:   r.TitleKana,
		Author:      r.Author,
		PublisherID: r.PublisherID,
		UserID:      r.UserID,
		Price:       r.Price,
		UpdatedAt:   updatedAt,
	}
	if r.ID != nil {
		book.ID = *r.ID
	}
	return book
}

func (r BookUpdate) FieldValue(name string) any {
	switch name {
	case "id":
		return int64Value(r.ID)
	case "title":
		return r.Title
	case "titleKana":
		return r.TitleKana
	case "author":
		return r.Author
	case "publisherId":
		return int64Value(r.PublisherID)
	case "userId":
		return int64Value(r.UserID)
	case "price":
		return intValue(r.Price)
	}
	return nil
}

// BookBasicInfo is the minimal confirmation of a single write.
type BookBasicInfo struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ProcessedBook is the per-item outcome of a batch registration. Error is
// null for persisted items; for rejected items it carries the structured
// failure inline instead of being thrown.
type ProcessedBook struct {
	ID    *int64             `json:"id"`
	Title string             `json:"title"`
	Error *apperror.AppError `json:"error"`
}

// BookBatchProcessedResult is the aggregate outcome of a batch registration.
// HTTPStatus doubles as the response status: 200 when nothing failed, 400
// when nothing succeeded, 207 when the batch split both ways.
type BookBatchProcessedResult struct {
	HTTPStatus      int             `json:"httpStatus"`
	SuccessfulItems []ProcessedBook `json:"successfulItems"`
	FailedItems     []ProcessedBook `json:"failedItems"`
}

// BatchStatus picks the aggregate status from the item split.
func BatchStatus(successful, failed int) int {
	switch {
	case failed == 0:
		return http.StatusOK
	case successful == 0:
		return http.StatusBadRequest
	default:
		return http.StatusMultiStatus
	}
}

func int64Value(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
