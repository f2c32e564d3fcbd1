package apperror

import (
	"fmt"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Error messages returned to clients. Every failure kind maps onto the same
// envelope shape, so the message is the only free-form part of the contract.
const (
	MessageInvalidValue    = "the submitted value is invalid"
	MessageTypeMismatch    = "the parameter has the wrong type"
	MessageMalformedBody   = "the request body could not be parsed"
	MessageDuplicateKey    = "a book with this id is already registered"
	MessageNonexistentFK   = "the referenced foreign key does not exist"
	MessageNonexistentBook = "the book does not exist"
	MessageInsertFailed    = "the book could not be inserted"
	MessageIDNotGenerated  = "the store did not generate an id for the book"
	MessageRouteNotFound   = "the requested route does not exist"

	// MessageUnexpectedPrefix is prepended verbatim to the original message of
	// any fault the dispatcher does not recognize.
	MessageUnexpectedPrefix = "unexpected error: "
)

// AppError is the structured failure carried from the point a problem is
// detected up to the global dispatcher. Field and Value identify the single
// offending request field when one exists.
//
// The JSON tags matter: when a batch item fails validation the error is not
// thrown but embedded in the response body, and only these four properties
// may appear there.
type AppError struct {
	Message string `json:"message"`
	Status  int    `json:"httpStatus"`
	Field   string `json:"field,omitempty"`
	Value   any    `json:"value,omitempty"`
}

func (e *AppError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s=%v)", e.Message, e.Field, e.Value)
}

// InvalidValue reports a field that failed a domain validation rule.
func InvalidValue(field string, value any) *AppError {
	return &AppError{
		Message: MessageInvalidValue,
		Status:  http.StatusBadRequest,
		Field:   field,
		Value:   value,
	}
}

// TypeMismatch reports a parameter that could not be parsed into its declared
// type. Value carries the literal input, not a converted form.
func TypeMismatch(field string, value any) *AppError {
	return &AppError{
		Message: MessageTypeMismatch,
		Status:  http.StatusBadRequest,
		Field:   field,
		Value:   value,
	}
}

// MalformedBody reports a request body that did not deserialize at all.
func MalformedBody() *AppError {
	return &AppError{
		Message: MessageMalformedBody,
		Status:  http.StatusBadRequest,
	}
}

// DuplicateKey reports a primary-key collision on insert. Value is the id the
// client submitted; a generated id cannot collide.
func DuplicateKey(value any) *AppError {
	return &AppError{
		Message: MessageDuplicateKey,
		Status:  http.StatusConflict,
		Field:   "id",
		Value:   value,
	}
}

// ForeignKeyMissing reports a write that referenced a nonexistent publisher or
// user. Renders as 404 on every path: the referenced resource was not found.
func ForeignKeyMissing(field string, value any) *AppError {
	return &AppError{
		Message: MessageNonexistentFK,
		Status:  http.StatusNotFound,
		Field:   field,
		Value:   value,
	}
}

// ResourceMissing reports an update that matched no live row, either because
// the id does not exist or because the row is soft-deleted.
func ResourceMissing(value any) *AppError {
	return &AppError{
		Message: MessageNonexistentBook,
		Status:  http.StatusNotFound,
		Field:   "id",
		Value:   value,
	}
}

// InsertFailed reports an insert the store accepted but which affected zero
// rows. This is store-layer misbehavior, not a client error.
func InsertFailed() *AppError {
	return &AppError{
		Message: MessageInsertFailed,
		Status:  http.StatusInternalServerError,
	}
}

// IDNotGenerated reports an insert without a client-supplied id for which the
// store produced no generated key.
func IDNotGenerated() *AppError {
	return &AppError{
		Message: MessageIDNotGenerated,
		Status:  http.StatusInternalServerError,
	}
}

// FieldResolver resolves a request field's submitted value by name. Lookups
// must never fail: an unknown name resolves to nil.
type FieldResolver interface {
	FieldValue(name string) any
}

// FieldErrors is a collection of per-field failures from whole-body
// validation, rendered as a JSON array rather than a single object.
type FieldErrors []*AppError

func (e FieldErrors) Error() string {
	return fmt.Sprintf("%d fields failed validation", len(e))
}

// FromValidationErrors converts an ozzo validation result into FieldErrors,
// resolving each rejected value from the original request. Fields are sorted
// for a deterministic envelope.
func FromValidationErrors(errs validation.Errors, r FieldResolver) FieldErrors {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make(FieldErrors, 0, len(fields))
	for _, field := range fields {
		out = append(out, InvalidValue(field, r.FieldValue(field)))
	}
	return out
}
