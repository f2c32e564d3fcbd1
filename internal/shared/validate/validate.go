package validate

import (
	"jbook-backend/internal/shared/apperror"
)

// Field rules shared by the register and update flows. Nil means "not
// submitted" and always passes; the store decides whether null is acceptable.

// PositiveID rejects a submitted id that is not >= 1.
func PositiveID(id *int64, field string) error {
	if id != nil && *id < 1 {
		return apperror.InvalidValue(field, *id)
	}
	return nil
}

// NonNegativePrice rejects a submitted price below zero.
func NonNegativePrice(price *int, field string) error {
	if price != nil && *price < 0 {
		return apperror.InvalidValue(field, *price)
	}
	return nil
}
