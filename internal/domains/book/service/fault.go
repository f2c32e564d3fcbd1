package service

import (
	"jbook-backend/internal/infrastructure/database"
	"jbook-backend/internal/shared/apperror"
	"jbook-backend/internal/shared/utils"
)

// translateIntegrityFault turns a foreign key violation raised by the driver
// into a structured not-found error carrying the offending column and the
// submitted value. The column name arrives in snake_case from the constraint
// message and is mapped back to the request field name. Anything that is not
// a foreign key violation passes through unchanged.
func translateIntegrityFault(err error, req apperror.FieldResolver) error {
	if !database.IsForeignKeyViolation(err) {
		return err
	}

	column := database.ForeignKeyColumn(err)
	if column == "" {
		return err
	}

	field := utils.ToCamelCase(column)

	var value any
	if req != nil {
		value = req.FieldValue(field)
	}
	return apperror.ForeignKeyMissing(field, value)
}
