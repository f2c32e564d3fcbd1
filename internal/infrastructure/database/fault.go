package database

import (
	"errors"
	"regexp"

	"github.com/go-sql-driver/mysql"
)

// MySQL vendor error codes the book flows classify on. Anything else is not
// our concern and passes through to the dispatcher untouched.
const (
	mysqlErrDuplicateEntry  = 1062 // "Duplicate entry '...' for key ..."
	mysqlErrNoReferencedRow = 1452 // "Cannot add or update a child row ..."
)

// fkColumnPattern matches the offending column inside a 1452 message, e.g.
// CONSTRAINT `fk_books_publisher` FOREIGN KEY (`publisher_id`) REFERENCES ...
var fkColumnPattern = regexp.MustCompile("FOREIGN KEY \\(`(\\w+)`\\)")

// IsForeignKeyViolation reports whether the root cause of err is a MySQL
// foreign-key constraint violation.
func IsForeignKeyViolation(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlErrNoReferencedRow
}

// IsDuplicateKey reports whether the root cause of err is a MySQL duplicate
// primary/unique key violation.
func IsDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlErrDuplicateEntry
}

// ForeignKeyColumn extracts the violated column name from a foreign-key fault
// message. Returns "" when the message carries no recognizable column.
func ForeignKeyColumn(err error) string {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return ""
	}
	match := fkColumnPattern.FindStringSubmatch(myErr.Message)
	if match == nil {
		return ""
	}
	return match[1]
}
