package repository

import (
	"context"

	"jbook-backend/internal/domains/book/model"
)

// BookRepository is the persistence gateway for the book domain. Write
// operations return the affected-row count and surface store faults
// unclassified; deciding what a constraint violation means is the service's
// job, because only the service holds the original request.
type BookRepository interface {
	// GetByID returns the joined read projection, or (nil, nil) when the id
	// matches no live row. Soft-deleted rows are indistinguishable from
	// absent ones.
	GetByID(ctx context.Context, id int64) (*model.BookView, error)

	// Save inserts one book. When the book carries no id, the generated key
	// is written back into book.ID.
	Save(ctx context.Context, book *model.Book) (int64, error)

	// BatchSaveWithID bulk-inserts books whose ids were client-supplied.
	BatchSaveWithID(ctx context.Context, books []*model.Book) (int64, error)

	// BatchSaveWithoutID bulk-inserts books without ids, writing each
	// generated key back into its row.
	BatchSaveWithoutID(ctx context.Context, books []*model.Book) (int64, error)

	// Update rewrites a live row's mutable columns. Soft-deleted rows do not
	// match, so updating one reports zero affected rows.
	Update(ctx context.Context, book *model.Book) (int64, error)

	// InTx runs fn against a transaction-scoped repository. Any error rolls
	// the whole transaction back.
	InTx(ctx context.Context, fn func(BookRepository) error) error
}
