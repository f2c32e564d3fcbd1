package service

import (
	"context"

	"jbook-backend/internal/domains/book/model"
)

// BookService holds the book use cases. Anticipated failures come back as
// structured apperror values; anything else is a fault for the global
// dispatcher.
type BookService interface {
	// GetByID returns the read projection, or (nil, nil) when the id matches
	// no live book. Absence is not an error.
	GetByID(ctx context.Context, id int64) (*model.BookView, error)

	// Register validates and inserts one book.
	Register(ctx context.Context, create model.BookCreate) (*model.BookBasicInfo, error)

	// BatchRegister processes a list of creates with partial-failure
	// semantics: validation failures are reported per item, while the
	// persistence phase is all-or-nothing under one transaction.
	BatchRegister(ctx context.Context, creates []model.BookCreate) (*model.BookBatchProcessedResult, error)

	// Update validates and rewrites one existing book.
	Update(ctx context.Context, update model.BookUpdate) (*model.BookBasicInfo, error)
}
