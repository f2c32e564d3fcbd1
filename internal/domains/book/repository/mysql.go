package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"jbook-backend/internal/domains/book/model"
)

type mysqlBookRepository struct {
	db *gorm.DB
}

// NewMySQLRepository creates the gorm-backed book repository.
func NewMySQLRepository(db *gorm.DB) BookRepository {
	return &mysqlBookRepository{db: db}
}

// bookViewQuery joins the referenced publisher and user for the read
// projection. The join predicates filter soft-deleted referenced rows so
// their names come back NULL rather than dropping the book row.
const bookViewQuery = `
SELECT b.id, b.title, b.title_kana, b.author,
       b.publisher_id, p.name AS publisher_name,
       b.user_id, u.name AS user_name,
       b.price, b.is_deleted, b.created_at, b.updated_at
FROM books b
LEFT JOIN publishers p ON p.id = b.publisher_id AND p.is_deleted = 0
LEFT JOIN users u ON u.id = b.user_id AND u.is_deleted = 0
WHERE b.id = ? AND b.is_deleted = 0`

func (r *mysqlBookRepository) GetByID(ctx context.Context, id int64) (*model.BookView, error) {
	var view model.BookView
	result := r.db.WithContext(ctx).Raw(bookViewQuery, id).Scan(&view)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query book view: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &view, nil
}

func (r *mysqlBookRepository) Save(ctx context.Context, book *model.Book) (int64, error) {
	// gorm omits a zero auto-increment id from the INSERT and writes the
	// generated key back into book.ID.
	result := r.db.WithContext(ctx).Create(book)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert book: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// The two batch paths stay separate: mixing id-bearing rows into a generated
// insert would misalign the key backfill, so callers partition first.

func (r *mysqlBookRepository) BatchSaveWithID(ctx context.Context, books []*model.Book) (int64, error) {
	result := r.db.WithContext(ctx).Create(&books)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to bulk insert books with id: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *mysqlBookRepository) BatchSaveWithoutID(ctx context.Context, books []*model.Book) (int64, error) {
	result := r.db.WithContext(ctx).Create(&books)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to bulk insert books: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *mysqlBookRepository) Update(ctx context.Context, book *model.Book) (int64, error) {
	// Updates runs over a map so NULL assignments (e.g. clearing price) are
	// written too; a struct update would skip zero-valued fields.
	values := map[string]interface{}{
		"title":        book.Title,
		"title_kana":   book.TitleKana,
		"author":       book.Author,
		"publisher_id": book.PublisherID,
		"user_id":      book.UserID,
		"price":        book.Price,
		"updated_at":   book.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("id = ? AND is_deleted = 0", book.ID).
		Updates(values)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update book: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *mysqlBookRepository) InTx(ctx context.Context, fn func(BookRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&mysqlBookRepository{db: tx})
	})
}
