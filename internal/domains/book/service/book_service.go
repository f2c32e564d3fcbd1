package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jbook-backend/internal/domains/book/model"
	"jbook-backend/internal/domains/book/repository"
	"jbook-backend/internal/infrastructure/database"
	"jbook-backend/internal/shared/apperror"
	"jbook-backend/internal/shared/validate"
)

type bookService struct {
	repo repository.BookRepository
}

// NewBookService creates a book service backed by the given repository.
func NewBookService(repo repository.BookRepository) BookService {
	return &bookService{repo: repo}
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*model.BookView, error) {
	if id < 1 {
		return nil, apperror.InvalidValue("id", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) Register(ctx context.Context, create model.BookCreate) (*model.BookBasicInfo, error) {
	if err := validateBook(create.ID, create.PublisherID, create.UserID, create.Price); err != nil {
		return nil, err
	}

	book := create.ToBook(time.Now())
	affected, err := s.repo.Save(ctx, book)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return nil, apperror.DuplicateKey(create.FieldValue("id"))
		}
		return nil, translateIntegrityFault(err, &create)
	}
	if affected <= 0 {
		return nil, apperror.InsertFailed()
	}
	if create.ID == nil && book.ID == 0 {
		return nil, apperror.IDNotGenerated()
	}

	return &model.BookBasicInfo{ID: book.ID, Title: book.Title}, nil
}

func (s *bookService) BatchRegister(ctx context.Context, creates []model.BookCreate) (*model.BookBatchProcessedResult, error) {
	now := time.Now()

	failed := make([]model.ProcessedBook, 0)
	var withID, withoutID []*model.Book
	var accepted []model.BookCreate

	for _, create := range creates {
		if err := validateBook(create.ID, create.PublisherID, create.UserID, create.Price); err != nil {
			failed = append(failed, processedFailed(create, err))
			continue
		}
		book := create.ToBook(now)
		if create.ID != nil {
			withID = append(withID, book)
		} else {
			withoutID = append(withoutID, book)
		}
		accepted = append(accepted, create)
	}

	if len(withID)+len(withoutID) > 0 {
		err := s.repo.InTx(ctx, func(tx repository.BookRepository) error {
			var affected int64
			if len(withID) > 0 {
				n, err := tx.BatchSaveWithID(ctx, withID)
				if err != nil {
					return err
				}
				affected += n
			}
			if len(withoutID) > 0 {
				n, err := tx.BatchSaveWithoutID(ctx, withoutID)
				if err != nil {
					return err
				}
				affected += n
			}
			if expected := int64(len(withID) + len(withoutID)); affected != expected {
				return fmt.Errorf("bulk insert affected %d rows, expected %d", affected, expected)
			}
			return nil
		})
		if err != nil {
			return nil, s.classifyBatchFault(err, accepted)
		}
	}

	successful := make([]model.ProcessedBook, 0, len(withID)+len(withoutID))
	for i := range withID {
		successful = append(successful, processedOK(withID[i]))
	}
	for i := range withoutID {
		successful = append(successful, processedOK(withoutID[i]))
	}

	return &model.BookBatchProcessedResult{
		HTTPStatus:      model.BatchStatus(len(successful), len(failed)),
		SuccessfulItems: successful,
		FailedItems:     failed,
	}, nil
}

func (s *bookService) Update(ctx context.Context, update model.BookUpdate) (*model.BookBasicInfo, error) {
	if err := validateBook(update.ID, update.PublisherID, update.UserID, update.Price); err != nil {
		return nil, err
	}

	book := update.ToBook(time.Now())
	affected, err := s.repo.Update(ctx, book)
	if err != nil {
		return nil, translateIntegrityFault(err, &update)
	}
	if affected <= 0 {
		return nil, apperror.ResourceMissing(update.FieldValue("id"))
	}

	return &model.BookBasicInfo{ID: book.ID, Title: book.Title}, nil
}

// classifyBatchFault maps a transaction failure onto the request that caused
// it where possible. Duplicate keys and foreign key violations point at a
// single submitted item in single-insert flows, but a bulk statement does not
// say which row tripped the constraint, so the envelope carries the field
// without a resolved value when the set is ambiguous.
func (s *bookService) classifyBatchFault(err error, accepted []model.BookCreate) error {
	var req apperror.FieldResolver
	if len(accepted) == 1 {
		req = &accepted[0]
	}
	if database.IsDuplicateKey(err) {
		var value any
		if req != nil {
			value = req.FieldValue("id")
		}
		return apperror.DuplicateKey(value)
	}
	return translateIntegrityFault(err, req)
}

// validateBook applies the imperative checks in request field order and stops
// at the first failure. Nil optional fields pass.
func validateBook(id, publisherID, userID *int64, price *int) error {
	if err := validate.PositiveID(id, "id"); err != nil {
		return err
	}
	if err := validate.PositiveID(publisherID, "publisherId"); err != nil {
		return err
	}
	if err := validate.PositiveID(userID, "userId"); err != nil {
		return err
	}
	return validate.NonNegativePrice(price, "price")
}

func processedOK(book *model.Book) model.ProcessedBook {
	id := book.ID
	return model.ProcessedBook{ID: &id, Title: book.Title}
}

func processedFailed(create model.BookCreate, err error) model.ProcessedBook {
	item := model.ProcessedBook{Title: create.Title}
	if create.ID != nil {
		id := *create.ID
		item.ID = &id
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		item.Error = appErr
	} else {
		item.Error = &apperror.AppError{Message: err.Error(), Status: 500}
	}
	return item
}
