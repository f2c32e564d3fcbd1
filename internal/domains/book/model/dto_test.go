package model

import (
	"errors"
	"net/http"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestBookCreateToBookStampsBothTimestamps(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	create := BookCreate{
		ID:          int64Ptr(5),
		Title:       "Effective Go",
		TitleKana:   "エフェクティブゴー",
		PublisherID: int64Ptr(2),
		Price:       intPtr(2800),
	}

	book := create.ToBook(now)

	assert.Equal(t, int64(5), book.ID)
	assert.Equal(t, now, book.CreatedAt)
	assert.Equal(t, now, book.UpdatedAt)
	assert.False(t, book.IsDeleted)
	assert.Nil(t, book.UserID)
}

func TestBookCreateToBookWithoutID(t *testing.T) {
	book := BookCreate{Title: "x"}.ToBook(time.Now())
	assert.Equal(t, int64(0), book.ID)
}

func TestBookUpdateToBookStampsOnlyUpdatedAt(t *testing.T) {
	now := time.Now()
	book := BookUpdate{ID: int64Ptr(7), Title: "x"}.ToBook(now)

	assert.Equal(t, int64(7), book.ID)
	assert.Equal(t, now, book.UpdatedAt)
	assert.True(t, book.CreatedAt.IsZero())
}

func TestFieldValueResolution(t *testing.T) {
	create := BookCreate{
		ID:          int64Ptr(5),
		Title:       "Effective Go",
		TitleKana:   "エフェクティブゴー",
		Author:      "The Team",
		PublisherID: int64Ptr(2),
		Price:       intPtr(2800),
	}

	assert.Equal(t, int64(5), create.FieldValue("id"))
	assert.Equal(t, "Effective Go", create.FieldValue("title"))
	assert.Equal(t, "エフェクティブゴー", create.FieldValue("titleKana"))
	assert.Equal(t, "The Team", create.FieldValue("author"))
	assert.Equal(t, int64(2), create.FieldValue("publisherId"))
	assert.Equal(t, 2800, create.FieldValue("price"))

	// Not submitted resolves to nil, not zero.
	assert.Nil(t, create.FieldValue("userId"))

	// Unknown names must never fail.
	assert.Nil(t, create.FieldValue("no_such_field"))
}

func TestValidateReportsFieldsByWireName(t *testing.T) {
	create := BookCreate{
		PublisherID: int64Ptr(-1),
		Price:       intPtr(-100),
	}

	err := create.Validate()
	require.Error(t, err)

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "publisherId")
	assert.Contains(t, errs, "price")
	assert.NotContains(t, errs, "userId")
}

func TestBatchStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, BatchStatus(3, 0))
	assert.Equal(t, http.StatusOK, BatchStatus(0, 0))
	assert.Equal(t, http.StatusBadRequest, BatchStatus(0, 2))
	assert.Equal(t, http.StatusMultiStatus, BatchStatus(1, 1))
}
