package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jbook-backend/internal/domains/book/model"
	"jbook-backend/internal/shared/apperror"
	"jbook-backend/internal/shared/middleware"
	"jbook-backend/internal/shared/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeService swaps in per-test behavior behind the service interface.
type fakeService struct {
	getByID       func(ctx context.Context, id int64) (*model.BookView, error)
	register      func(ctx context.Context, create model.BookCreate) (*model.BookBasicInfo, error)
	batchRegister func(ctx context.Context, creates []model.BookCreate) (*model.BookBatchProcessedResult, error)
	update        func(ctx context.Context, update model.BookUpdate) (*model.BookBasicInfo, error)
}

func (f *fakeService) GetByID(ctx context.Context, id int64) (*model.BookView, error) {
	return f.getByID(ctx, id)
}

func (f *fakeService) Register(ctx context.Context, create model.BookCreate) (*model.BookBasicInfo, error) {
	return f.register(ctx, create)
}

func (f *fakeService) BatchRegister(ctx context.Context, creates []model.BookCreate) (*model.BookBatchProcessedResult, error) {
	return f.batchRegister(ctx, creates)
}

func (f *fakeService) Update(ctx context.Context, update model.BookUpdate) (*model.BookBasicInfo, error) {
	return f.update(ctx, update)
}

// memoryCache is a map-backed Cache for exercising the cache-aside path.
type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryCache) Ping(ctx context.Context) error { return nil }

// newTestRouter assembles the handler behind the same middleware chain the
// server uses, so envelope rendering is exercised end to end.
func newTestRouter(svc *fakeService, cache *memoryCache) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.ErrorHandler(),
	)
	router.NoRoute(func(c *gin.Context) {
		response.RouteNotFound(c)
	})

	var h *BookHandler
	if cache != nil {
		h = NewBookHandler(svc, cache)
	} else {
		h = NewBookHandler(svc, nil)
	}

	books := router.Group("/books")
	{
		books.GET("/:id", h.GetByID)
		books.POST("", h.Register)
		books.POST("/batch", h.BatchRegister)
		books.PUT("", h.Update)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func doRaw(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

// ----------------------------------------------------------------------------
// GET /books/:id
// ----------------------------------------------------------------------------

func TestGetByIDNonNumericParam(t *testing.T) {
	router := newTestRouter(&fakeService{}, nil)

	rec := doJSON(t, router, http.MethodGet, "/books/abc", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperror.MessageTypeMismatch, body["message"])
	assert.Equal(t, "abc", body["id"])
}

func TestGetByIDAbsentReturnsNoContent(t *testing.T) {
	router := newTestRouter(&fakeService{
		getByID: func(ctx context.Context, id int64) (*model.BookView, error) {
			return nil, nil
		},
	}, nil)

	rec := doJSON(t, router, http.MethodGet, "/books/42", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestGetByIDFound(t *testing.T) {
	name := "O'Reilly"
	router := newTestRouter(&fakeService{
		getByID: func(ctx context.Context, id int64) (*model.BookView, error) {
			return &model.BookView{
				ID:            id,
				Title:         "Effective Go",
				TitleKana:     "エフェクティブゴー",
				PublisherID:   int64Ptr(2),
				PublisherName: &name,
				Price:         intPtr(2800),
			}, nil
		},
	}, nil)

	rec := doJSON(t, router, http.MethodGet, "/books/7", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(7), body["id"])
	assert.Equal(t, "Effective Go", body["title"])
	assert.Equal(t, "エフェクティブゴー", body["titleKana"])
	assert.Equal(t, "O'Reilly", body["publisherName"])
	assert.Nil(t, body["userName"])
}

func TestGetByIDInvalidID(t *testing.T) {
	router := newTestRouter(&fakeService{
		getByID: func(ctx context.Context, id int64) (*model.BookView, error) {
			return nil, apperror.InvalidValue("id", id)
		},
	}, nil)

	rec := doJSON(t, router, http.MethodGet, "/books/0", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperror.MessageInvalidValue, body["message"])
	assert.Equal(t, float64(0), body["id"])
}

func TestGetByIDServesFromCache(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	router := newTestRouter(&fakeService{
		getByID: func(ctx context.Context, id int64) (*model.BookView, error) {
			calls++
			return &model.BookView{ID: id, Title: "Effective Go"}, nil
		},
	}, cache)

	first := doJSON(t, router, http.MethodGet, "/books/7", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, router, http.MethodGet, "/books/7", nil)
	assert.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestGetByIDDoesNotCacheMisses(t *testing.T) {
	cache := newMemoryCache()
	router := newTestRouter(&fakeService{
		getByID: func(ctx context.Context, id int64) (*model.BookView, error) {
			return nil, nil
		},
	}, cache)

	rec := doJSON(t, router, http.MethodGet, "/books/42", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, cache.data)
}

// ----------------------------------------------------------------------------
// POST /books
// ----------------------------------------------------------------------------

func TestRegisterSuccess(t *testing.T) {
	router := newTestRouter(&fakeService{
		register: func(ctx context.Context, create model.BookCreate) (*model.BookBasicInfo, error) {
			return &model.BookBasicInfo{ID: 101, Title: create.Title}, nil
		},
	}, nil)

	rec := doJSON(t, router, http.MethodPost, "/books", gin.H{
		"title":       "Effective Go",
		"publisherId": 2,
		"price":       2800,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(101), body["id"])
	assert.Equal(t, "Effective Go", body["title"])
}

func TestRegisterMalformedBody(t *testing.T) {
	router := newTestRouter(&fakeService{}, nil)

	rec := doRaw(t, router, http.MethodPost, "/books", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperror.MessageMalformedBody, body["message"])
}

func TestRegisterTypeMismatchInBody(t *testing.T) {
	router := newTestRouter(&fakeService{}, nil)

	rec := doRaw(t, router, http.MethodPost, "/books", `{"title":"x","price":"free"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperror.MessageTypeMismatch, body["message"])
	assert.Contains(t, body, "price")
}

func TestRegisterMultiFieldValidation(t *testing.T) {
	router := newTestRouter(&fakeService{}, nil)

	rec := doJSON(t, router, http.MethodPost, "/books", gin.H{
		"title":       "x",
		"publisherId": -1,
		"userId":      -2,
		"price":       -100,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var bodies []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bodies))
	require.Len(t, bodies, 3)

	// Sorted by field name: price, publisherId, userId.
	assert.Equal(t, float64(-100), bodies[0]["price"])
	assert.Equal(t, float64(-1), bodies[1]["publisherId"])
	assert.Equal(t, float64(-2), bodies[2]["userId"])
	for _, b := range bodies {
		assert.Equal(t, apperror.MessageInvalidValue, b["message"])
	}
}

func TestRegisterDuplicateKeyEnvelope(t *testing.T) {
	router := newTestRouter(&fakeService{
		register: func(ctx context.Context, create model.BookCreate) (*model.BookBasicInfo, error) {
			return nil, apperror.DuplicateKey(int64(7))
		},
	}, nil)

	rec := doJSON(t, router, http.MethodPost, "/books", gin.H{"id": 7, "title": "x"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperror.MessageDuplicateKey, body["message"])
	assert.Equal(t, float64(7), body["id"])
}

func TestRegisterForeignKeyEnvelope(t *testing.T) {
	router := newTestRouter(&fakeService{
		register: func(ctx context.Context, create model.BookCreate) (*model.BookBasicInfo, error) {
			return nil, apperror.ForeignKeyMissing("publisherId", int64(999))
		},
	}, nil)

	rec := doJSON(t, router, http.MethodPost, "/books", gin.H{"title": "x", "publisherId": 999})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperror.MessageNonexistentFK, body["message"])
	assert.Equal(t, float64(999), body["publisherId"])
}

func TestRegisterUnexpectedFault(t *testing.T) {
	router := newTestRouter(&fakeService{
		register: func(ctx context.Context, create model.BookCreate) (*model.BookBasicInfo, error) {
			return nil, context.DeadlineExceeded
		},
	}, nil)

	rec := doJSON(t, router, http.MethodPost, "/books", gin.H{"title": "x"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperror.MessageUnexpectedPrefix+"context deadline exceeded", body["error"])
}

// ----------------------------------------------------------------------------
// POST /books/batch
// ----------------------------------------------------------------------------

func TestBatchRegisterEnvelope(t *testing.T) {
	router := newTestRouter(&fakeService{
		batchRegister: func(ctx context.Context, creates []model.BookCreate) (*model.BookBatchProcessedResult, error) {
			id := int64(10)
			return &model.BookBatchProcessedResult{
				HTTPStatus: http.StatusMultiStatus,
				SuccessfulItems: []model.ProcessedBook{
					{ID: &id, Title: "good"},
				},
				FailedItems: []model.ProcessedBook{
					{Title: "bad", Error: apperror.InvalidValue("price", -1)},
				},
			}, nil
		},
	}, nil)

	rec := doJSON(t, router, http.MethodPost, "/books/batch", []gin.H{
		{"title": "good"},
		{"title": "bad", "price": -1},
	})

	assert.Equal(t, http.StatusMultiStatus, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(http.StatusMultiStatus), body["httpStatus"])

	successful := body["successfulItems"].([]any)
	require.Len(t, successful, 1)
	assert.Nil(t, successful[0].(map[string]any)["error"])

	failed := body["failedItems"].([]any)
	require.Len(t, failed, 1)
	itemErr := failed[0].(map[string]any)["error"].(map[string]any)
	assert.Equal(t, apperror.MessageInvalidValue, itemErr["message"])
	assert.Equal(t, float64(-1), itemErr["value"])
	assert.Equal(t, "price", itemErr["field"])
}

func TestBatchRegisterRejectsObjectBody(t *testing.T) {
	router := newTestRouter(&fakeService{}, nil)

	rec := doRaw(t, router, http.MethodPost, "/books/batch", `{"title":"not a list"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperror.MessageMalformedBody, body["message"])
}

// ----------------------------------------------------------------------------
// PUT /books
// ----------------------------------------------------------------------------

func TestUpdateSuccessInvalidatesCache(t *testing.T) {
	cache := newMemoryCache()
	require.NoError(t, cache.Set(context.Background(), bookViewCacheKey(7), model.BookView{ID: 7}, time.Minute))

	router := newTestRouter(&fakeService{
		update: func(ctx context.Context, update model.BookUpdate) (*model.BookBasicInfo, error) {
			return &model.BookBasicInfo{ID: 7, Title: update.Title}, nil
		},
	}, cache)

	rec := doJSON(t, router, http.MethodPut, "/books", gin.H{"id": 7, "title": "renamed"})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "renamed", body["title"])
	assert.Empty(t, cache.data)
}

func TestUpdateMissingBookEnvelope(t *testing.T) {
	router := newTestRouter(&fakeService{
		update: func(ctx context.Context, update model.BookUpdate) (*model.BookBasicInfo, error) {
			return nil, apperror.ResourceMissing(int64(42))
		},
	}, nil)

	rec := doJSON(t, router, http.MethodPut, "/books", gin.H{"id": 42, "title": "x"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperror.MessageNonexistentBook, body["message"])
	assert.Equal(t, float64(42), body["id"])
}

// ----------------------------------------------------------------------------
// cross-cutting middleware behavior
// ----------------------------------------------------------------------------

func TestUnknownRouteEnvelope(t *testing.T) {
	router := newTestRouter(&fakeService{}, nil)

	rec := doJSON(t, router, http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperror.MessageRouteNotFound, body["message"])
	assert.Equal(t, "/nope", body["GET"])
}

func TestPanicRendersUnexpectedEnvelope(t *testing.T) {
	router := newTestRouter(&fakeService{
		getByID: func(ctx context.Context, id int64) (*model.BookView, error) {
			panic("boom")
		},
	}, nil)

	rec := doJSON(t, router, http.MethodGet, "/books/1", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperror.MessageUnexpectedPrefix+"boom", body["error"])
}

func TestResponsesCarryRequestID(t *testing.T) {
	router := newTestRouter(&fakeService{
		getByID: func(ctx context.Context, id int64) (*model.BookView, error) {
			return nil, nil
		},
	}, nil)

	rec := doJSON(t, router, http.MethodGet, "/books/1", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/books/1", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	echo := httptest.NewRecorder()
	router.ServeHTTP(echo, req)
	assert.Equal(t, "trace-123", echo.Header().Get("X-Request-ID"))
}
