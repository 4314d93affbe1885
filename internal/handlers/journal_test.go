package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daybookhq/daybook-backend/internal/apperr"
	"github.com/daybookhq/daybook-backend/internal/auth"
	"github.com/daybookhq/daybook-backend/internal/config"
	"github.com/daybookhq/daybook-backend/internal/models"
	"github.com/daybookhq/daybook-backend/internal/services"
)

type fakeJournals struct {
	entries  []models.JournalEntry
	total    int64
	lastOpts services.ListOptions
	getErr   error
}

func (f *fakeJournals) Create(_ context.Context, owner *models.User, in services.JournalInput) (*models.JournalEntry, error) {
	return &models.JournalEntry{ID: primitive.NewObjectID(), UserID: owner.ID, Title: in.Title}, nil
}

func (f *fakeJournals) Get(_ context.Context, _ *models.User, id primitive.ObjectID) (*models.JournalEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.JournalEntry{ID: id}, nil
}

func (f *fakeJournals) Update(_ context.Context, _ *models.User, id primitive.ObjectID, in services.JournalInput) (*models.JournalEntry, error) {
	return &models.JournalEntry{ID: id, Title: in.Title}, nil
}

func (f *fakeJournals) Delete(_ context.Context, _ *models.User, _ primitive.ObjectID) error {
	return nil
}

func (f *fakeJournals) ToggleFavorite(_ context.Context, _ *models.User, id primitive.ObjectID) (*models.JournalEntry, error) {
	return &models.JournalEntry{ID: id, IsFavorite: true}, nil
}

func (f *fakeJournals) List(_ context.Context, _ primitive.ObjectID, opts services.ListOptions) ([]models.JournalEntry, int64, error) {
	f.lastOpts = opts
	return f.entries, f.total, nil
}

func (f *fakeJournals) Search(_ context.Context, _ primitive.ObjectID, query string) ([]models.JournalEntry, error) {
	if query == "" {
		return nil, apperr.BadRequest("Search query is required")
	}
	return f.entries, nil
}

func (f *fakeJournals) MoodCounts(_ context.Context, _ primitive.ObjectID) (map[string]int64, error) {
	return map[string]int64{"happy": 2}, nil
}

func (f *fakeJournals) Analytics(_ context.Context, _ primitive.ObjectID) (*services.Analytics, error) {
	return &services.Analytics{TotalJournals: 2}, nil
}

func authedRequest(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	user := &models.User{ID: primitive.NewObjectID(), IsActive: true}
	return r.WithContext(auth.WithIdentity(r.Context(), user))
}

func TestListOptionsParsing(t *testing.T) {
	h := NewJournalHandler(&fakeJournals{}, config.DefaultRules())

	r := authedRequest(http.MethodGet,
		"/api/journals?page=3&limit=20&mood=Happy&tags=Work,%20life,&isFavorite=true&startDate=2026-01-01&endDate=2026-02-01T12:00:00Z&search=beach&sort=-updatedAt")

	opts := h.listOptions(r)

	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, 20, opts.Limit)
	assert.Equal(t, "happy", opts.Mood)
	assert.Equal(t, []string{"work", "life"}, opts.Tags)
	require.NotNil(t, opts.Favorite)
	assert.True(t, *opts.Favorite)
	require.NotNil(t, opts.CreatedAfter)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *opts.CreatedAfter)
	require.NotNil(t, opts.CreatedBefore)
	assert.Equal(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC), *opts.CreatedBefore)
	assert.Equal(t, "beach", opts.Search)
	assert.Equal(t, "-updatedAt", opts.Sort)
}

func TestListOptionsDefaultsAndClamp(t *testing.T) {
	h := NewJournalHandler(&fakeJournals{}, config.DefaultRules())

	t.Run("defaults", func(t *testing.T) {
		opts := h.listOptions(authedRequest(http.MethodGet, "/api/journals"))
		assert.Equal(t, 1, opts.Page)
		assert.Equal(t, 10, opts.Limit)
		assert.Nil(t, opts.Favorite)
		assert.Empty(t, opts.Tags)
	})

	t.Run("limit clamped to max", func(t *testing.T) {
		opts := h.listOptions(authedRequest(http.MethodGet, "/api/journals?limit=500"))
		assert.Equal(t, 100, opts.Limit)
	})

	t.Run("garbage values ignored", func(t *testing.T) {
		opts := h.listOptions(authedRequest(http.MethodGet, "/api/journals?page=x&limit=-5&isFavorite=maybe&startDate=nope"))
		assert.Equal(t, 1, opts.Page)
		assert.Equal(t, 10, opts.Limit)
		assert.Nil(t, opts.Favorite)
		assert.Nil(t, opts.CreatedAfter)
	})
}

func TestListPaginationMetadata(t *testing.T) {
	fake := &fakeJournals{entries: []models.JournalEntry{}, total: 25}
	h := NewJournalHandler(fake, config.DefaultRules())

	r := authedRequest(http.MethodGet, "/api/journals?page=2&limit=10")
	w := httptest.NewRecorder()

	h.List(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Journals   []models.JournalEntry `json:"journals"`
			Pagination struct {
				Total       int64 `json:"total"`
				TotalPages  int64 `json:"totalPages"`
				CurrentPage int   `json:"currentPage"`
				Limit       int   `json:"limit"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, int64(25), resp.Data.Pagination.Total)
	assert.Equal(t, int64(3), resp.Data.Pagination.TotalPages)
	assert.Equal(t, 2, resp.Data.Pagination.CurrentPage)
	assert.Equal(t, 10, resp.Data.Pagination.Limit)
	assert.NotNil(t, resp.Data.Journals)
}

func TestSearchRequiresQuery(t *testing.T) {
	h := NewJournalHandler(&fakeJournals{}, config.DefaultRules())

	r := authedRequest(http.MethodGet, "/api/journals/search")
	w := httptest.NewRecorder()

	h.Search(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Search query is required"}`, w.Body.String())
}

func TestGetMapsOwnershipErrors(t *testing.T) {
	tests := []struct {
		name       string
		getErr     error
		wantStatus int
	}{
		{"missing entry", apperr.NotFound("Journal entry not found"), http.StatusNotFound},
		{"foreign entry", apperr.Forbidden("You do not have access to this journal"), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := chi.NewRouter()
			h := NewJournalHandler(&fakeJournals{getErr: tt.getErr}, config.DefaultRules())
			router.Get("/api/journals/{id}", h.Get)

			r := authedRequest(http.MethodGet, "/api/journals/"+primitive.NewObjectID().Hex())
			w := httptest.NewRecorder()

			router.ServeHTTP(w, r)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGetRejectsMalformedID(t *testing.T) {
	router := chi.NewRouter()
	h := NewJournalHandler(&fakeJournals{}, config.DefaultRules())
	router.Get("/api/journals/{id}", h.Get)

	r := authedRequest(http.MethodGet, "/api/journals/not-an-id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid ID format"}`, w.Body.String())
}

func TestToggleFavoriteMessage(t *testing.T) {
	router := chi.NewRouter()
	h := NewJournalHandler(&fakeJournals{}, config.DefaultRules())
	router.Patch("/api/journals/{id}/favorite", h.ToggleFavorite)

	r := authedRequest(http.MethodPatch, "/api/journals/"+primitive.NewObjectID().Hex()+"/favorite")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Journal entry added to favorites", resp.Message)
}
