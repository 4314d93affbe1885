package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/daybookhq/daybook-backend/internal/apperr"
	"github.com/daybookhq/daybook-backend/internal/auth"
	"github.com/daybookhq/daybook-backend/internal/config"
	"github.com/daybookhq/daybook-backend/internal/handlers"
	"github.com/daybookhq/daybook-backend/internal/middleware"
	"github.com/daybookhq/daybook-backend/internal/models"
	"github.com/daybookhq/daybook-backend/internal/services"
)

type stubUsers struct{ byID map[string]*models.User }

func (s *stubUsers) Register(context.Context, services.RegisterInput) (*models.User, error) {
	return nil, apperr.Internal(nil)
}

func (s *stubUsers) Authenticate(context.Context, string, string) (*models.User, error) {
	return nil, apperr.Unauthenticated("Invalid credentials")
}

func (s *stubUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := s.byID[id.Hex()]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (s *stubUsers) UpdateProfile(context.Context, primitive.ObjectID, services.ProfileInput) (*models.User, error) {
	return nil, apperr.Internal(nil)
}

func (s *stubUsers) UpdatePreferences(context.Context, primitive.ObjectID, services.PreferencesInput) (*models.User, error) {
	return nil, apperr.Internal(nil)
}

func (s *stubUsers) ChangePassword(context.Context, primitive.ObjectID, string, string) error {
	return nil
}

type stubJournals struct{}

func (stubJournals) Create(context.Context, *models.User, services.JournalInput) (*models.JournalEntry, error) {
	return &models.JournalEntry{}, nil
}

func (stubJournals) Get(context.Context, *models.User, primitive.ObjectID) (*models.JournalEntry, error) {
	return &models.JournalEntry{}, nil
}

func (stubJournals) Update(context.Context, *models.User, primitive.ObjectID, services.JournalInput) (*models.JournalEntry, error) {
	return &models.JournalEntry{}, nil
}

func (stubJournals) Delete(context.Context, *models.User, primitive.ObjectID) error { return nil }

func (stubJournals) ToggleFavorite(context.Context, *models.User, primitive.ObjectID) (*models.JournalEntry, error) {
	return &models.JournalEntry{}, nil
}

func (stubJournals) List(context.Context, primitive.ObjectID, services.ListOptions) ([]models.JournalEntry, int64, error) {
	return []models.JournalEntry{}, 0, nil
}

func (stubJournals) Search(context.Context, primitive.ObjectID, string) ([]models.JournalEntry, error) {
	return []models.JournalEntry{}, nil
}

func (stubJournals) MoodCounts(context.Context, primitive.ObjectID) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (stubJournals) Analytics(context.Context, primitive.ObjectID) (*services.Analytics, error) {
	return &services.Analytics{}, nil
}

type stubCategories struct{}

func (stubCategories) Create(context.Context, *models.User, services.CategoryInput) (*models.Category, error) {
	return &models.Category{}, nil
}

func (stubCategories) Get(context.Context, *models.User, primitive.ObjectID) (*models.Category, error) {
	return &models.Category{}, nil
}

func (stubCategories) Update(context.Context, *models.User, primitive.ObjectID, services.CategoryInput) (*models.Category, error) {
	return &models.Category{}, nil
}

func (stubCategories) Delete(context.Context, *models.User, primitive.ObjectID) error { return nil }

func (stubCategories) List(context.Context, primitive.ObjectID) ([]models.Category, error) {
	return []models.Category{}, nil
}

type stubPrompts struct{}

func (stubPrompts) ListActive(context.Context) ([]models.Prompt, error) {
	return []models.Prompt{{Prompt: "What made you smile today?"}}, nil
}

func (stubPrompts) Random(context.Context, string) (*models.Prompt, error) {
	return &models.Prompt{Prompt: "What made you smile today?"}, nil
}

func (stubPrompts) ByCategory(context.Context, string) ([]models.Prompt, error) {
	return []models.Prompt{}, nil
}

func (stubPrompts) Create(context.Context, services.PromptInput) (*models.Prompt, error) {
	return &models.Prompt{}, nil
}

func (stubPrompts) Update(context.Context, primitive.ObjectID, services.PromptInput) (*models.Prompt, error) {
	return &models.Prompt{}, nil
}

func (stubPrompts) Delete(context.Context, primitive.ObjectID) error { return nil }

// routerFixture is a fully wired router with one regular and one admin
// account known to the auth guard.
type routerFixture struct {
	router *chi.Mux
	tokens *auth.TokenManager
	user   *models.User
	admin  *models.User
}

func (f *routerFixture) bearer(t *testing.T, u *models.User) string {
	t.Helper()
	tokenStr, err := f.tokens.Issue(u)
	require.NoError(t, err)
	return "Bearer " + tokenStr
}

func testRouter(t *testing.T) *routerFixture {
	t.Helper()

	rules := config.DefaultRules()
	tokens := auth.NewTokenManager("test-secret", rules.TokenTTL)

	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser, IsActive: true}
	admin := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin, IsActive: true}
	users := &stubUsers{byID: map[string]*models.User{
		user.ID.Hex():  user,
		admin.ID.Hex(): admin,
	}}

	r := chi.NewRouter()
	Setup(r, Deps{
		Auth:        handlers.NewAuthHandler(users, tokens, rules, false),
		Journals:    handlers.NewJournalHandler(stubJournals{}, rules),
		Categories:  handlers.NewCategoryHandler(stubCategories{}),
		Prompts:     handlers.NewPromptHandler(stubPrompts{}),
		RequireAuth: middleware.RequireAuth(tokens, users),
	})

	return &routerFixture{router: r, tokens: tokens, user: user, admin: admin}
}

func TestPromptReadsArePublic(t *testing.T) {
	f := testRouter(t)

	for _, target := range []string{
		"/api/prompts/",
		"/api/prompts/random",
		"/api/prompts/category/gratitude",
	} {
		r := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()

		f.router.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code, "GET %s without credentials", target)
	}
}

func TestPromptWritesRequireAdmin(t *testing.T) {
	f := testRouter(t)

	t.Run("unauthenticated write is rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/prompts/", nil)
		w := httptest.NewRecorder()

		f.router.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("regular user write is rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/prompts/", nil)
		r.Header.Set("Authorization", f.bearer(t, f.user))
		w := httptest.NewRecorder()

		f.router.ServeHTTP(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin write passes the guards", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/prompts/",
			strings.NewReader(`{"prompt":"What made you smile today?","category":"gratitude"}`))
		r.Header.Set("Authorization", f.bearer(t, f.admin))
		w := httptest.NewRecorder()

		f.router.ServeHTTP(w, r)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestJournalRoutesStayGuarded(t *testing.T) {
	f := testRouter(t)

	for _, target := range []string{
		"/api/journals/",
		"/api/journals/search",
		"/api/categories/",
		"/api/auth/me",
	} {
		r := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()

		f.router.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "GET %s without credentials", target)
	}
}
