package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieflix/internal/config"
	"movieflix/internal/handler"
	"movieflix/internal/middleware"
	"movieflix/internal/models"
	"movieflix/internal/repository"
	"movieflix/internal/service"
)

// userStore is an in-memory stand-in for the Postgres-backed repository.
type userStore struct {
	seq   int
	users map[int]*models.User
}

func newUserStore() *userStore {
	return &userStore{users: make(map[int]*models.User)}
}

func (s *userStore) Create(username, email, passwordHash string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return nil, repository.ErrDuplicate
		}
	}
	s.seq++
	user := &models.User{
		ID:           s.seq,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Watchlist:    []int{},
		Favorites:    []int{},
		WatchlistTV:  []int{},
		FavoritesTV:  []int{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *userStore) GetByID(id int) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (s *userStore) GetByEmail(email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *userStore) UpdateList(userID int, kind models.ContentKind, list models.ListName, ids []int) error {
	user, ok := s.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	switch {
	case kind == models.KindMovie && list == models.ListWatchlist:
		user.Watchlist = ids
	case kind == models.KindMovie && list == models.ListFavorites:
		user.Favorites = ids
	case kind == models.KindTV && list == models.ListWatchlist:
		user.WatchlistTV = ids
	default:
		user.FavoritesTV = ids
	}
	return nil
}

func (s *userStore) UpdatePreferences(userID int, prefs models.Preferences) error {
	user, ok := s.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	user.Preferences = prefs
	return nil
}

// reviewStore satisfies service.ReviewStore; the profile flow only counts.
type reviewStore struct{}

func (reviewStore) Upsert(userID, contentID, rating int, comment string) (*models.Review, error) {
	return &models.Review{UserID: userID, ContentID: contentID, Rating: rating, Comment: comment}, nil
}
func (reviewStore) Delete(userID, contentID int) error { return nil }
func (reviewStore) ListByContent(contentID, page, limit int) ([]models.ReviewWithUser, int, error) {
	return nil, 0, nil
}
func (reviewStore) RecentByUser(userID, limit int) ([]models.Review, error) { return nil, nil }
func (reviewStore) CountByUser(userID int) (int, error)                     { return 0, nil }

type staticResolver struct{}

func (staticResolver) ResolveSummary(ctx context.Context, kind models.ContentKind, id int) (*models.ResolvedSummary, error) {
	return &models.ResolvedSummary{
		ID:         id,
		Title:      fmt.Sprintf("%s %d", kind, id),
		PosterPath: fmt.Sprintf("/poster-%d.jpg", id),
	}, nil
}

var testJWT = config.JWTConfig{
	Secret:     "0123456789abcdef0123456789abcdef",
	ExpiryDays: 30,
}

func newAPI() *fiber.App {
	users := newUserStore()
	authSvc := service.NewAuthService(users, testJWT)
	userSvc := service.NewUserService(users, reviewStore{}, staticResolver{})

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	requireAuth := middleware.Auth(testJWT.Secret, users)

	app := fiber.New()
	api := app.Group("/api")
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	grp := api.Group("/users", requireAuth)
	grp.Get("/profile", userHandler.Profile)
	grp.Post("/favorites/:id", userHandler.AddToList(models.KindMovie, models.ListFavorites))
	grp.Delete("/favorites/:id", userHandler.RemoveFromList(models.KindMovie, models.ListFavorites))
	grp.Post("/watchlist/:id", userHandler.AddToList(models.KindMovie, models.ListWatchlist))
	grp.Put("/preferences", userHandler.UpdatePreferences)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	decoded := map[string]json.RawMessage{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func registerAndLogin(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token string
	require.NoError(t, json.Unmarshal(body["token"], &token))
	require.NotEmpty(t, token)
	return token
}

func profileFavorites(t *testing.T, app *fiber.App, token string) []models.ResolvedSummary {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user struct {
		Favorites []models.ResolvedSummary `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(body["user"], &user))
	return user.Favorites
}

func TestFavoritesRoundTrip(t *testing.T) {
	app := newAPI()
	token := registerAndLogin(t, app)

	resp, body := doJSON(t, app, http.MethodPost, "/api/users/favorites/550", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ids []int
	require.NoError(t, json.Unmarshal(body["favorites"], &ids))
	assert.Equal(t, []int{550}, ids)

	favorites := profileFavorites(t, app, token)
	require.Len(t, favorites, 1)
	assert.Equal(t, 550, favorites[0].ID)
	assert.NotEmpty(t, favorites[0].Title)

	resp, body = doJSON(t, app, http.MethodDelete, "/api/users/favorites/550", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body["favorites"], &ids))
	assert.Empty(t, ids)

	assert.Empty(t, profileFavorites(t, app, token))
}

func TestProfileRequiresAuth(t *testing.T) {
	app := newAPI()

	resp, _ := doJSON(t, app, http.MethodGet, "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	app := newAPI()
	registerAndLogin(t, app)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMutateListBadID(t *testing.T) {
	app := newAPI()
	token := registerAndLogin(t, app)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/users/watchlist/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdatePreferencesEndpoint(t *testing.T) {
	app := newAPI()
	token := registerAndLogin(t, app)

	resp, body := doJSON(t, app, http.MethodPut, "/api/users/preferences", token, models.PreferencesRequest{
		FavoriteGenres: []int{28},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var prefs models.Preferences
	require.NoError(t, json.Unmarshal(body["preferences"], &prefs))
	assert.Equal(t, []int{28}, prefs.FavoriteGenres)
}
