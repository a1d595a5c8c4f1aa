package api

import (
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movievaultapp/movievault-server/internal/auth"
	"github.com/movievaultapp/movievault-server/internal/media/images"
	"github.com/movievaultapp/movievault-server/internal/search"
	"github.com/movievaultapp/movievault-server/internal/service"
	"github.com/movievaultapp/movievault-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       string `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api          humatest.TestAPI
	tokenService *auth.TokenService
}

// setupTestServer builds a fully wired server backed by temp storage.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	log := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	posterStorage, err := images.NewStorage(tmpDir)
	require.NoError(t, err)
	posterProcessor := images.NewProcessor(posterStorage, log)

	index, err := search.NewSearchIndex(search.Options{DataPath: tmpDir, Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	sessionService := service.NewSessionService(st, tokenService, log)
	authService := service.NewAuthService(st, tokenService, sessionService, log)
	userService := service.NewUserService(st, log)
	tagService := service.NewTagService(st, log)
	movieService := service.NewMovieService(st, posterProcessor, posterStorage, index, log)
	searchService := service.NewSearchService(index, st, log)

	services := &Services{
		Auth:    authService,
		Session: sessionService,
		User:    userService,
		Tag:     tagService,
		Movie:   movieService,
		Search:  searchService,
	}
	storage := &StorageServices{Posters: posterStorage}

	server := NewServer(st, services, storage, log)

	return &testServer{
		Server:       server,
		api:          humatest.Wrap(t, server.api),
		tokenService: tokenService,
	}
}

// createTestUser registers a user, logs in, and returns the access token and user ID.
func (ts *testServer) createTestUser(t *testing.T, email string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":    email,
		"password": "TestPassword123!",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "Signup failed: %s", resp.Body.String())

	resp = ts.api.Post("/api/v1/users/token", map[string]any{
		"email":    email,
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Login failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	require.NotEmpty(t, envelope.Data.Token)

	return envelope.Data.Token, envelope.Data.User.ID
}

// createTestTag creates a tag and returns its ID.
func (ts *testServer) createTestTag(t *testing.T, token, name string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/tags",
		map[string]any{"name": name},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusCreated, resp.Code, "Create tag failed: %s", resp.Body.String())

	var envelope testEnvelope[TagResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	return envelope.Data.ID
}

// createTestMovie creates a movie and returns its ID.
func (ts *testServer) createTestMovie(t *testing.T, token, title string, tagIDs ...string) string {
	t.Helper()

	body := map[string]any{
		"title":        title,
		"time_minutes": 120,
		"ticket_price": 9.50,
	}
	if len(tagIDs) > 0 {
		body["tags"] = tagIDs
	}

	resp := ts.api.Post("/api/v1/movies", body, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusCreated, resp.Code, "Create movie failed: %s", resp.Body.String())

	var envelope testEnvelope[MovieResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	return envelope.Data.ID
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
	assert.Equal(t, "healthy", envelope.Data.Components["search"].Status)
}

func TestUnknownRouteReturns404(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/nonexistent")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
