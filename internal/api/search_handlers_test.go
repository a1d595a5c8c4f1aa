package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMovies_ByTitle(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t, "search-title@example.com")

	ts.createTestMovie(t, token, "The Maltese Falcon")
	ts.createTestMovie(t, token, "Falcon Lake")
	ts.createTestMovie(t, token, "Unrelated Picture")

	resp := ts.api.Get("/api/v1/movies/search?q=falcon", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[SearchResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, "falcon", envelope.Data.Query)
	assert.Equal(t, int64(2), envelope.Data.Total)
	for _, hit := range envelope.Data.Hits {
		assert.Contains(t, hit.Title, "Falcon")
	}
}

func TestSearchMovies_ScopedToOwner(t *testing.T) {
	ts := setupTestServer(t)
	tokenA, _ := ts.createTestUser(t, "search-a@example.com")
	tokenB, _ := ts.createTestUser(t, "search-b@example.com")

	ts.createTestMovie(t, tokenA, "Hidden Gem")

	resp := ts.api.Get("/api/v1/movies/search?q=hidden", "Authorization: Bearer "+tokenB)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[SearchResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, int64(0), envelope.Data.Total)
}

func TestSearchMovies_TagFilter(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t, "search-tags@example.com")

	noirTag := ts.createTestTag(t, token, "noir")
	ts.createTestMovie(t, token, "Dark Alley", noirTag)
	ts.createTestMovie(t, token, "Bright Meadow")

	resp := ts.api.Get("/api/v1/movies/search?tags=noir", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[SearchResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Equal(t, int64(1), envelope.Data.Total)
	assert.Equal(t, "Dark Alley", envelope.Data.Hits[0].Title)
}

func TestSearchMovies_RunningTimeFilter(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t, "search-time@example.com")

	// createTestMovie uses 120 minutes; add a shorter one directly.
	ts.createTestMovie(t, token, "Feature Length")

	resp := ts.api.Post("/api/v1/movies", map[string]any{
		"title":        "Short Film",
		"time_minutes": 20,
		"ticket_price": 3.0,
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Get("/api/v1/movies/search?max_minutes=60", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[SearchResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Equal(t, int64(1), envelope.Data.Total)
	assert.Equal(t, "Short Film", envelope.Data.Hits[0].Title)
}

func TestSearchMovies_Facets(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t, "search-facets@example.com")

	noirTag := ts.createTestTag(t, token, "noir")
	heistTag := ts.createTestTag(t, token, "heist")
	ts.createTestMovie(t, token, "Double Cross", noirTag, heistTag)
	ts.createTestMovie(t, token, "Single Cross", noirTag)

	resp := ts.api.Get("/api/v1/movies/search?facets=true", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[SearchResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.NotNil(t, envelope.Data.Facets)
	counts := make(map[string]int)
	for _, f := range envelope.Data.Facets.Tags {
		counts[f.Value] = f.Count
	}
	assert.Equal(t, 2, counts["noir"])
	assert.Equal(t, 1, counts["heist"])
}

func TestSearchMovies_TitleSort(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t, "search-sort@example.com")

	ts.createTestMovie(t, token, "Zebra Crossing")
	ts.createTestMovie(t, token, "Antelope Run")

	resp := ts.api.Get("/api/v1/movies/search?sort=title&order=asc", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[SearchResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Equal(t, int64(2), envelope.Data.Total)
	assert.Equal(t, "Antelope Run", envelope.Data.Hits[0].Title)
	assert.Equal(t, "Zebra Crossing", envelope.Data.Hits[1].Title)
}

func TestSearchMovies_Pagination(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t, "search-page@example.com")

	for _, title := range []string{"Alpha", "Bravo", "Charlie"} {
		ts.createTestMovie(t, token, title)
	}

	resp := ts.api.Get("/api/v1/movies/search?limit=2&sort=title&order=asc",
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var page1 testEnvelope[SearchResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page1))
	assert.Equal(t, int64(3), page1.Data.Total)
	require.Len(t, page1.Data.Hits, 2)

	resp = ts.api.Get("/api/v1/movies/search?limit=2&offset=2&sort=title&order=asc",
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var page2 testEnvelope[SearchResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page2))
	require.Len(t, page2.Data.Hits, 1)
	assert.Equal(t, "Charlie", page2.Data.Hits[0].Title)
}

func TestSearchMovies_DeletedMovieDropsOut(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t, "search-delete@example.com")

	movieID := ts.createTestMovie(t, token, "Vanishing Act")

	resp := ts.api.Get("/api/v1/movies/search?q=vanishing", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var before testEnvelope[SearchResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &before))
	require.Equal(t, int64(1), before.Data.Total)

	resp = ts.api.Delete("/api/v1/movies/"+movieID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/movies/search?q=vanishing", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var after testEnvelope[SearchResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &after))
	assert.Equal(t, int64(0), after.Data.Total)
}

func TestSearchMovies_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/movies/search?q=anything")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
