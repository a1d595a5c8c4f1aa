package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTestJPEG renders a small gradient and encodes it as JPEG.
func makeTestJPEG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 96))
	for y := 0; y < 96; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 2), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// makePosterForm builds a multipart body with the given data in the
// "image" field. Returns the body and the Content-Type header value.
func makePosterForm(t *testing.T, fieldName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(fieldName, "poster.jpg")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestUploadPoster(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t, "poster-upload@example.com")
	movieID := ts.createTestMovie(t, token, "Poster Child")

	body, contentType := makePosterForm(t, "image", makeTestJPEG(t))

	resp := ts.api.Post("/api/v1/movies/"+movieID+"/upload-image",
		"Authorization: Bearer "+token,
		"Content-Type: "+contentType,
		body)
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[MovieImageResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, movieID, envelope.Data.ID)
	assert.Equal(t, "posters/"+movieID+".jpg", envelope.Data.Image)

	// Detail form now carries the image reference and a blurhash.
	resp = ts.api.Get("/api/v1/movies/"+movieID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var detail testEnvelope[MovieDetailResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &detail))
	assert.NotEmpty(t, detail.Data.Image)
	assert.NotEmpty(t, detail.Data.BlurHash)
}

func TestUploadPoster_InvalidImage(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t, "poster-garbage@example.com")
	movieID := ts.createTestMovie(t, token, "Unchanged")

	body, contentType := makePosterForm(t, "image", []byte("this is not an image"))

	resp := ts.api.Post("/api/v1/movies/"+movieID+"/upload-image",
		"Authorization: Bearer "+token,
		"Content-Type: "+contentType,
		body)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// A rejected upload leaves the movie untouched.
	resp = ts.api.Get("/api/v1/movies/"+movieID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var detail testEnvelope[MovieDetailResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &detail))
	assert.Empty(t, detail.Data.Image)
	assert.Empty(t, detail.Data.BlurHash)
}

func TestUploadPoster_MissingFile(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t, "poster-nofile@example.com")
	movieID := ts.createTestMovie(t, token, "No File")

	// Wrong field name means no "image" file in the form.
	body, contentType := makePosterForm(t, "file", makeTestJPEG(t))

	resp := ts.api.Post("/api/v1/movies/"+movieID+"/upload-image",
		"Authorization: Bearer "+token,
		"Content-Type: "+contentType,
		body)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUploadPoster_ForeignMovieIs404(t *testing.T) {
	ts := setupTestServer(t)
	tokenA, _ := ts.createTestUser(t, "poster-a@example.com")
	tokenB, _ := ts.createTestUser(t, "poster-b@example.com")

	movieID := ts.createTestMovie(t, tokenA, "Owned Elsewhere")
	body, contentType := makePosterForm(t, "image", makeTestJPEG(t))

	resp := ts.api.Post("/api/v1/movies/"+movieID+"/upload-image",
		"Authorization: Bearer "+tokenB,
		"Content-Type: "+contentType,
		body)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetPoster_RedirectsToFile(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t, "poster-redirect@example.com")
	movieID := ts.createTestMovie(t, token, "Redirected")

	body, contentType := makePosterForm(t, "image", makeTestJPEG(t))
	resp := ts.api.Post("/api/v1/movies/"+movieID+"/upload-image",
		"Authorization: Bearer "+token,
		"Content-Type: "+contentType,
		body)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/movies/"+movieID+"/image", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusTemporaryRedirect, resp.Code)
	assert.Equal(t, "/posters/"+movieID+".jpg", resp.Header().Get("Location"))
}

func TestGetPoster_NoPosterIs404(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t, "poster-none@example.com")
	movieID := ts.createTestMovie(t, token, "Bare")

	resp := ts.api.Get("/api/v1/movies/"+movieID+"/image", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestServePoster_StreamsJPEG(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createTestUser(t, "poster-stream@example.com")
	movieID := ts.createTestMovie(t, token, "Streamed")

	body, contentType := makePosterForm(t, "image", makeTestJPEG(t))
	resp := ts.api.Post("/api/v1/movies/"+movieID+"/upload-image",
		"Authorization: Bearer "+token,
		"Content-Type: "+contentType,
		body)
	require.Equal(t, http.StatusOK, resp.Code)

	// The streaming route is not enveloped; it serves raw bytes.
	resp = ts.api.Get("/posters/" + movieID + ".jpg")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/jpeg", resp.Header().Get("Content-Type"))
	assert.NotEmpty(t, resp.Body.Bytes())
}

func TestServePoster_UnknownIs404(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/posters/movie_doesnotexist.jpg")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
