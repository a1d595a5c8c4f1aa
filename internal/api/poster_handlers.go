package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

func (s *Server) registerPosterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "uploadMoviePoster",
		Method:      http.MethodPost,
		Path:        "/api/v1/movies/{id}/upload-image",
		Summary:     "Upload movie poster",
		Description: "Accepts a multipart image upload and attaches it to the movie",
		Tags:        []string{"Posters"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadPoster)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMoviePoster",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/{id}/image",
		Summary:     "Get movie poster",
		Description: "Redirects to the poster image for a movie",
		Tags:        []string{"Posters"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPoster)

	// Direct chi route for poster streaming, bypasses huma and the envelope
	s.router.Get("/posters/{path}", s.handleServePoster)
}

// === DTOs ===

// UploadPosterInput wraps the multipart upload for Huma.
type UploadPosterInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Movie ID"`
	RawBody       multipart.Form
}

// MovieImageOutput wraps the image-form movie response for Huma.
type MovieImageOutput struct {
	Body MovieImageResponse
}

// GetPosterInput contains parameters for the poster redirect.
type GetPosterInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Movie ID"`
}

// PosterRedirectOutput issues a temporary redirect to the poster file.
type PosterRedirectOutput struct {
	Status   int
	Location string `header:"Location"`
}

func (o *PosterRedirectOutput) StatusCode() int {
	return o.Status
}

// === Handlers ===

func (s *Server) handleUploadPoster(ctx context.Context, input *UploadPosterInput) (*MovieImageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	files := input.RawBody.File["image"]
	if len(files) == 0 {
		return nil, huma.Error400BadRequest("Missing image file in form field 'image'")
	}

	f, err := files[0].Open()
	if err != nil {
		return nil, huma.Error400BadRequest("Unable to read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, huma.Error400BadRequest("Unable to read uploaded file")
	}

	movie, err := s.services.Movie.AttachPoster(ctx, userID, input.ID, data)
	if err != nil {
		return nil, err
	}

	body, err := s.serializeMovie(ctx, userID, movie, movieViewImage)
	if err != nil {
		return nil, err
	}
	return &MovieImageOutput{Body: body.(MovieImageResponse)}, nil
}

func (s *Server) handleGetPoster(ctx context.Context, input *GetPosterInput) (*PosterRedirectOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	movie, err := s.services.Movie.GetMovie(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	if movie.Image == "" {
		return nil, huma.Error404NotFound("Movie has no poster")
	}

	return &PosterRedirectOutput{
		Status:   http.StatusTemporaryRedirect,
		Location: "/" + movie.Image,
	}, nil
}

func (s *Server) handleServePoster(w http.ResponseWriter, r *http.Request) {
	// The path is the movie ID, with or without the .jpg extension
	id := chi.URLParam(r, "path")
	if id == "" {
		http.Error(w, "path required", http.StatusBadRequest)
		return
	}
	id = strings.TrimSuffix(id, ".jpg")

	data, err := s.storage.Posters.Get(id)
	if err != nil {
		http.Error(w, "poster not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}
