package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/movievaultapp/movievault-server/internal/domain"
	"github.com/movievaultapp/movievault-server/internal/service"
)

func (s *Server) registerMovieRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies",
		Summary:     "List movies",
		Description: "Returns the caller's movies in creation order, list form (tags as bare IDs)",
		Tags:        []string{"Movies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMovies)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createMovie",
		Method:        http.MethodPost,
		Path:          "/api/v1/movies",
		Summary:       "Create movie",
		Description:   "Creates a new movie owned by the caller",
		Tags:          []string{"Movies"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateMovie)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMovie",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/{id}",
		Summary:     "Get movie",
		Description: "Returns a movie in detail form with tags expanded to objects",
		Tags:        []string{"Movies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMovie)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceMovie",
		Method:      http.MethodPut,
		Path:        "/api/v1/movies/{id}",
		Summary:     "Replace movie",
		Description: "Replaces all movie fields; an omitted tags field clears the association",
		Tags:        []string{"Movies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplaceMovie)

	huma.Register(s.api, huma.Operation{
		OperationID: "patchMovie",
		Method:      http.MethodPatch,
		Path:        "/api/v1/movies/{id}",
		Summary:     "Update movie",
		Description: "Updates only the supplied fields; a supplied tags list replaces the whole set",
		Tags:        []string{"Movies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePatchMovie)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMovie",
		Method:      http.MethodDelete,
		Path:        "/api/v1/movies/{id}",
		Summary:     "Delete movie",
		Description: "Deletes a movie owned by the caller",
		Tags:        []string{"Movies"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteMovie)
}

// movieView selects which wire representation of a movie to build.
// The set is closed; every operation names its view explicitly.
type movieView int

const (
	movieViewList   movieView = iota // tags as bare IDs
	movieViewDetail                  // tags expanded to {id, name}, poster fields
	movieViewImage                   // id and image reference only
)

// === DTOs ===

// ListMoviesInput contains parameters for listing movies.
type ListMoviesInput struct {
	Authorization string `header:"Authorization"`
}

// MovieResponse is the list form of a movie: tags as bare IDs.
type MovieResponse struct {
	ID          string    `json:"id" doc:"Movie ID"`
	Title       string    `json:"title" doc:"Movie title"`
	TimeMinutes int       `json:"time_minutes" doc:"Running time in minutes"`
	TicketPrice float64   `json:"ticket_price" doc:"Ticket price"`
	Link        string    `json:"link,omitempty" doc:"External link"`
	Tags        []string  `json:"tags" doc:"Associated tag IDs"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// MovieDetailResponse is the detail form: tags expanded, poster fields included.
type MovieDetailResponse struct {
	ID          string        `json:"id" doc:"Movie ID"`
	Title       string        `json:"title" doc:"Movie title"`
	TimeMinutes int           `json:"time_minutes" doc:"Running time in minutes"`
	TicketPrice float64       `json:"ticket_price" doc:"Ticket price"`
	Link        string        `json:"link,omitempty" doc:"External link"`
	Tags        []TagResponse `json:"tags" doc:"Associated tags"`
	Image       string        `json:"image,omitempty" doc:"Poster image reference"`
	BlurHash    string        `json:"blur_hash,omitempty" doc:"Poster BlurHash"`
	CreatedAt   time.Time     `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time     `json:"updated_at" doc:"Last update time"`
}

// MovieImageResponse is the image form: id and image reference only.
type MovieImageResponse struct {
	ID    string `json:"id" doc:"Movie ID"`
	Image string `json:"image,omitempty" doc:"Poster image reference"`
}

// ListMoviesResponse contains a list of movies.
type ListMoviesResponse struct {
	Movies []MovieResponse `json:"movies" doc:"List of movies"`
}

// ListMoviesOutput wraps the list movies response for Huma.
type ListMoviesOutput struct {
	Body ListMoviesResponse
}

// MovieRequest is the request body for creating or replacing a movie.
type MovieRequest struct {
	Title       string   `json:"title" validate:"required,max=250" doc:"Movie title"`
	TimeMinutes int      `json:"time_minutes" validate:"gt=0" doc:"Running time in minutes"`
	TicketPrice float64  `json:"ticket_price" validate:"gte=0" doc:"Ticket price"`
	Link        string   `json:"link,omitempty" validate:"omitempty,url,max=500" doc:"External link"`
	Tags        []string `json:"tags,omitempty" doc:"Complete set of tag IDs; omitted means none"`
}

// CreateMovieInput wraps the create movie request for Huma.
type CreateMovieInput struct {
	Authorization string `header:"Authorization"`
	Body          MovieRequest
}

// MovieOutput wraps the list-form movie response for Huma.
type MovieOutput struct {
	Body MovieResponse
}

// GetMovieInput contains parameters for getting a movie.
type GetMovieInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Movie ID"`
}

// MovieDetailOutput wraps the detail-form movie response for Huma.
type MovieDetailOutput struct {
	Body MovieDetailResponse
}

// ReplaceMovieInput wraps the full update request for Huma.
type ReplaceMovieInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Movie ID"`
	Body          MovieRequest
}

// MoviePatchRequest is the request body for partial update.
// Omitted fields stay unchanged; a supplied tags list replaces the set.
type MoviePatchRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,max=250" doc:"Movie title"`
	TimeMinutes *int      `json:"time_minutes,omitempty" validate:"omitempty,gt=0" doc:"Running time in minutes"`
	TicketPrice *float64  `json:"ticket_price,omitempty" validate:"omitempty,gte=0" doc:"Ticket price"`
	Link        *string   `json:"link,omitempty" validate:"omitempty,url,max=500" doc:"External link"`
	Tags        *[]string `json:"tags,omitempty" doc:"Replacement set of tag IDs"`
}

// PatchMovieInput wraps the partial update request for Huma.
type PatchMovieInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Movie ID"`
	Body          MoviePatchRequest
}

// DeleteMovieInput contains parameters for deleting a movie.
type DeleteMovieInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Movie ID"`
}

// === Handlers ===

func (s *Server) handleListMovies(ctx context.Context, input *ListMoviesInput) (*ListMoviesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	movies, err := s.services.Movie.ListMovies(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]MovieResponse, len(movies))
	for i, m := range movies {
		body, err := s.serializeMovie(ctx, userID, m, movieViewList)
		if err != nil {
			return nil, err
		}
		resp[i] = body.(MovieResponse)
	}

	return &ListMoviesOutput{Body: ListMoviesResponse{Movies: resp}}, nil
}

func (s *Server) handleCreateMovie(ctx context.Context, input *CreateMovieInput) (*MovieOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	movie, err := s.services.Movie.CreateMovie(ctx, userID, service.MovieRequest{
		Title:       input.Body.Title,
		TimeMinutes: input.Body.TimeMinutes,
		TicketPrice: input.Body.TicketPrice,
		Link:        input.Body.Link,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	body, err := s.serializeMovie(ctx, userID, movie, movieViewList)
	if err != nil {
		return nil, err
	}
	return &MovieOutput{Body: body.(MovieResponse)}, nil
}

func (s *Server) handleGetMovie(ctx context.Context, input *GetMovieInput) (*MovieDetailOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	movie, err := s.services.Movie.GetMovie(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	body, err := s.serializeMovie(ctx, userID, movie, movieViewDetail)
	if err != nil {
		return nil, err
	}
	return &MovieDetailOutput{Body: body.(MovieDetailResponse)}, nil
}

func (s *Server) handleReplaceMovie(ctx context.Context, input *ReplaceMovieInput) (*MovieOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	movie, err := s.services.Movie.UpdateMovie(ctx, userID, input.ID, service.MovieRequest{
		Title:       input.Body.Title,
		TimeMinutes: input.Body.TimeMinutes,
		TicketPrice: input.Body.TicketPrice,
		Link:        input.Body.Link,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	body, err := s.serializeMovie(ctx, userID, movie, movieViewList)
	if err != nil {
		return nil, err
	}
	return &MovieOutput{Body: body.(MovieResponse)}, nil
}

func (s *Server) handlePatchMovie(ctx context.Context, input *PatchMovieInput) (*MovieOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	movie, err := s.services.Movie.PatchMovie(ctx, userID, input.ID, service.MoviePatchRequest{
		Title:       input.Body.Title,
		TimeMinutes: input.Body.TimeMinutes,
		TicketPrice: input.Body.TicketPrice,
		Link:        input.Body.Link,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	body, err := s.serializeMovie(ctx, userID, movie, movieViewList)
	if err != nil {
		return nil, err
	}
	return &MovieOutput{Body: body.(MovieResponse)}, nil
}

func (s *Server) handleDeleteMovie(ctx context.Context, input *DeleteMovieInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Movie.DeleteMovie(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Movie deleted"}}, nil
}

// === Helpers ===

// serializeMovie builds the wire representation selected by view. Only the
// detail view touches the store (tag expansion); the others map in place.
func (s *Server) serializeMovie(ctx context.Context, userID string, movie *domain.Movie, view movieView) (any, error) {
	switch view {
	case movieViewList:
		return mapMovieList(movie), nil
	case movieViewDetail:
		tags, err := s.services.Movie.TagsForMovie(ctx, userID, movie)
		if err != nil {
			return nil, err
		}
		return mapMovieDetail(movie, tags), nil
	case movieViewImage:
		return mapMovieImage(movie), nil
	default:
		return nil, fmt.Errorf("unknown movie view %d", view)
	}
}

func mapMovieList(movie *domain.Movie) MovieResponse {
	tagIDs := movie.TagIDs
	if tagIDs == nil {
		tagIDs = []string{}
	}
	return MovieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		TimeMinutes: movie.TimeMinutes,
		TicketPrice: movie.TicketPrice,
		Link:        movie.Link,
		Tags:        tagIDs,
		CreatedAt:   movie.CreatedAt,
		UpdatedAt:   movie.UpdatedAt,
	}
}

func mapMovieDetail(movie *domain.Movie, tags []*domain.Tag) MovieDetailResponse {
	tagResponses := make([]TagResponse, len(tags))
	for i, t := range tags {
		tagResponses[i] = mapTagResponse(t)
	}
	return MovieDetailResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		TimeMinutes: movie.TimeMinutes,
		TicketPrice: movie.TicketPrice,
		Link:        movie.Link,
		Tags:        tagResponses,
		Image:       movie.Image,
		BlurHash:    movie.BlurHash,
		CreatedAt:   movie.CreatedAt,
		UpdatedAt:   movie.UpdatedAt,
	}
}

func mapMovieImage(movie *domain.Movie) MovieImageResponse {
	return MovieImageResponse{
		ID:    movie.ID,
		Image: movie.Image,
	}
}
