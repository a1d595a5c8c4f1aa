package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/movievaultapp/movievault-server/internal/domain"
	domainerrors "github.com/movievaultapp/movievault-server/internal/errors"
	"github.com/movievaultapp/movievault-server/internal/id"
	"github.com/movievaultapp/movievault-server/internal/media/images"
	"github.com/movievaultapp/movievault-server/internal/search"
	"github.com/movievaultapp/movievault-server/internal/store"
	"github.com/movievaultapp/movievault-server/internal/store/sqlite"
)

// MovieService handles movie CRUD, tag association, and poster attachment.
// All operations are scoped to the owning user; a movie owned by someone
// else behaves exactly like a missing movie.
type MovieService struct {
	store   *sqlite.Store
	posters *images.Processor
	storage *images.Storage
	index   *search.SearchIndex // Optional; nil disables indexing
	logger  *slog.Logger
}

// NewMovieService creates a new movie service.
func NewMovieService(
	store *sqlite.Store,
	posters *images.Processor,
	storage *images.Storage,
	index *search.SearchIndex,
	logger *slog.Logger,
) *MovieService {
	return &MovieService{
		store:   store,
		posters: posters,
		storage: storage,
		index:   index,
		logger:  logger,
	}
}

// MovieRequest contains the writable movie fields for create and full update.
// Tags is the complete set of tag IDs; an absent field clears the set.
type MovieRequest struct {
	Title       string   `json:"title" validate:"required,max=250"`
	TimeMinutes int      `json:"time_minutes" validate:"gt=0"`
	TicketPrice float64  `json:"ticket_price" validate:"gte=0"`
	Link        string   `json:"link" validate:"omitempty,url,max=500"`
	Tags        []string `json:"tags"`
}

// MoviePatchRequest contains optional movie fields for partial update.
// Nil pointers mean "leave unchanged"; a non-nil Tags replaces the whole set.
type MoviePatchRequest struct {
	Title       *string   `json:"title" validate:"omitempty,max=250"`
	TimeMinutes *int      `json:"time_minutes" validate:"omitempty,gt=0"`
	TicketPrice *float64  `json:"ticket_price" validate:"omitempty,gte=0"`
	Link        *string   `json:"link" validate:"omitempty,url,max=500"`
	Tags        *[]string `json:"tags"`
}

// validateTagOwnership checks that every tag ID belongs to the user.
// Unknown and foreign tag IDs are indistinguishable to the caller.
func (s *MovieService) validateTagOwnership(ctx context.Context, userID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tagIDs))
	for _, tagID := range tagIDs {
		if _, dup := seen[tagID]; dup {
			return domainerrors.Validationf("duplicate tag %s", tagID)
		}
		seen[tagID] = struct{}{}
	}

	count, err := s.store.CountTagsByIDs(ctx, userID, tagIDs)
	if err != nil {
		return fmt.Errorf("count tags: %w", err)
	}
	if count != len(tagIDs) {
		return domainerrors.Validation("one or more tags do not exist")
	}
	return nil
}

// ListMovies returns the user's movies in creation order.
func (s *MovieService) ListMovies(ctx context.Context, userID string) ([]*domain.Movie, error) {
	movies, err := s.store.ListMovies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// GetMovie returns one of the user's movies.
func (s *MovieService) GetMovie(ctx context.Context, userID, movieID string) (*domain.Movie, error) {
	movie, err := s.store.GetMovie(ctx, movieID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("movie not found")
		}
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return movie, nil
}

// CreateMovie creates a movie owned by the user. Tag ownership is verified
// before anything is written, so an invalid payload creates nothing.
func (s *MovieService) CreateMovie(ctx context.Context, userID string, req MovieRequest) (*domain.Movie, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if err := s.validateTagOwnership(ctx, userID, req.Tags); err != nil {
		return nil, err
	}

	movieID, err := id.Generate("movie")
	if err != nil {
		return nil, fmt.Errorf("generate movie ID: %w", err)
	}

	movie := &domain.Movie{
		Base: domain.Base{
			ID: movieID,
		},
		UserID:      userID,
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		TicketPrice: req.TicketPrice,
		Link:        req.Link,
		TagIDs:      req.Tags,
	}
	movie.InitTimestamps()

	if err := s.store.CreateMovie(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.indexMovie(ctx, movie)

	if s.logger != nil {
		s.logger.Info("Movie created", "movie_id", movieID, "user_id", userID)
	}

	return movie, nil
}

// UpdateMovie replaces all writable fields of one of the user's movies.
// The tag set is replaced wholesale; a request without tags clears it.
func (s *MovieService) UpdateMovie(ctx context.Context, userID, movieID string, req MovieRequest) (*domain.Movie, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if err := s.validateTagOwnership(ctx, userID, req.Tags); err != nil {
		return nil, err
	}

	movie, err := s.GetMovie(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}

	movie.Title = req.Title
	movie.TimeMinutes = req.TimeMinutes
	movie.TicketPrice = req.TicketPrice
	movie.Link = req.Link
	movie.Touch()

	if err := s.store.UpdateMovie(ctx, movie); err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}
	if err := s.store.SetMovieTags(ctx, movie.ID, req.Tags); err != nil {
		return nil, fmt.Errorf("set movie tags: %w", err)
	}
	movie.TagIDs = req.Tags

	s.indexMovie(ctx, movie)

	return movie, nil
}

// PatchMovie applies a partial update to one of the user's movies.
// Only fields present in the request change; tags are replaced wholesale
// when the field is present at all.
func (s *MovieService) PatchMovie(ctx context.Context, userID, movieID string, req MoviePatchRequest) (*domain.Movie, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if req.Tags != nil {
		if err := s.validateTagOwnership(ctx, userID, *req.Tags); err != nil {
			return nil, err
		}
	}

	movie, err := s.GetMovie(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.TimeMinutes != nil {
		movie.TimeMinutes = *req.TimeMinutes
	}
	if req.TicketPrice != nil {
		movie.TicketPrice = *req.TicketPrice
	}
	if req.Link != nil {
		movie.Link = *req.Link
	}
	movie.Touch()

	if err := s.store.UpdateMovie(ctx, movie); err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}
	if req.Tags != nil {
		if err := s.store.SetMovieTags(ctx, movie.ID, *req.Tags); err != nil {
			return nil, fmt.Errorf("set movie tags: %w", err)
		}
		movie.TagIDs = *req.Tags
	}

	s.indexMovie(ctx, movie)

	return movie, nil
}

// DeleteMovie removes one of the user's movies. The poster file and search
// document are cleaned up best-effort.
func (s *MovieService) DeleteMovie(ctx context.Context, userID, movieID string) error {
	if err := s.store.DeleteMovie(ctx, movieID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("movie not found")
		}
		return fmt.Errorf("delete movie: %w", err)
	}

	if s.storage != nil {
		if err := s.storage.Delete(movieID); err != nil && s.logger != nil {
			s.logger.Warn("Failed to delete poster", "movie_id", movieID, "error", err)
		}
	}
	if s.index != nil {
		if err := s.index.DeleteDocument(movieID); err != nil && s.logger != nil {
			s.logger.Warn("Failed to remove movie from search index", "movie_id", movieID, "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("Movie deleted", "movie_id", movieID, "user_id", userID)
	}

	return nil
}

// AttachPoster validates and stores an uploaded poster for one of the user's
// movies. Invalid image data is a validation error and leaves the movie and
// any existing poster untouched.
func (s *MovieService) AttachPoster(ctx context.Context, userID, movieID string, data []byte) (*domain.Movie, error) {
	movie, err := s.GetMovie(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}

	blurHash, err := s.posters.Process(movieID, data)
	if err != nil {
		return nil, domainerrors.Validation("uploaded file is not a valid image").WithCause(err)
	}

	movie.Image = fmt.Sprintf("posters/%s.jpg", movieID)
	movie.BlurHash = blurHash
	movie.Touch()

	if err := s.store.UpdateMovie(ctx, movie); err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Poster attached", "movie_id", movieID, "user_id", userID)
	}

	return movie, nil
}

// TagsForMovie resolves the movie's tag IDs to full tags.
func (s *MovieService) TagsForMovie(ctx context.Context, userID string, movie *domain.Movie) ([]*domain.Tag, error) {
	if len(movie.TagIDs) == 0 {
		return []*domain.Tag{}, nil
	}
	tags, err := s.store.GetTagsByIDs(ctx, userID, movie.TagIDs)
	if err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	return tags, nil
}

// indexMovie updates the search index for a movie. Failures are logged and
// swallowed; search lags behind rather than failing the write.
func (s *MovieService) indexMovie(ctx context.Context, movie *domain.Movie) {
	if s.index == nil {
		return
	}

	var tagNames []string
	if len(movie.TagIDs) > 0 {
		tags, err := s.store.GetTagsByIDs(ctx, movie.UserID, movie.TagIDs)
		if err == nil {
			for _, tag := range tags {
				tagNames = append(tagNames, tag.Name)
			}
		}
	}

	if err := s.index.IndexDocument(search.MovieToDocument(movie, tagNames)); err != nil && s.logger != nil {
		s.logger.Warn("Failed to index movie", "movie_id", movie.ID, "error", err)
	}
}
