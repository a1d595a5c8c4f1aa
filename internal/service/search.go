package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/movievaultapp/movievault-server/internal/search"
	"github.com/movievaultapp/movievault-server/internal/store/sqlite"
)

// SearchService bridges the search index with the data store, handling
// query execution and full reindex operations.
type SearchService struct {
	index  *search.SearchIndex
	store  *sqlite.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *sqlite.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search executes a movie search scoped to one user.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the entire search index from the store.
// This is a heavy operation - use sparingly.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	// Rebuild index (drops existing)
	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	userIDs, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	total := 0
	for _, userID := range userIDs {
		movies, err := s.store.ListMovies(ctx, userID)
		if err != nil {
			return fmt.Errorf("list movies for %s: %w", userID, err)
		}

		docs := make([]*search.MovieDocument, 0, len(movies))
		for _, movie := range movies {
			var tagNames []string
			if len(movie.TagIDs) > 0 {
				tags, err := s.store.GetTagsByIDs(ctx, userID, movie.TagIDs)
				if err != nil {
					s.logger.Warn("failed to resolve tags for movie", "movie_id", movie.ID, "error", err)
				} else {
					for _, tag := range tags {
						tagNames = append(tagNames, tag.Name)
					}
				}
			}
			docs = append(docs, search.MovieToDocument(movie, tagNames))
		}

		if len(docs) > 0 {
			if err := s.index.IndexDocuments(docs); err != nil {
				return fmt.Errorf("index movies for %s: %w", userID, err)
			}
		}
		total += len(docs)
	}

	s.logger.Info("full reindex complete", "total_documents", total)
	return nil
}
