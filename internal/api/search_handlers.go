package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/movievaultapp/movievault-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/search",
		Summary:     "Search movies",
		Description: "Full-text search over the caller's movies with tag and running time filters",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchMovies)
}

// === DTOs ===

// SearchMoviesInput contains parameters for searching movies.
type SearchMoviesInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" validate:"omitempty,max=200" doc:"Search query; omit to match everything"`
	Tags          string `query:"tags" validate:"omitempty,max=500" doc:"Comma-separated tag names to filter by"`
	MinMinutes    int    `query:"min_minutes" validate:"omitempty,gte=0" doc:"Minimum running time in minutes"`
	MaxMinutes    int    `query:"max_minutes" validate:"omitempty,gte=0" doc:"Maximum running time in minutes"`
	Limit         int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 20)"`
	Offset        int    `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset (default 0)"`
	Sort          string `query:"sort" validate:"omitempty,oneof=relevance title recent time" doc:"Sort field (default relevance)"`
	Order         string `query:"order" validate:"omitempty,oneof=asc desc" doc:"Sort direction (default desc)"`
	Facets        bool   `query:"facets" doc:"Include tag facet counts in the response"`
}

// SearchHitResult contains a single movie search result.
type SearchHitResult struct {
	ID          string            `json:"id" doc:"Movie ID"`
	Score       float64           `json:"score" doc:"Search relevance score"`
	Title       string            `json:"title" doc:"Movie title"`
	Tags        []string          `json:"tags,omitempty" doc:"Tag names"`
	TimeMinutes int               `json:"time_minutes,omitempty" doc:"Running time in minutes"`
	TicketPrice float64           `json:"ticket_price,omitempty" doc:"Ticket price"`
	Highlights  map[string]string `json:"highlights,omitempty" doc:"Highlighted matches"`
}

// TagFacets contains tag facet counts for filtering.
type TagFacets struct {
	Tags []FacetCount `json:"tags,omitempty" doc:"Tag facets"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value" doc:"Facet value"`
	Count int    `json:"count" doc:"Number of matches"`
}

// SearchResponse contains movie search results.
type SearchResponse struct {
	Query  string            `json:"query" doc:"Original search query"`
	Total  int64             `json:"total" doc:"Total matches"`
	TookMs int64             `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []SearchHitResult `json:"hits" doc:"Search results"`
	Facets *TagFacets        `json:"facets,omitempty" doc:"Facet counts for filtering"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearchMovies(ctx context.Context, input *SearchMoviesInput) (*SearchOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if s.services.Search == nil {
		return nil, huma.Error503ServiceUnavailable("Search index is not configured")
	}

	params := search.DefaultSearchParams()
	params.UserID = userID
	params.Query = input.Query
	params.MinMinutes = input.MinMinutes
	params.MaxMinutes = input.MaxMinutes
	params.IncludeFacets = input.Facets
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	if input.Offset > 0 {
		params.Offset = input.Offset
	}
	if input.Sort != "" {
		params.SortBy = input.Sort
	}
	if input.Order != "" {
		params.SortOrder = input.Order
	}

	if input.Tags != "" {
		for _, name := range strings.Split(input.Tags, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				params.Tags = append(params.Tags, name)
			}
		}
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: mapSearchResponse(result)}, nil
}

// === Helpers ===

func mapSearchResponse(result *search.SearchResult) SearchResponse {
	resp := SearchResponse{
		Query:  result.Query,
		Total:  int64(result.Total),
		TookMs: result.TookMs,
		Hits:   make([]SearchHitResult, len(result.Hits)),
	}

	for i, hit := range result.Hits {
		resp.Hits[i] = SearchHitResult{
			ID:          hit.ID,
			Score:       hit.Score,
			Title:       hit.Title,
			Tags:        hit.Tags,
			TimeMinutes: hit.TimeMinutes,
			TicketPrice: hit.TicketPrice,
			Highlights:  hit.Highlights,
		}
	}

	if len(result.Facets.Tags) > 0 {
		facets := TagFacets{Tags: make([]FacetCount, len(result.Facets.Tags))}
		for i, f := range result.Facets.Tags {
			facets.Tags[i] = FacetCount{Value: f.Value, Count: f.Count}
		}
		resp.Facets = &facets
	}

	return resp
}
