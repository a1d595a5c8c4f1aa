// Package search provides full-text movie search using Bleve.
// Every document carries its owner's user ID so queries can be scoped to a
// single account; fuzzy and prefix matching handle typos and autocomplete.
package search

import (
	"github.com/movievaultapp/movievault-server/internal/domain"
)

// MovieDocument is the document structure for the Bleve index.
//
// Design note: tag names are denormalized into movie documents so a single
// query can match on both title and tag text. The trade-off is that a tag
// rename requires reindexing the movies that carry it.
type MovieDocument struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"` // Owner; every query filters on this

	Title string `json:"title"`

	// Tag names, denormalized for search
	Tags []string `json:"tags,omitempty"`

	// Numeric fields for range queries and sorting
	TimeMinutes int     `json:"time_minutes,omitempty"`
	TicketPrice float64 `json:"ticket_price,omitempty"`

	// Timestamps for sorting. Unix millis.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// This ensures field names match the Bleve index mapping.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *MovieDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"user_id":    d.UserID,
		"title":      d.Title,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	// Optional fields - only add if non-empty
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.TimeMinutes > 0 {
		m["time_minutes"] = d.TimeMinutes
	}
	if d.TicketPrice > 0 {
		m["ticket_price"] = d.TicketPrice
	}

	return m
}

// MovieToDocument converts a domain Movie to a MovieDocument.
// Tag names must be provided by the caller, as the search package
// shouldn't depend on store.
func MovieToDocument(movie *domain.Movie, tagNames []string) *MovieDocument {
	return &MovieDocument{
		ID:          movie.ID,
		UserID:      movie.UserID,
		Title:       movie.Title,
		Tags:        tagNames,
		TimeMinutes: movie.TimeMinutes,
		TicketPrice: movie.TicketPrice,
		CreatedAt:   movie.CreatedAt.UnixMilli(),
		UpdatedAt:   movie.UpdatedAt.UnixMilli(),
	}
}
