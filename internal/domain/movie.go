package domain

// Movie is a single entry in a user's collection.
//
// TicketPrice is a positive decimal amount in USD. It is carried as a
// float64 and persisted as a SQLite REAL; the API layer enforces that it
// is strictly positive.
type Movie struct {
	Base
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	TicketPrice float64 `json:"ticket_price"`
	Link        string  `json:"link,omitempty"`

	// Image is the stored poster reference (a path under the poster
	// storage area), empty when no poster has been uploaded.
	Image    string `json:"image,omitempty"`
	BlurHash string `json:"blur_hash,omitempty"`

	// TagIDs is the ordered set of associated tag ids. Populated by the
	// store on reads; on writes the association is replaced wholesale.
	TagIDs []string `json:"tag_ids,omitempty"`
}

// HasImage reports whether a poster has been uploaded for the movie.
func (m *Movie) HasImage() bool {
	return m.Image != ""
}
