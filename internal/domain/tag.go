package domain

// Tag is a user-defined label attached to movies.
// Tags are private to their owner; two users can each have a tag named
// "horror" without colliding. Within one user, names are unique.
type Tag struct {
	Base
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// MovieTag is the join table entry between movies and tags.
type MovieTag struct {
	MovieID string `json:"movie_id"`
	TagID   string `json:"tag_id"`
}
