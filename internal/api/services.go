package api

import (
	"github.com/movievaultapp/movievault-server/internal/media/images"
	"github.com/movievaultapp/movievault-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	User    *service.UserService
	Tag     *service.TagService
	Movie   *service.MovieService
	Search  *service.SearchService // May be nil when the index is disabled
}

// StorageServices groups file storage handlers used by the API server.
type StorageServices struct {
	Posters *images.Storage // Movie poster images
}
