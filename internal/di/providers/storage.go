package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/movievaultapp/movievault-server/internal/config"
	"github.com/movievaultapp/movievault-server/internal/logger"
	"github.com/movievaultapp/movievault-server/internal/media/images"
)

// ProvidePosterStorage provides the poster image storage.
func ProvidePosterStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	posters, err := images.NewStorage(cfg.Data.BasePath)
	if err != nil {
		return nil, fmt.Errorf("poster storage: %w", err)
	}

	log.Info("Poster storage initialized")

	return posters, nil
}

// ProvidePosterProcessor provides the image processor for posters.
func ProvidePosterProcessor(i do.Injector) (*images.Processor, error) {
	posters := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(posters, log.Logger), nil
}
