package images

import (
	"fmt"
	"log/slog"
)

// maxPosterSize caps poster uploads at 10 MiB.
const maxPosterSize = 10 << 20

// Processor validates and stores uploaded poster images.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{
		storage: storage,
		logger:  logger,
	}
}

// Process validates the uploaded bytes, stores them as the movie's poster and
// returns the computed BlurHash. Nothing is written when validation fails, so
// a rejected upload leaves any existing poster untouched.
func (p *Processor) Process(movieID string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image data cannot be empty")
	}
	if len(data) > maxPosterSize {
		return "", fmt.Errorf("image exceeds maximum size of %d bytes", maxPosterSize)
	}

	img, format, err := Decode(data)
	if err != nil {
		return "", err
	}

	if err := p.storage.Save(movieID, data); err != nil {
		return "", fmt.Errorf("store poster: %w", err)
	}

	hash, err := ComputeBlurHash(img)
	if err != nil {
		// The poster is stored; a missing placeholder hash is not fatal.
		p.logger.Warn("failed to compute blurhash",
			"movie_id", movieID,
			"error", err,
		)
		hash = ""
	}

	p.logger.Debug("processed poster upload",
		"movie_id", movieID,
		"format", format,
		"size", len(data),
	)

	return hash, nil
}
