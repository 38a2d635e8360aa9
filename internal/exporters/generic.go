// Package exporters writes the movie catalog out as CSV.
package exporters

import (
	"context"

	"github.com/mrlokans/mediatracker/internal/entities"
)

// MovieReader supplies the movies to export.
type MovieReader interface {
	GetAllMovies(ctx context.Context) ([]entities.Movie, error)
}

type ExportResult struct {
	MoviesProcessed int    `json:"movies_processed"`
	MoviesFailed    int    `json:"movies_failed"`
	File            string `json:"file,omitempty"`
}
