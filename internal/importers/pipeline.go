package importers

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/mediatracker/internal/entities"
)

// MovieWriter persists imported movies.
type MovieWriter interface {
	UpsertMovie(ctx context.Context, movie entities.Movie) (uint, error)
}

// ImportResult summarises one import run.
type ImportResult struct {
	Parsed   int      `json:"parsed"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
	IDs      []uint   `json:"ids,omitempty"`
}

type Options struct {
	// DryRun parses and validates without writing anything.
	DryRun bool
}

// Pipeline handles the common import workflow: parse → validate → save.
type Pipeline struct {
	writer MovieWriter
}

// NewPipeline creates a new import pipeline with the given writer.
func NewPipeline(writer MovieWriter) *Pipeline {
	return &Pipeline{writer: writer}
}

// ImportCSV parses r and upserts every valid row as a new movie. Malformed
// rows are skipped and listed in the result; a failed write is counted and
// the import carries on. Only an unreadable document or a cancelled ctx
// stops the run early.
func (p *Pipeline) ImportCSV(ctx context.Context, r io.Reader, opts Options) (ImportResult, error) {
	rows, rowErrors, err := ParseMoviesCSV(r)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Parsed: len(rows), Skipped: len(rowErrors)}
	for _, e := range rowErrors {
		result.Errors = append(result.Errors, e.Error())
	}

	if opts.DryRun {
		return result, nil
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		movie := row.Movie
		movie.ID = 0
		id, err := p.writer.UpsertMovie(ctx, movie)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: %v", row.Line, err))
			log.Warn().Err(err).Int("line", row.Line).Str("title", movie.Title).Msg("failed to import movie")
			continue
		}
		result.Imported++
		result.IDs = append(result.IDs, id)
	}

	log.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("csv import finished")

	return result, nil
}
