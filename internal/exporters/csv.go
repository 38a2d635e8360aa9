package exporters

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/mediatracker/internal/entities"
)

const (
	// CSVFormatVersion is the version written on the first line of every export.
	CSVFormatVersion = 1

	// CSVVersionPrefix starts the optional version line, e.g. "# mediatracker-csv v1".
	CSVVersionPrefix = "# mediatracker-csv v"

	// DefaultCSVFileName is the download/file name used for exports.
	DefaultCSVFileName = "movies.csv"
)

// CSV column names, in export order.
const (
	ColumnUID         = "uid"
	ColumnTitle       = "title"
	ColumnYear        = "year"
	ColumnDirector    = "director"
	ColumnBody        = "body"
	ColumnRuntime     = "runtime"
	ColumnTagline     = "tagline"
	ColumnRating      = "rating"
	ColumnNote        = "note"
	ColumnOwnPhysical = "own_physical"
	ColumnOwnDigital  = "own_digital"
	ColumnWatchlist   = "watchlist"
	ColumnCompleted   = "completed"
	ColumnPoster      = "poster"
)

// CSVColumns is the v1 header.
var CSVColumns = []string{
	ColumnUID, ColumnTitle, ColumnYear, ColumnDirector, ColumnBody, ColumnRuntime,
	ColumnTagline, ColumnRating, ColumnNote, ColumnOwnPhysical, ColumnOwnDigital,
	ColumnWatchlist, ColumnCompleted, ColumnPoster,
}

// WriteCSV writes movies as a v1 CSV document. Fields are quoted as RFC 4180
// requires, so commas, quotes and newlines inside values survive a round trip.
func WriteCSV(w io.Writer, movies []entities.Movie) (ExportResult, error) {
	var result ExportResult

	if _, err := fmt.Fprintf(w, "%s%d\n", CSVVersionPrefix, CSVFormatVersion); err != nil {
		return result, fmt.Errorf("failed to write version line: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return result, fmt.Errorf("failed to write header: %w", err)
	}

	for _, m := range movies {
		if err := cw.Write(movieRecord(m)); err != nil {
			result.MoviesFailed++
			log.Warn().Err(err).Uint("movie_id", m.ID).Msg("failed to write movie row")
			continue
		}
		result.MoviesProcessed++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return result, fmt.Errorf("failed to flush csv: %w", err)
	}
	return result, nil
}

// newlines rewrites CRLF and lone CR to LF. encoding/csv drops the CR of a
// CRLF inside quoted fields on read, so text is exported with LF only.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func movieRecord(m entities.Movie) []string {
	return []string{
		strconv.FormatUint(uint64(m.ID), 10),
		newlines.Replace(m.Title),
		strconv.Itoa(m.Year),
		newlines.Replace(m.Director),
		newlines.Replace(m.Body),
		strconv.Itoa(m.Runtime),
		newlines.Replace(m.Tagline),
		strconv.Itoa(m.Rating),
		newlines.Replace(m.Note),
		strconv.FormatBool(m.OwnPhysical),
		strconv.FormatBool(m.OwnDigital),
		strconv.FormatBool(m.Watchlist),
		strconv.FormatBool(m.Completed),
		newlines.Replace(m.Poster),
	}
}

// CSVExporter exports the whole catalog from a MovieReader.
type CSVExporter struct {
	reader MovieReader
}

func NewCSVExporter(reader MovieReader) *CSVExporter {
	return &CSVExporter{reader: reader}
}

// Export writes every movie to w.
func (e *CSVExporter) Export(ctx context.Context, w io.Writer) (ExportResult, error) {
	movies, err := e.reader.GetAllMovies(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to load movies: %w", err)
	}
	return WriteCSV(w, movies)
}

// ExportToFile writes every movie to path. The file is written next to its
// final location and renamed into place, so readers never see a partial
// export.
func (e *CSVExporter) ExportToFile(ctx context.Context, path string) (ExportResult, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*.csv")
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	result, err := e.Export(ctx, tmp)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return result, err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return result, fmt.Errorf("failed to move export into place: %w", err)
	}
	result.File = path
	return result, nil
}

// TimestampedFileName returns "movies-20060102-150405-000.csv" for t, the
// last part being milliseconds so back-to-back backups get distinct files.
func TimestampedFileName(t time.Time) string {
	return fmt.Sprintf("movies-%s-%03d.csv", t.Format("20060102-150405"), t.Nanosecond()/int(time.Millisecond))
}
