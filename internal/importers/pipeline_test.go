package importers

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mediatracker/internal/database"
	"github.com/mrlokans/mediatracker/internal/entities"
	"github.com/mrlokans/mediatracker/internal/exporters"
	"github.com/mrlokans/mediatracker/internal/repository"
)

func setupRepo(t *testing.T) *repository.Repository {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "import.db"), database.WithLogLevel("silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.New(db)
}

type flakyWriter struct {
	failTitle string
	saved     []entities.Movie
}

func (w *flakyWriter) UpsertMovie(_ context.Context, movie entities.Movie) (uint, error) {
	if movie.Title == w.failTitle {
		return 0, errors.New("disk full")
	}
	w.saved = append(w.saved, movie)
	return uint(len(w.saved)), nil
}

func TestPipeline_ExportImportRoundTrip(t *testing.T) {
	original := []entities.Movie{
		{ID: 1, Title: "Dune", Year: 2021, Rating: 8, Director: "Denis Villeneuve", Body: "Sand, spice, \"worms\"", Note: "multi\nline", OwnPhysical: true},
		{ID: 2, Title: "Arrival", Year: 2016, Rating: 9, Tagline: "Why are they here?", Runtime: 116, OwnDigital: true, Watchlist: true, Completed: true, Poster: "/p/arrival.jpg"},
	}

	var buf bytes.Buffer
	exported, err := exporters.WriteCSV(&buf, original)
	require.NoError(t, err)
	assert.Equal(t, 2, exported.MoviesProcessed)

	repo := setupRepo(t)
	result, err := NewPipeline(repo).ImportCSV(context.Background(), &buf, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Errors)

	imported, err := repo.GetAllMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, imported, 2)

	for i, got := range imported {
		want := original[i]
		want.ID = got.ID
		assert.Equal(t, want, got)
	}
}

func TestPipeline_ExportImportRoundTrip_FreshIDs(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	// Occupy IDs 1 and 2 so the re-import cannot reuse them.
	for _, m := range []entities.Movie{{ID: 1, Title: "Dune", Year: 2021, Rating: 8}, {ID: 2, Title: "Arrival", Year: 2016, Rating: 9}} {
		_, err := repo.UpsertMovie(ctx, m)
		require.NoError(t, err)
	}
	all, err := repo.GetAllMovies(ctx)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = exporters.WriteCSV(&buf, all)
	require.NoError(t, err)

	result, err := NewPipeline(repo).ImportCSV(ctx, &buf, Options{})
	require.NoError(t, err)
	require.Len(t, result.IDs, 2)
	for _, id := range result.IDs {
		assert.NotEqual(t, uint(1), id)
		assert.NotEqual(t, uint(2), id)
	}

	dune, err := repo.GetMovie(ctx, result.IDs[0])
	require.NoError(t, err)
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, 2021, dune.Year)
	assert.Equal(t, 8, dune.Rating)

	arrival, err := repo.GetMovie(ctx, result.IDs[1])
	require.NoError(t, err)
	assert.Equal(t, "Arrival", arrival.Title)
	assert.Equal(t, 2016, arrival.Year)
	assert.Equal(t, 9, arrival.Rating)
}

func TestPipeline_MalformedRowDoesNotStopImport(t *testing.T) {
	repo := setupRepo(t)
	input := "title,year\nBroken,abc\nValid,1999\n"

	result, err := NewPipeline(repo).ImportCSV(context.Background(), strings.NewReader(input), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Line 2")

	all, err := repo.GetAllMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Valid", all[0].Title)
}

func TestPipeline_UnclosedQuoteDoesNotSwallowLaterRows(t *testing.T) {
	repo := setupRepo(t)
	input := "title,year\n\"Dune,2021\nArrival,2016\nHer,2013\n"

	result, err := NewPipeline(repo).ImportCSV(context.Background(), strings.NewReader(input), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Line 2")

	all, err := repo.GetMoviesOrderedByTitle(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Arrival", all[0].Title)
	assert.Equal(t, 2016, all[0].Year)
	assert.Equal(t, "Her", all[1].Title)
	assert.Equal(t, 2013, all[1].Year)
}

func TestPipeline_ExportImportRoundTrip_LineEndings(t *testing.T) {
	original := []entities.Movie{
		{Title: "Dune", Note: "line1\r\nline2", Body: "first\r\nsecond\nthird", Tagline: "lone\rreturn"},
	}

	var buf bytes.Buffer
	_, err := exporters.WriteCSV(&buf, original)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "\r\n", "text fields are exported with \\n line endings")

	repo := setupRepo(t)
	result, err := NewPipeline(repo).ImportCSV(context.Background(), &buf, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	imported, err := repo.GetMovie(context.Background(), result.IDs[0])
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2", imported.Note)
	assert.Equal(t, "first\nsecond\nthird", imported.Body)
	assert.Equal(t, "lone\nreturn", imported.Tagline)

	// A second round trip is stable.
	var again bytes.Buffer
	_, err = exporters.WriteCSV(&again, []entities.Movie{*imported})
	require.NoError(t, err)
	rows, rowErrors, err := ParseMoviesCSV(&again)
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, rows, 1)
	assert.Equal(t, imported.Note, rows[0].Movie.Note)
	assert.Equal(t, imported.Body, rows[0].Movie.Body)
}

func TestPipeline_WriteFailureIsCounted(t *testing.T) {
	writer := &flakyWriter{failTitle: "Cursed"}
	input := "title\nFine\nCursed\nAlso Fine\n"

	result, err := NewPipeline(writer).ImportCSV(context.Background(), strings.NewReader(input), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Line 3: disk full", result.Errors[0])
	assert.Len(t, writer.saved, 2)
}

func TestPipeline_DryRun(t *testing.T) {
	writer := &flakyWriter{}
	input := "title,year\nDune,2021\nBad,x\n"

	result, err := NewPipeline(writer).ImportCSV(context.Background(), strings.NewReader(input), Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Parsed)
	assert.Equal(t, 1, result.Skipped)
	assert.Zero(t, result.Imported)
	assert.Empty(t, writer.saved)
}

func TestPipeline_CancelledContext(t *testing.T) {
	writer := &flakyWriter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(writer).ImportCSV(ctx, strings.NewReader("title\nDune\n"), Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, writer.saved)
}
