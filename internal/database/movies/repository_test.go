package movies

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mediatracker/internal/database"
	"github.com/mrlokans/mediatracker/internal/entities"
)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "movies.db"), database.WithLogLevel("silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleMovie() entities.Movie {
	return entities.Movie{
		Poster:      "/posters/dune.jpg",
		Title:       "Dune",
		Year:        2021,
		Director:    "Denis Villeneuve",
		Body:        "Paul Atreides, a brilliant and gifted young man...",
		Runtime:     155,
		Tagline:     "Beyond fear, destiny awaits.",
		Rating:      8,
		Note:        "Watch part two next",
		OwnPhysical: true,
		OwnDigital:  false,
		Watchlist:   false,
		Completed:   true,
	}
}

func TestRepository_InsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB, db.Changes)
	ctx := context.Background()

	id, err := repo.InsertMovie(ctx, sampleMovie())
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := repo.GetMovie(ctx, id)
	require.NoError(t, err)

	want := sampleMovie()
	want.ID = id
	assert.Equal(t, want, *got)
}

func TestRepository_InsertMovie_InvalidRating(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB, db.Changes)

	m := sampleMovie()
	m.Rating = 11
	_, err := repo.InsertMovie(context.Background(), m)
	assert.ErrorIs(t, err, database.ErrInvalidRating)
}

func TestRepository_InsertMovies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB, db.Changes)
	ctx := context.Background()

	ids, err := repo.InsertMovies(ctx, []entities.Movie{{Title: "Dune"}, {Title: "Arrival"}})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	count, err := repo.CountMovies(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	ids, err = repo.InsertMovies(ctx, nil)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRepository_UpsertMovie(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB, db.Changes)
	ctx := context.Background()

	t.Run("zero ID inserts", func(t *testing.T) {
		id, err := repo.UpsertMovie(ctx, sampleMovie())
		require.NoError(t, err)
		assert.NotZero(t, id)
	})

	t.Run("round trip", func(t *testing.T) {
		m := sampleMovie()
		m.Title = "Arrival"
		id, err := repo.UpsertMovie(ctx, m)
		require.NoError(t, err)
		m.ID = id

		got, err := repo.GetMovie(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, m, *got)
	})

	t.Run("known ID replaces the row", func(t *testing.T) {
		id, err := repo.InsertMovie(ctx, sampleMovie())
		require.NoError(t, err)

		replacement := entities.Movie{ID: id, Title: "Blade Runner 2049", Year: 2017}
		gotID, err := repo.UpsertMovie(ctx, replacement)
		require.NoError(t, err)
		assert.Equal(t, id, gotID)

		got, err := repo.GetMovie(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, replacement, *got)
	})

	t.Run("unknown ID inserts with that ID", func(t *testing.T) {
		m := sampleMovie()
		m.ID = 9000
		id, err := repo.UpsertMovie(ctx, m)
		require.NoError(t, err)
		assert.Equal(t, uint(9000), id)

		got, err := repo.GetMovie(ctx, 9000)
		require.NoError(t, err)
		assert.Equal(t, m, *got)
	})

	t.Run("idempotent", func(t *testing.T) {
		m := sampleMovie()
		m.ID = 9100
		_, err := repo.UpsertMovie(ctx, m)
		require.NoError(t, err)
		_, err = repo.UpsertMovie(ctx, m)
		require.NoError(t, err)

		got, err := repo.GetMovie(ctx, 9100)
		require.NoError(t, err)
		assert.Equal(t, m, *got)

		all, err := repo.GetAllMovies(ctx)
		require.NoError(t, err)
		var matches int
		for _, movie := range all {
			if movie.ID == 9100 {
				matches++
			}
		}
		assert.Equal(t, 1, matches)
	})
}

func TestRepository_DeleteMovie(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB, db.Changes)
	ctx := context.Background()

	id, err := repo.InsertMovie(ctx, sampleMovie())
	require.NoError(t, err)

	genre := entities.Genre{Name: "Sci-Fi"}
	require.NoError(t, db.DB.Create(&genre).Error)
	require.NoError(t, db.DB.Create(&entities.MovieGenreCrossRef{MovieID: id, GenreID: genre.ID}).Error)

	require.NoError(t, repo.DeleteMovie(ctx, id))

	_, err = repo.GetMovie(ctx, id)
	assert.ErrorIs(t, err, database.ErrNotFound)

	var links int64
	require.NoError(t, db.DB.Model(&entities.MovieGenreCrossRef{}).Where("movie_id = ?", id).Count(&links).Error)
	assert.Zero(t, links, "cross refs should be removed with the movie")

	t.Run("unknown ID is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.DeleteMovie(ctx, 424242))
	})
}

func TestRepository_UpdateRating(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB, db.Changes)
	ctx := context.Background()

	id, err := repo.InsertMovie(ctx, sampleMovie())
	require.NoError(t, err)

	require.NoError(t, repo.UpdateRating(ctx, id, 3))

	got, err := repo.GetMovie(ctx, id)
	require.NoError(t, err)

	want := sampleMovie()
	want.ID = id
	want.Rating = 3
	assert.Equal(t, want, *got, "only the rating should change")

	t.Run("zero clears the rating", func(t *testing.T) {
		require.NoError(t, repo.UpdateRating(ctx, id, 0))
		got, err := repo.GetMovie(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Rating)
	})

	t.Run("out of range is rejected", func(t *testing.T) {
		assert.ErrorIs(t, repo.UpdateRating(ctx, id, -1), database.ErrInvalidRating)
		assert.ErrorIs(t, repo.UpdateRating(ctx, id, 11), database.ErrInvalidRating)
	})

	t.Run("unknown ID is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.UpdateRating(ctx, 424242, 5))
		_, err := repo.GetMovie(ctx, 424242)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestRepository_Listings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB, db.Changes)
	ctx := context.Background()

	_, err := repo.InsertMovies(ctx, []entities.Movie{
		{Title: "Dune", Watchlist: true},
		{Title: "arrival"},
		{Title: "Blade Runner", Watchlist: true},
		{Title: "100% Wolf"},
		{Title: "Dune_Part Two"},
	})
	require.NoError(t, err)

	titles := func(movies []entities.Movie) []string {
		out := make([]string, 0, len(movies))
		for _, m := range movies {
			out = append(out, m.Title)
		}
		return out
	}

	t.Run("all movies by id", func(t *testing.T) {
		all, err := repo.GetAllMovies(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Dune", "arrival", "Blade Runner", "100% Wolf", "Dune_Part Two"}, titles(all))
	})

	t.Run("ordered by title", func(t *testing.T) {
		all, err := repo.GetMoviesOrderedByTitle(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"100% Wolf", "arrival", "Blade Runner", "Dune", "Dune_Part Two"}, titles(all))
	})

	t.Run("watchlist", func(t *testing.T) {
		watchlist, err := repo.GetMoviesOnWatchlist(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Blade Runner", "Dune"}, titles(watchlist))
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		found, err := repo.SearchMoviesByTitle(ctx, "DUNE")
		require.NoError(t, err)
		assert.Equal(t, []string{"Dune", "Dune_Part Two"}, titles(found))
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		found, err := repo.SearchMoviesByTitle(ctx, "%")
		require.NoError(t, err)
		assert.Equal(t, []string{"100% Wolf"}, titles(found))

		found, err = repo.SearchMoviesByTitle(ctx, "_")
		require.NoError(t, err)
		assert.Equal(t, []string{"Dune_Part Two"}, titles(found))
	})

	t.Run("empty search matches everything", func(t *testing.T) {
		found, err := repo.SearchMoviesByTitle(ctx, "")
		require.NoError(t, err)
		assert.Len(t, found, 5)
	})
}

func TestRepository_MovieWithGenres(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB, db.Changes)
	ctx := context.Background()

	duneID, err := repo.InsertMovie(ctx, entities.Movie{Title: "Dune"})
	require.NoError(t, err)
	heatID, err := repo.InsertMovie(ctx, entities.Movie{Title: "Heat"})
	require.NoError(t, err)

	scifi := entities.Genre{Name: "Sci-Fi"}
	drama := entities.Genre{Name: "Drama"}
	require.NoError(t, db.DB.Create(&scifi).Error)
	require.NoError(t, db.DB.Create(&drama).Error)
	require.NoError(t, db.DB.Create(&[]entities.MovieGenreCrossRef{
		{MovieID: duneID, GenreID: scifi.ID},
		{MovieID: duneID, GenreID: drama.ID},
	}).Error)

	t.Run("single", func(t *testing.T) {
		got, err := repo.GetMovieWithGenres(ctx, duneID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", got.Movie.Title)
		assert.Equal(t, []entities.Genre{drama, scifi}, got.Genres)
	})

	t.Run("single without genres", func(t *testing.T) {
		got, err := repo.GetMovieWithGenres(ctx, heatID)
		require.NoError(t, err)
		assert.Empty(t, got.Genres)
		assert.NotNil(t, got.Genres)
	})

	t.Run("missing movie", func(t *testing.T) {
		_, err := repo.GetMovieWithGenres(ctx, 999)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("all", func(t *testing.T) {
		all, err := repo.GetMoviesWithGenres(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, duneID, all[0].Movie.ID)
		assert.Equal(t, []entities.Genre{drama, scifi}, all[0].Genres)
		assert.Equal(t, heatID, all[1].Movie.ID)
		assert.Empty(t, all[1].Genres)
	})
}

func TestRepository_WatchMoviesByTitle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB, db.Changes)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := repo.InsertMovie(ctx, entities.Movie{Title: "Dune"})
	require.NoError(t, err)

	updates := repo.WatchMoviesByTitle(ctx, "dune")

	next := func() MoviesUpdate {
		t.Helper()
		select {
		case u, ok := <-updates:
			require.True(t, ok, "channel closed unexpectedly")
			return u
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for update")
			return MoviesUpdate{}
		}
	}

	first := next()
	require.NoError(t, first.Err)
	assert.Len(t, first.Movies, 1)

	_, err = repo.InsertMovie(ctx, entities.Movie{Title: "Dune: Part Two"})
	require.NoError(t, err)

	second := next()
	require.NoError(t, second.Err)
	assert.Len(t, second.Movies, 2)

	cancel()
	select {
	case _, ok := <-updates:
		if ok {
			// A final in-flight emission may race with cancellation; the channel must still close.
			_, ok = <-updates
		}
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel was not closed after cancel")
	}
}
