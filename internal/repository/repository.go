// Package repository exposes the catalog's storage operations behind one
// type. Every method forwards to exactly one movies or genres repository
// method and returns its result unchanged.
package repository

import (
	"context"

	"github.com/mrlokans/mediatracker/internal/database"
	"github.com/mrlokans/mediatracker/internal/database/genres"
	"github.com/mrlokans/mediatracker/internal/database/movies"
	"github.com/mrlokans/mediatracker/internal/entities"
)

type Repository struct {
	movies *movies.Repository
	genres *genres.Repository
}

func New(db *database.Database) *Repository {
	return &Repository{
		movies: movies.NewRepository(db.DB, db.Changes),
		genres: genres.NewRepository(db.DB, db.Changes),
	}
}

// Movies

func (r *Repository) InsertMovie(ctx context.Context, movie entities.Movie) (uint, error) {
	return r.movies.InsertMovie(ctx, movie)
}

func (r *Repository) InsertMovies(ctx context.Context, ms []entities.Movie) ([]uint, error) {
	return r.movies.InsertMovies(ctx, ms)
}

func (r *Repository) UpsertMovie(ctx context.Context, movie entities.Movie) (uint, error) {
	return r.movies.UpsertMovie(ctx, movie)
}

func (r *Repository) DeleteMovie(ctx context.Context, id uint) error {
	return r.movies.DeleteMovie(ctx, id)
}

func (r *Repository) UpdateRating(ctx context.Context, id uint, rating int) error {
	return r.movies.UpdateRating(ctx, id, rating)
}

func (r *Repository) GetMovie(ctx context.Context, id uint) (*entities.Movie, error) {
	return r.movies.GetMovie(ctx, id)
}

func (r *Repository) GetAllMovies(ctx context.Context) ([]entities.Movie, error) {
	return r.movies.GetAllMovies(ctx)
}

func (r *Repository) GetMoviesOrderedByTitle(ctx context.Context) ([]entities.Movie, error) {
	return r.movies.GetMoviesOrderedByTitle(ctx)
}

func (r *Repository) GetMoviesOnWatchlist(ctx context.Context) ([]entities.Movie, error) {
	return r.movies.GetMoviesOnWatchlist(ctx)
}

func (r *Repository) SearchMoviesByTitle(ctx context.Context, query string) ([]entities.Movie, error) {
	return r.movies.SearchMoviesByTitle(ctx, query)
}

func (r *Repository) WatchMoviesByTitle(ctx context.Context, query string) <-chan movies.MoviesUpdate {
	return r.movies.WatchMoviesByTitle(ctx, query)
}

func (r *Repository) CountMovies(ctx context.Context) (int64, error) {
	return r.movies.CountMovies(ctx)
}

func (r *Repository) GetMovieWithGenres(ctx context.Context, id uint) (*entities.MovieWithGenres, error) {
	return r.movies.GetMovieWithGenres(ctx, id)
}

func (r *Repository) GetMoviesWithGenres(ctx context.Context) ([]entities.MovieWithGenres, error) {
	return r.movies.GetMoviesWithGenres(ctx)
}

// Genres

func (r *Repository) UpsertGenre(ctx context.Context, genre entities.Genre) (uint, error) {
	return r.genres.UpsertGenre(ctx, genre)
}

func (r *Repository) GetGenre(ctx context.Context, id uint) (*entities.Genre, error) {
	return r.genres.GetGenre(ctx, id)
}

func (r *Repository) GetGenres(ctx context.Context) ([]entities.Genre, error) {
	return r.genres.GetGenres(ctx)
}

func (r *Repository) UpsertMovieGenreCrossRef(ctx context.Context, ref entities.MovieGenreCrossRef) error {
	return r.genres.UpsertMovieGenreCrossRef(ctx, ref)
}

func (r *Repository) LinkMovieGenre(ctx context.Context, ref entities.MovieGenreCrossRef) (*entities.Genre, error) {
	return r.genres.LinkMovieGenre(ctx, ref)
}

func (r *Repository) RemoveMovieGenreCrossRef(ctx context.Context, ref entities.MovieGenreCrossRef) error {
	return r.genres.RemoveMovieGenreCrossRef(ctx, ref)
}

func (r *Repository) AddGenreWithMovie(ctx context.Context, genre entities.Genre, movieID uint) (*entities.Genre, error) {
	return r.genres.AddGenreWithMovie(ctx, genre, movieID)
}

func (r *Repository) DeleteGenre(ctx context.Context, id uint) error {
	return r.genres.DeleteGenre(ctx, id)
}

func (r *Repository) DeleteOrphanGenres(ctx context.Context) (int64, error) {
	return r.genres.DeleteOrphanGenres(ctx)
}

func (r *Repository) GetGenreWithMovies(ctx context.Context, id uint) (*entities.GenreWithMovies, error) {
	return r.genres.GetGenreWithMovies(ctx, id)
}

func (r *Repository) GetGenresWithMovies(ctx context.Context) ([]entities.GenreWithMovies, error) {
	return r.genres.GetGenresWithMovies(ctx)
}
