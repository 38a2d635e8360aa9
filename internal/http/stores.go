package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/mediatracker/internal/entities"
)

// Each controller depends only on the methods it calls. The catalog
// repository satisfies MovieStore and GenreStore; the task client
// satisfies TaskQueue.

// MovieStore is the movie side of the catalog.
type MovieStore interface {
	InsertMovie(ctx context.Context, movie entities.Movie) (uint, error)
	UpsertMovie(ctx context.Context, movie entities.Movie) (uint, error)
	DeleteMovie(ctx context.Context, id uint) error
	UpdateRating(ctx context.Context, id uint, rating int) error
	GetMovie(ctx context.Context, id uint) (*entities.Movie, error)
	GetAllMovies(ctx context.Context) ([]entities.Movie, error)
	GetMoviesOrderedByTitle(ctx context.Context) ([]entities.Movie, error)
	GetMoviesOnWatchlist(ctx context.Context) ([]entities.Movie, error)
	SearchMoviesByTitle(ctx context.Context, query string) ([]entities.Movie, error)
	GetMovieWithGenres(ctx context.Context, id uint) (*entities.MovieWithGenres, error)
	GetMoviesWithGenres(ctx context.Context) ([]entities.MovieWithGenres, error)

	LinkMovieGenre(ctx context.Context, ref entities.MovieGenreCrossRef) (*entities.Genre, error)
	RemoveMovieGenreCrossRef(ctx context.Context, ref entities.MovieGenreCrossRef) error
	AddGenreWithMovie(ctx context.Context, genre entities.Genre, movieID uint) (*entities.Genre, error)
}

// GenreStore is the genre side of the catalog.
type GenreStore interface {
	UpsertGenre(ctx context.Context, genre entities.Genre) (uint, error)
	GetGenre(ctx context.Context, id uint) (*entities.Genre, error)
	GetGenres(ctx context.Context) ([]entities.Genre, error)
	DeleteGenre(ctx context.Context, id uint) error
	GetGenreWithMovies(ctx context.Context, id uint) (*entities.GenreWithMovies, error)
	GetGenresWithMovies(ctx context.Context) ([]entities.GenreWithMovies, error)
}

// DeleteRecorder audits deletions.
type DeleteRecorder interface {
	LogDelete(entityType string, entityID uint, entityName string)
}

// Auditor is everything the router needs from the audit service.
type Auditor interface {
	DeleteRecorder
	CatalogRecorder
	AuditReader
}

// TaskQueue enqueues background tasks and reports their status.
type TaskQueue interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
