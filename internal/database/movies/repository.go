// Package movies provides database operations for movies.
//
// # Usage
//
//	repo := movies.NewRepository(db.DB, db.Changes)
//	id, err := repo.InsertMovie(ctx, entities.Movie{Title: "Dune"})
//	withGenres, err := repo.GetMovieWithGenres(ctx, id)
package movies

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/mediatracker/internal/database"
	"github.com/mrlokans/mediatracker/internal/entities"
)

var (
	tableMovies    = entities.Movie{}.TableName()
	tableCrossRefs = entities.MovieGenreCrossRef{}.TableName()
)

// Repository handles all movie database operations.
type Repository struct {
	db      *gorm.DB
	changes *database.ChangeNotifier
}

// NewRepository creates a new movies repository. changes may be nil.
func NewRepository(db *gorm.DB, changes *database.ChangeNotifier) *Repository {
	return &Repository{db: db, changes: changes}
}

// InsertMovie stores a new movie and returns its assigned ID.
func (r *Repository) InsertMovie(ctx context.Context, movie entities.Movie) (uint, error) {
	if err := entities.ValidateRating(movie.Rating); err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Create(&movie).Error; err != nil {
		return 0, database.Translate(err)
	}
	r.changes.Publish(tableMovies)
	return movie.ID, nil
}

// InsertMovies stores several new movies in one transaction and returns
// their IDs in input order.
func (r *Repository) InsertMovies(ctx context.Context, movies []entities.Movie) ([]uint, error) {
	if len(movies) == 0 {
		return nil, nil
	}
	for _, m := range movies {
		if err := entities.ValidateRating(m.Rating); err != nil {
			return nil, err
		}
	}

	batch := make([]entities.Movie, len(movies))
	copy(batch, movies)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&batch).Error
	})
	if err != nil {
		return nil, database.Translate(err)
	}
	r.changes.Publish(tableMovies)

	ids := make([]uint, len(batch))
	for i, m := range batch {
		ids[i] = m.ID
	}
	return ids, nil
}

// UpsertMovie inserts the movie when its ID is zero or unknown, otherwise
// replaces every column of the stored row. Returns the movie's ID.
func (r *Repository) UpsertMovie(ctx context.Context, movie entities.Movie) (uint, error) {
	if err := entities.ValidateRating(movie.Rating); err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Save(&movie).Error; err != nil {
		return 0, database.Translate(err)
	}
	r.changes.Publish(tableMovies)
	return movie.ID, nil
}

// DeleteMovie removes the movie and its genre links. Unknown IDs are a no-op.
func (r *Repository) DeleteMovie(ctx context.Context, id uint) error {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("movie_id = ?", id).Delete(&entities.MovieGenreCrossRef{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Movie{}, id)
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return database.Translate(err)
	}
	if deleted > 0 {
		r.changes.Publish(tableMovies, tableCrossRefs)
	}
	return nil
}

// UpdateRating sets only the rating column. Unknown IDs are a no-op.
func (r *Repository) UpdateRating(ctx context.Context, id uint, rating int) error {
	if err := entities.ValidateRating(rating); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&entities.Movie{}).Where("id = ?", id).Update("rating", rating)
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected > 0 {
		r.changes.Publish(tableMovies)
	}
	return nil
}

// GetMovie retrieves a movie by ID, or database.ErrNotFound.
func (r *Repository) GetMovie(ctx context.Context, id uint) (*entities.Movie, error) {
	var movie entities.Movie
	if err := r.db.WithContext(ctx).First(&movie, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &movie, nil
}

// GetAllMovies returns every movie ordered by ID.
func (r *Repository) GetAllMovies(ctx context.Context) ([]entities.Movie, error) {
	var movies []entities.Movie
	err := r.db.WithContext(ctx).Order("id ASC").Find(&movies).Error
	return movies, database.Translate(err)
}

// GetMoviesOrderedByTitle returns every movie ordered by title.
func (r *Repository) GetMoviesOrderedByTitle(ctx context.Context) ([]entities.Movie, error) {
	var movies []entities.Movie
	err := r.db.WithContext(ctx).Order("title COLLATE NOCASE ASC, id ASC").Find(&movies).Error
	return movies, database.Translate(err)
}

// GetMoviesOnWatchlist returns movies flagged for the watchlist.
func (r *Repository) GetMoviesOnWatchlist(ctx context.Context) ([]entities.Movie, error) {
	var movies []entities.Movie
	err := r.db.WithContext(ctx).Where("watchlist = ?", true).Order("title COLLATE NOCASE ASC, id ASC").Find(&movies).Error
	return movies, database.Translate(err)
}

// SearchMoviesByTitle returns movies whose title contains query
// (case-insensitive). An empty query matches every movie.
func (r *Repository) SearchMoviesByTitle(ctx context.Context, query string) ([]entities.Movie, error) {
	var movies []entities.Movie
	pattern := "%" + escapeLike(query) + "%"
	err := r.db.WithContext(ctx).
		Where(`LOWER(title) LIKE LOWER(?) ESCAPE '\'`, pattern).
		Order("title COLLATE NOCASE ASC, id ASC").
		Find(&movies).Error
	return movies, database.Translate(err)
}

// CountMovies returns the number of stored movies.
func (r *Repository) CountMovies(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Movie{}).Count(&count).Error
	return count, database.Translate(err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
