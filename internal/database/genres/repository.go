// Package genres provides database operations for genres and the links
// between movies and genres.
//
// # Usage
//
//	repo := genres.NewRepository(db.DB, db.Changes)
//	genre, err := repo.AddGenreWithMovie(ctx, entities.Genre{Name: "Sci-Fi"}, movieID)
package genres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/mediatracker/internal/database"
	"github.com/mrlokans/mediatracker/internal/entities"
)

var (
	tableGenres    = entities.Genre{}.TableName()
	tableCrossRefs = entities.MovieGenreCrossRef{}.TableName()
)

var (
	// ErrMovieNotFound and ErrGenreNotFound say which side of a link is
	// missing. Both match database.ErrNotFound.
	ErrMovieNotFound = fmt.Errorf("movie %w", database.ErrNotFound)
	ErrGenreNotFound = fmt.Errorf("genre %w", database.ErrNotFound)
)

// Repository handles all genre database operations.
type Repository struct {
	db      *gorm.DB
	changes *database.ChangeNotifier
}

// NewRepository creates a new genres repository. changes may be nil.
func NewRepository(db *gorm.DB, changes *database.ChangeNotifier) *Repository {
	return &Repository{db: db, changes: changes}
}

// UpsertGenre inserts the genre when its ID is zero or unknown, otherwise
// replaces the stored row. Returns the genre's ID.
func (r *Repository) UpsertGenre(ctx context.Context, genre entities.Genre) (uint, error) {
	genre.Name = strings.TrimSpace(genre.Name)
	if err := r.db.WithContext(ctx).Save(&genre).Error; err != nil {
		return 0, database.Translate(err)
	}
	r.changes.Publish(tableGenres)
	return genre.ID, nil
}

// GetGenre retrieves a genre by ID, or database.ErrNotFound.
func (r *Repository) GetGenre(ctx context.Context, id uint) (*entities.Genre, error) {
	var genre entities.Genre
	if err := r.db.WithContext(ctx).First(&genre, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &genre, nil
}

// GetGenres returns every genre ordered by name.
func (r *Repository) GetGenres(ctx context.Context) ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.WithContext(ctx).Order("name COLLATE NOCASE ASC, id ASC").Find(&genres).Error
	return genres, database.Translate(err)
}

// UpsertMovieGenreCrossRef links a movie to a genre. Linking an already
// linked pair is a no-op.
func (r *Repository) UpsertMovieGenreCrossRef(ctx context.Context, ref entities.MovieGenreCrossRef) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&ref)
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected > 0 {
		r.changes.Publish(tableCrossRefs)
	}
	return nil
}

// LinkMovieGenre links an existing movie to an existing genre in a single
// transaction, so a concurrent delete of either cannot leave a dangling link.
// Fails with ErrMovieNotFound or ErrGenreNotFound; linking an already linked
// pair is a no-op. Returns the linked genre.
func (r *Repository) LinkMovieGenre(ctx context.Context, ref entities.MovieGenreCrossRef) (*entities.Genre, error) {
	var genre entities.Genre
	var linked int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var movie entities.Movie
		if err := tx.Select("id").First(&movie, ref.MovieID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrMovieNotFound
			}
			return err
		}
		if err := tx.First(&genre, ref.GenreID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrGenreNotFound
			}
			return err
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ref)
		linked = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return nil, database.Translate(err)
	}

	if linked > 0 {
		r.changes.Publish(tableCrossRefs)
	}
	return &genre, nil
}

// RemoveMovieGenreCrossRef unlinks a movie from a genre. Unknown pairs are
// a no-op.
func (r *Repository) RemoveMovieGenreCrossRef(ctx context.Context, ref entities.MovieGenreCrossRef) error {
	result := r.db.WithContext(ctx).
		Where("movie_id = ? AND genre_id = ?", ref.MovieID, ref.GenreID).
		Delete(&entities.MovieGenreCrossRef{})
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected > 0 {
		r.changes.Publish(tableCrossRefs)
	}
	return nil
}

// AddGenreWithMovie upserts the genre and links it to the movie in a single
// transaction. A genre without an ID reuses an existing genre with the same
// name (case-insensitive). Fails with database.ErrNotFound, leaving nothing
// behind, when the movie does not exist.
func (r *Repository) AddGenreWithMovie(ctx context.Context, genre entities.Genre, movieID uint) (*entities.Genre, error) {
	genre.Name = strings.TrimSpace(genre.Name)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var movie entities.Movie
		if err := tx.Select("id").First(&movie, movieID).Error; err != nil {
			return err
		}

		if genre.ID == 0 {
			var existing entities.Genre
			err := tx.Where("LOWER(name) = LOWER(?)", genre.Name).Order("id ASC").First(&existing).Error
			switch {
			case err == nil:
				genre = existing
			case err != gorm.ErrRecordNotFound:
				return err
			}
		}
		if genre.ID == 0 {
			if err := tx.Create(&genre).Error; err != nil {
				return err
			}
		} else if err := tx.Save(&genre).Error; err != nil {
			return err
		}

		ref := entities.MovieGenreCrossRef{MovieID: movieID, GenreID: genre.ID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ref).Error
	})
	if err != nil {
		return nil, database.Translate(err)
	}

	r.changes.Publish(tableGenres, tableCrossRefs)
	return &genre, nil
}

// DeleteGenre removes the genre and its movie links. Unknown IDs are a no-op.
func (r *Repository) DeleteGenre(ctx context.Context, id uint) error {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("genre_id = ?", id).Delete(&entities.MovieGenreCrossRef{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Genre{}, id)
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return database.Translate(err)
	}
	if deleted > 0 {
		r.changes.Publish(tableGenres, tableCrossRefs)
	}
	return nil
}

// DeleteOrphanGenres removes every genre that is linked to no movie, along
// with links that point at movies which no longer exist.
func (r *Repository) DeleteOrphanGenres(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			DELETE FROM movie_genre_cross_refs
			WHERE movie_id NOT IN (SELECT id FROM movies)
			OR genre_id NOT IN (SELECT id FROM genres)
		`).Error; err != nil {
			return err
		}
		result := tx.Exec(`
			DELETE FROM genres
			WHERE id NOT IN (SELECT genre_id FROM movie_genre_cross_refs)
		`)
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, database.Translate(err)
	}
	if deleted > 0 {
		r.changes.Publish(tableGenres, tableCrossRefs)
	}
	return deleted, nil
}
