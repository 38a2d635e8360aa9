package movies

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/mediatracker/internal/database"
	"github.com/mrlokans/mediatracker/internal/entities"
)

// movieGenreRow is one genre joined with the movie it is linked to.
type movieGenreRow struct {
	MovieID uint
	ID      uint
	Name    string
}

// GetMovieWithGenres reads a movie and its genres in one transaction.
func (r *Repository) GetMovieWithGenres(ctx context.Context, id uint) (*entities.MovieWithGenres, error) {
	var result entities.MovieWithGenres
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&result.Movie, id).Error; err != nil {
			return err
		}
		result.Genres = []entities.Genre{}
		return tx.Model(&entities.Genre{}).
			Joins("JOIN movie_genre_cross_refs x ON x.genre_id = genres.id").
			Where("x.movie_id = ?", id).
			Order("genres.name ASC, genres.id ASC").
			Find(&result.Genres).Error
	})
	if err != nil {
		return nil, database.Translate(err)
	}
	return &result, nil
}

// GetMoviesWithGenres reads every movie with its genres in one transaction.
func (r *Repository) GetMoviesWithGenres(ctx context.Context) ([]entities.MovieWithGenres, error) {
	var movies []entities.Movie
	var rows []movieGenreRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id ASC").Find(&movies).Error; err != nil {
			return err
		}
		return tx.Table("movie_genre_cross_refs x").
			Select("x.movie_id, genres.id, genres.name").
			Joins("JOIN genres ON genres.id = x.genre_id").
			Order("genres.name ASC, genres.id ASC").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, database.Translate(err)
	}

	byMovie := make(map[uint][]entities.Genre, len(movies))
	for _, row := range rows {
		byMovie[row.MovieID] = append(byMovie[row.MovieID], entities.Genre{ID: row.ID, Name: row.Name})
	}

	result := make([]entities.MovieWithGenres, 0, len(movies))
	for _, m := range movies {
		genres := byMovie[m.ID]
		if genres == nil {
			genres = []entities.Genre{}
		}
		result = append(result, entities.MovieWithGenres{Movie: m, Genres: genres})
	}
	return result, nil
}
