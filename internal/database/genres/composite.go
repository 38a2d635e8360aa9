package genres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/mediatracker/internal/database"
	"github.com/mrlokans/mediatracker/internal/entities"
)

// genreMovieRow is one movie joined with the genre it is linked to.
type genreMovieRow struct {
	GenreID uint
	entities.Movie
}

// GetGenreWithMovies reads a genre and its movies in one transaction.
func (r *Repository) GetGenreWithMovies(ctx context.Context, id uint) (*entities.GenreWithMovies, error) {
	var result entities.GenreWithMovies
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&result.Genre, id).Error; err != nil {
			return err
		}
		result.Movies = []entities.Movie{}
		return tx.Model(&entities.Movie{}).
			Joins("JOIN movie_genre_cross_refs x ON x.movie_id = movies.id").
			Where("x.genre_id = ?", id).
			Order("movies.title COLLATE NOCASE ASC, movies.id ASC").
			Find(&result.Movies).Error
	})
	if err != nil {
		return nil, database.Translate(err)
	}
	return &result, nil
}

// GetGenresWithMovies reads every genre with its movies in one transaction.
func (r *Repository) GetGenresWithMovies(ctx context.Context) ([]entities.GenreWithMovies, error) {
	var genres []entities.Genre
	var rows []genreMovieRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("name COLLATE NOCASE ASC, id ASC").Find(&genres).Error; err != nil {
			return err
		}
		return tx.Table("movie_genre_cross_refs x").
			Select("x.genre_id, movies.*").
			Joins("JOIN movies ON movies.id = x.movie_id").
			Order("movies.title COLLATE NOCASE ASC, movies.id ASC").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, database.Translate(err)
	}

	byGenre := make(map[uint][]entities.Movie, len(genres))
	for _, row := range rows {
		byGenre[row.GenreID] = append(byGenre[row.GenreID], row.Movie)
	}

	result := make([]entities.GenreWithMovies, 0, len(genres))
	for _, g := range genres {
		movies := byGenre[g.ID]
		if movies == nil {
			movies = []entities.Movie{}
		}
		result = append(result, entities.GenreWithMovies{Genre: g, Movies: movies})
	}
	return result, nil
}
