package entities

import (
	"errors"
	"fmt"
)

const (
	MinRating = 0
	MaxRating = 10
)

// ErrInvalidRating is returned when a rating falls outside MinRating..MaxRating.
var ErrInvalidRating = errors.New("invalid rating")

// Movie is a catalog entry. A zero ID means the movie has not been persisted yet.
type Movie struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Poster      string `gorm:"size:1024" json:"poster"` // path to a poster image, stored verbatim
	Title       string `gorm:"index;size:512" json:"title"`
	Year        int    `json:"year"`
	Director    string `gorm:"size:256" json:"director"`
	Body        string `gorm:"type:text" json:"body"`
	Runtime     int    `json:"runtime"` // minutes
	Tagline     string `gorm:"size:512" json:"tagline"`
	Rating      int    `json:"rating"` // 0 = unrated
	Note        string `gorm:"type:text" json:"note"`
	OwnPhysical bool   `json:"own_physical"`
	OwnDigital  bool   `json:"own_digital"`
	Watchlist   bool   `gorm:"index" json:"watchlist"`
	Completed   bool   `json:"completed"`
}

func (Movie) TableName() string {
	return "movies"
}

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"index;size:100" json:"name"`
}

func (Genre) TableName() string {
	return "genres"
}

// MovieGenreCrossRef links a movie to a genre. The pair is the primary key.
type MovieGenreCrossRef struct {
	MovieID uint `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	GenreID uint `gorm:"primaryKey;autoIncrement:false;index" json:"genre_id"`
}

func (MovieGenreCrossRef) TableName() string {
	return "movie_genre_cross_refs"
}

// MovieWithGenres is a read-only composite of a movie and its genres.
type MovieWithGenres struct {
	Movie  Movie   `json:"movie"`
	Genres []Genre `json:"genres"`
}

// GenreWithMovies is a read-only composite of a genre and its movies.
type GenreWithMovies struct {
	Genre  Genre   `json:"genre"`
	Movies []Movie `json:"movies"`
}

// ValidateRating checks that r is within the accepted rating range.
func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidRating, r, MinRating, MaxRating)
	}
	return nil
}
