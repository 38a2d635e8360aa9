package viewstate

import (
	"context"

	"github.com/mrlokans/mediatracker/internal/entities"
)

// NewEntryID is the movie ID a screen passes when it starts adding a movie.
const NewEntryID uint = 0

func (h *Holder) GetAllMovies() {
	fetch(h, h.Loading, h.Movies, h.store.GetAllMovies)
}

func (h *Holder) GetMoviesOnWatchlist() {
	fetch(h, h.Loading, h.Movies, h.store.GetMoviesOnWatchlist)
}

// GetMovieWithGenres loads one movie with its genres. NewEntryID publishes
// an empty movie without touching storage.
func (h *Holder) GetMovieWithGenres(id uint) {
	if id == NewEntryID {
		ticket := h.MovieWithGenres.begin()
		h.mu.Lock()
		closed := h.closed
		h.mu.Unlock()
		if !closed {
			h.MovieWithGenres.publish(ticket, emptyMovieWithGenres(), nil)
		}
		return
	}
	fetch(h, h.Loading, h.MovieWithGenres, h.movieWithGenres(id))
}

func (h *Holder) UpsertMovie(movie entities.Movie) {
	h.mutate(h.Loading, func(ctx context.Context) error {
		id, err := h.store.UpsertMovie(ctx, movie)
		if err == nil {
			h.SavedMovieID.Set(id)
		}
		return err
	}, nil)
}

func (h *Holder) DeleteMovie(id uint) {
	h.mutate(h.Loading, func(ctx context.Context) error {
		return h.store.DeleteMovie(ctx, id)
	}, nil)
}

// UpdateRating writes the rating and then republishes the movie with its
// genres.
func (h *Holder) UpdateRating(id uint, rating int) {
	ticket := h.MovieWithGenres.begin()
	h.mutate(h.Loading, func(ctx context.Context) error {
		return h.store.UpdateRating(ctx, id, rating)
	}, h.refreshMovieWithGenres(ticket, id))
}

// AddGenreWithMovie tags the movie with the genre and then republishes the
// movie with its genres.
func (h *Holder) AddGenreWithMovie(genre entities.Genre, movieID uint) {
	ticket := h.MovieWithGenres.begin()
	h.mutate(h.Loading, func(ctx context.Context) error {
		_, err := h.store.AddGenreWithMovie(ctx, genre, movieID)
		return err
	}, h.refreshMovieWithGenres(ticket, movieID))
}

func (h *Holder) UpsertMovieGenreCrossRef(ref entities.MovieGenreCrossRef) {
	h.mutate(h.Loading, func(ctx context.Context) error {
		return h.store.UpsertMovieGenreCrossRef(ctx, ref)
	}, nil)
}

func (h *Holder) GetGenres() {
	fetch(h, h.LoadingAnother, h.Genres, h.store.GetGenres)
}

func (h *Holder) GetGenresWithMovies() {
	fetch(h, h.LoadingAnother, h.GenresWithMovies, h.store.GetGenresWithMovies)
}

func (h *Holder) GetGenreWithMovies(id uint) {
	fetch(h, h.Loading, h.GenreWithMovies, func(ctx context.Context) (entities.GenreWithMovies, error) {
		g, err := h.store.GetGenreWithMovies(ctx, id)
		if err != nil {
			return entities.GenreWithMovies{}, err
		}
		return *g, nil
	})
}

// SetSearch updates the search text. The title search runs once the text
// has been stable for the debounce period.
func (h *Holder) SetSearch(text string) {
	h.SearchText.Set(text)
}

func (h *Holder) movieWithGenres(id uint) func(ctx context.Context) (entities.MovieWithGenres, error) {
	return func(ctx context.Context) (entities.MovieWithGenres, error) {
		m, err := h.store.GetMovieWithGenres(ctx, id)
		if err != nil {
			return entities.MovieWithGenres{}, err
		}
		return *m, nil
	}
}

func (h *Holder) refreshMovieWithGenres(ticket uint64, id uint) func(ctx context.Context) {
	return func(ctx context.Context) {
		v, err := h.movieWithGenres(id)(ctx)
		if ctx.Err() != nil {
			return
		}
		h.MovieWithGenres.publish(ticket, v, err)
	}
}
