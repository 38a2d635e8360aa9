package movies

import (
	"context"

	"github.com/mrlokans/mediatracker/internal/entities"
)

// MoviesUpdate is one emission of a live query.
type MoviesUpdate struct {
	Movies []entities.Movie
	Err    error
}

// WatchMoviesByTitle runs SearchMoviesByTitle immediately and again after
// every committed write to the movies table. The channel is closed once ctx
// is done. Without a change notifier it emits exactly once.
func (r *Repository) WatchMoviesByTitle(ctx context.Context, query string) <-chan MoviesUpdate {
	out := make(chan MoviesUpdate)

	var changes <-chan string
	unsubscribe := func() {}
	if r.changes != nil {
		changes, unsubscribe = r.changes.Subscribe(tableMovies)
	}

	go func() {
		defer close(out)
		defer unsubscribe()

		emit := func() bool {
			movies, err := r.SearchMoviesByTitle(ctx, query)
			if ctx.Err() != nil {
				return false
			}
			select {
			case out <- MoviesUpdate{Movies: movies, Err: err}:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}
