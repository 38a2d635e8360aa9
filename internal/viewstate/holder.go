// Package viewstate holds the observable state behind a catalog screen:
// loading flags, the current search text, and one data/error slot pair per
// query result. Intents run asynchronously against a Store and publish
// their results back into the slots.
package viewstate

import (
	"context"
	"sync"
	"time"

	"github.com/mrlokans/mediatracker/internal/database/movies"
	"github.com/mrlokans/mediatracker/internal/entities"
)

// DefaultDebounce is the quiet period after the last SetSearch before the
// title search runs.
const DefaultDebounce = 300 * time.Millisecond

// Store is the subset of the catalog repository the holder drives.
type Store interface {
	GetAllMovies(ctx context.Context) ([]entities.Movie, error)
	GetMoviesOnWatchlist(ctx context.Context) ([]entities.Movie, error)
	GetMovieWithGenres(ctx context.Context, id uint) (*entities.MovieWithGenres, error)
	UpsertMovie(ctx context.Context, movie entities.Movie) (uint, error)
	DeleteMovie(ctx context.Context, id uint) error
	UpdateRating(ctx context.Context, id uint, rating int) error
	AddGenreWithMovie(ctx context.Context, genre entities.Genre, movieID uint) (*entities.Genre, error)
	UpsertMovieGenreCrossRef(ctx context.Context, ref entities.MovieGenreCrossRef) error
	GetGenres(ctx context.Context) ([]entities.Genre, error)
	GetGenresWithMovies(ctx context.Context) ([]entities.GenreWithMovies, error)
	GetGenreWithMovies(ctx context.Context, id uint) (*entities.GenreWithMovies, error)
	WatchMoviesByTitle(ctx context.Context, query string) <-chan movies.MoviesUpdate
}

// SearchResult is the published outcome of a title search.
type SearchResult struct {
	Query  string
	Movies []entities.Movie
}

type Options struct {
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
}

type Holder struct {
	// Loading tracks the main entry/list fetches; LoadingAnother tracks
	// independent fetches such as the genre picker.
	Loading        *Flag
	LoadingAnother *Flag

	SearchText *Slot[string]

	Movies           *Resource[[]entities.Movie]
	MovieWithGenres  *Resource[entities.MovieWithGenres]
	Genres           *Resource[[]entities.Genre]
	GenresWithMovies *Resource[[]entities.GenreWithMovies]
	GenreWithMovies  *Resource[entities.GenreWithMovies]
	SearchResults    *Resource[SearchResult]

	// SavedMovieID is the ID returned by the last successful UpsertMovie.
	SavedMovieID *Slot[uint]
	// MutationErr is the error of the last failed write, nil after a
	// successful one.
	MutationErr *Slot[error]

	store    Store
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	intents sync.WaitGroup
	workers sync.WaitGroup
}

// New creates a holder whose lifetime ends when parent is cancelled or
// Close is called, and starts its title search pipeline.
func New(parent context.Context, store Store, opts Options) *Holder {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(parent)

	h := &Holder{
		Loading:          newFlag(),
		LoadingAnother:   newFlag(),
		SearchText:       NewSlot(""),
		Movies:           newResource[[]entities.Movie](nil),
		MovieWithGenres:  newResource(emptyMovieWithGenres()),
		Genres:           newResource[[]entities.Genre](nil),
		GenresWithMovies: newResource[[]entities.GenreWithMovies](nil),
		GenreWithMovies:  newResource(entities.GenreWithMovies{Movies: []entities.Movie{}}),
		SearchResults:    newResource(SearchResult{}),
		SavedMovieID:     NewSlot[uint](0),
		MutationErr:      NewSlot[error](nil),
		store:            store,
		debounce:         opts.Debounce,
		ctx:              ctx,
		cancel:           cancel,
	}

	h.workers.Add(1)
	go func() {
		defer h.workers.Done()
		h.runSearch(ctx)
	}()

	return h
}

// Close cancels every in-flight operation and waits for them to finish.
// Nothing is published after Close returns.
func (h *Holder) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	h.cancel()
	h.intents.Wait()
	h.workers.Wait()
}

// Wait blocks until every intent issued so far has finished. It must not
// race with issuing new intents.
func (h *Holder) Wait() {
	h.intents.Wait()
}

// spawn runs fn as an intent unless the holder is closed.
func (h *Holder) spawn(fn func(ctx context.Context)) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.ctx.Err() != nil {
		return false
	}
	h.intents.Add(1)
	go func() {
		defer h.intents.Done()
		fn(h.ctx)
	}()
	return true
}

// fetch runs call with flag raised and publishes its result into res.
// The flag is lowered on every outcome, cancellation included.
func fetch[T any](h *Holder, flag *Flag, res *Resource[T], call func(ctx context.Context) (T, error)) {
	ticket := res.begin()
	flag.inc()
	ok := h.spawn(func(ctx context.Context) {
		defer flag.dec()
		v, err := call(ctx)
		if ctx.Err() != nil {
			return
		}
		res.publish(ticket, v, err)
	})
	if !ok {
		flag.dec()
	}
}

// mutate runs a write with flag raised and reports its error in MutationErr.
// then, if given, runs after a successful write within the same intent.
func (h *Holder) mutate(flag *Flag, write func(ctx context.Context) error, then func(ctx context.Context)) {
	flag.inc()
	ok := h.spawn(func(ctx context.Context) {
		defer flag.dec()
		err := write(ctx)
		if ctx.Err() != nil {
			return
		}
		h.MutationErr.Set(err)
		if err == nil && then != nil {
			then(ctx)
		}
	})
	if !ok {
		flag.dec()
	}
}

func emptyMovieWithGenres() entities.MovieWithGenres {
	return entities.MovieWithGenres{Genres: []entities.Genre{}}
}
