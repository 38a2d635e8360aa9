package viewstate

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// runSearch turns SearchText updates into title queries: it waits for the
// debounce period, skips text equal to the last queried text, and cancels
// the live query for older text before starting a new one.
func (h *Holder) runSearch(ctx context.Context) {
	input, unsubscribe := h.SearchText.Subscribe()
	defer unsubscribe()

	timer := time.NewTimer(h.debounce)
	stopTimer(timer)
	defer timer.Stop()

	var (
		fire    <-chan time.Time
		pending string
		last    string
		queried bool
	)
	cancelQuery := func() {}
	defer func() { cancelQuery() }()

	for {
		select {
		case <-ctx.Done():
			return

		case text, ok := <-input:
			if !ok {
				return
			}
			pending = text
			stopTimer(timer)
			timer.Reset(h.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if queried && pending == last {
				continue
			}
			queried, last = true, pending

			cancelQuery()
			var queryCtx context.Context
			queryCtx, cancelQuery = context.WithCancel(ctx)
			ticket := h.SearchResults.begin()
			log.Debug().Str("query", pending).Uint64("ticket", ticket).Msg("title search")
			h.watchSearch(queryCtx, ticket, pending)
		}
	}
}

// watchSearch forwards every emission of the live query into SearchResults
// while ticket is still the latest search.
func (h *Holder) watchSearch(ctx context.Context, ticket uint64, query string) {
	updates := h.store.WatchMoviesByTitle(ctx, query)

	h.workers.Add(1)
	go func() {
		defer h.workers.Done()
		for update := range updates {
			if ctx.Err() != nil {
				continue
			}
			h.SearchResults.publishLatest(ticket, SearchResult{Query: query, Movies: update.Movies}, update.Err)
		}
	}()
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
