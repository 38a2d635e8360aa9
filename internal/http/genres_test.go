package http

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mediatracker/internal/entities"
	"github.com/mrlokans/mediatracker/internal/tasks"
)

type taskAccepted struct {
	Data struct {
		TaskID string `json:"task_id"`
	} `json:"data"`
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestGenresController_CRUD(t *testing.T) {
	env := setupTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/genres", nil)
	assert.Equal(t, "[]", w.Body.String())

	w = env.do(t, http.MethodPost, "/api/genres", map[string]string{"name": "Thriller"})
	require.Equal(t, http.StatusCreated, w.Code)
	thriller := decode[entities.Genre](t, w)
	assert.NotZero(t, thriller.ID)

	w = env.do(t, http.MethodPost, "/api/genres", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	movieID := env.seedMovie(t, entities.Movie{Title: "Heat"})
	require.NoError(t, env.repo.UpsertMovieGenreCrossRef(context.Background(), entities.MovieGenreCrossRef{MovieID: movieID, GenreID: thriller.ID}))

	w = env.do(t, http.MethodGet, "/api/genres/"+itoa(thriller.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	withMovies := decode[entities.GenreWithMovies](t, w)
	require.Len(t, withMovies.Movies, 1)
	assert.Equal(t, "Heat", withMovies.Movies[0].Title)

	w = env.do(t, http.MethodGet, "/api/genres/with-movies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]entities.GenreWithMovies](t, w), 1)

	w = env.do(t, http.MethodDelete, "/api/genres/"+itoa(thriller.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/genres/"+itoa(thriller.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	movie, err := env.repo.GetMovieWithGenres(context.Background(), movieID)
	require.NoError(t, err)
	assert.Empty(t, movie.Genres)

	w = env.do(t, http.MethodDelete, "/api/genres/"+itoa(thriller.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenresController_Cleanup(t *testing.T) {
	t.Run("requires task queue", func(t *testing.T) {
		env := setupTestEnv(t, nil)
		w := env.do(t, http.MethodPost, "/api/genres/cleanup", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("enqueues and runs cleanup", func(t *testing.T) {
		cfg := tasks.DefaultConfig()
		cfg.Workers = 1
		client, err := tasks.NewClient(filepath.Join(t.TempDir(), "queue.db"), cfg)
		require.NoError(t, err)
		defer client.Close()

		env := setupTestEnv(t, func(rc *RouterConfig) { rc.TaskQueue = client })
		client.Register(tasks.NewCleanupOrphanGenresQueue(env.repo, env.audit))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go client.Start(ctx)
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer stopCancel()
			client.Stop(stopCtx)
		}()

		_, err = env.repo.UpsertGenre(context.Background(), entities.Genre{Name: "Orphan"})
		require.NoError(t, err)

		w := env.do(t, http.MethodPost, "/api/genres/cleanup", nil)
		require.Equal(t, http.StatusAccepted, w.Code)

		resp := decode[taskAccepted](t, w)
		require.NotEmpty(t, resp.Data.TaskID)

		assert.Eventually(t, func() bool {
			w := env.do(t, http.MethodGet, "/api/tasks/"+resp.Data.TaskID, nil)
			return w.Code == http.StatusOK && decode[map[string]string](t, w)["status"] == "success"
		}, 5*time.Second, 20*time.Millisecond)

		genres, err := env.repo.GetGenres(context.Background())
		require.NoError(t, err)
		assert.Empty(t, genres)
	})
}
