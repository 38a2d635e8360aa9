package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/mediatracker/internal/entities"
	"github.com/mrlokans/mediatracker/internal/tasks"
)

type GenresController struct {
	store     GenreStore
	recorder  DeleteRecorder
	taskQueue TaskQueue
}

// NewGenresController creates the genre endpoints. recorder and taskQueue
// may be nil; without a queue the cleanup endpoint is unavailable.
func NewGenresController(store GenreStore, recorder DeleteRecorder, taskQueue TaskQueue) *GenresController {
	return &GenresController{store: store, recorder: recorder, taskQueue: taskQueue}
}

// ListGenres handles GET /api/genres
func (gc *GenresController) ListGenres(c *gin.Context) {
	genres, err := gc.store.GetGenres(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "genres", "list genres")
		return
	}
	respondList(c, genres)
}

// ListGenresWithMovies handles GET /api/genres/with-movies
func (gc *GenresController) ListGenresWithMovies(c *gin.Context) {
	genres, err := gc.store.GetGenresWithMovies(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "genres", "list genres with movies")
		return
	}
	respondList(c, genres)
}

// GetGenre handles GET /api/genres/:id
func (gc *GenresController) GetGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	genre, err := gc.store.GetGenreWithMovies(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "genre", "get genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

type createGenreRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateGenre handles POST /api/genres
func (gc *GenresController) CreateGenre(c *gin.Context) {
	var req createGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondBadRequest(c, "name is required")
		return
	}

	genre := entities.Genre{Name: name}
	id, err := gc.store.UpsertGenre(c.Request.Context(), genre)
	if err != nil {
		respondStoreError(c, err, "genre", "create genre")
		return
	}
	genre.ID = id
	respondCreated(c, genre)
}

// DeleteGenre handles DELETE /api/genres/:id
func (gc *GenresController) DeleteGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	genre, err := gc.store.GetGenre(ctx, id)
	if err != nil {
		respondStoreError(c, err, "genre", "delete genre")
		return
	}
	if err := gc.store.DeleteGenre(ctx, id); err != nil {
		respondStoreError(c, err, "genre", "delete genre")
		return
	}
	if gc.recorder != nil {
		gc.recorder.LogDelete("genre", id, genre.Name)
	}
	respondSuccess(c, "genre deleted")
}

// CleanupOrphanGenres removes all genres that no movie links to.
// Requires the task queue to be enabled.
// POST /api/genres/cleanup
func (gc *GenresController) CleanupOrphanGenres(c *gin.Context) {
	if gc.taskQueue == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is not enabled")
		return
	}

	ids, err := gc.taskQueue.Add(tasks.CleanupOrphanGenresTask{}).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue cleanup task")
		return
	}
	log.Info().Str("task_id", ids[0]).Msg("enqueued orphan genre cleanup")

	respondAccepted(c, "cleanup task started", gin.H{"task_id": ids[0]})
}
