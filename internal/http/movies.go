package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mediatracker/internal/database/genres"
	"github.com/mrlokans/mediatracker/internal/entities"
)

type MoviesController struct {
	store    MovieStore
	recorder DeleteRecorder
}

// NewMoviesController creates the movie endpoints. recorder may be nil.
func NewMoviesController(store MovieStore, recorder DeleteRecorder) *MoviesController {
	return &MoviesController{store: store, recorder: recorder}
}

// ListMovies handles GET /api/movies
// ?watchlist=true limits to the watchlist, ?order=title sorts by title,
// otherwise movies come back in insertion order.
func (mc *MoviesController) ListMovies(c *gin.Context) {
	ctx := c.Request.Context()

	var movies []entities.Movie
	var err error
	switch {
	case parseBoolQuery(c, "watchlist"):
		movies, err = mc.store.GetMoviesOnWatchlist(ctx)
	case c.Query("order") == "title":
		movies, err = mc.store.GetMoviesOrderedByTitle(ctx)
	default:
		movies, err = mc.store.GetAllMovies(ctx)
	}
	if err != nil {
		respondStoreError(c, err, "movies", "list movies")
		return
	}
	respondList(c, movies)
}

// SearchMovies handles GET /api/movies/search?q=
func (mc *MoviesController) SearchMovies(c *gin.Context) {
	movies, err := mc.store.SearchMoviesByTitle(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondStoreError(c, err, "movies", "search movies")
		return
	}
	respondList(c, movies)
}

// ListMoviesWithGenres handles GET /api/movies/with-genres
func (mc *MoviesController) ListMoviesWithGenres(c *gin.Context) {
	movies, err := mc.store.GetMoviesWithGenres(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "movies", "list movies with genres")
		return
	}
	respondList(c, movies)
}

// GetMovie handles GET /api/movies/:id
func (mc *MoviesController) GetMovie(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	movie, err := mc.store.GetMovieWithGenres(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "movie", "get movie")
		return
	}
	c.JSON(http.StatusOK, movie)
}

// CreateMovie handles POST /api/movies
func (mc *MoviesController) CreateMovie(c *gin.Context) {
	var movie entities.Movie
	if err := c.ShouldBindJSON(&movie); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	movie.Title = strings.TrimSpace(movie.Title)
	if movie.Title == "" {
		respondBadRequest(c, "title is required")
		return
	}
	movie.ID = 0

	id, err := mc.store.InsertMovie(c.Request.Context(), movie)
	if err != nil {
		respondStoreError(c, err, "movie", "create movie")
		return
	}
	movie.ID = id
	respondCreated(c, movie)
}

// UpdateMovie handles PUT /api/movies/:id
// Replaces every field; an unknown ID creates the movie under that ID.
func (mc *MoviesController) UpdateMovie(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var movie entities.Movie
	if err := c.ShouldBindJSON(&movie); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	movie.Title = strings.TrimSpace(movie.Title)
	if movie.Title == "" {
		respondBadRequest(c, "title is required")
		return
	}
	movie.ID = id

	if _, err := mc.store.UpsertMovie(c.Request.Context(), movie); err != nil {
		respondStoreError(c, err, "movie", "update movie")
		return
	}
	c.JSON(http.StatusOK, movie)
}

// DeleteMovie handles DELETE /api/movies/:id
func (mc *MoviesController) DeleteMovie(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	movie, err := mc.store.GetMovie(ctx, id)
	if err != nil {
		respondStoreError(c, err, "movie", "delete movie")
		return
	}

	if err := mc.store.DeleteMovie(ctx, id); err != nil {
		respondStoreError(c, err, "movie", "delete movie")
		return
	}
	if mc.recorder != nil {
		mc.recorder.LogDelete("movie", id, movie.Title)
	}
	respondSuccess(c, "movie deleted")
}

type ratingRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

// UpdateRating handles PATCH /api/movies/:id/rating
func (mc *MoviesController) UpdateRating(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "rating is required")
		return
	}
	ctx := c.Request.Context()

	if _, err := mc.store.GetMovie(ctx, id); err != nil {
		respondStoreError(c, err, "movie", "update rating")
		return
	}
	if err := mc.store.UpdateRating(ctx, id, *req.Rating); err != nil {
		respondStoreError(c, err, "movie", "update rating")
		return
	}

	movie, err := mc.store.GetMovieWithGenres(ctx, id)
	if err != nil {
		respondStoreError(c, err, "movie", "update rating")
		return
	}
	c.JSON(http.StatusOK, movie)
}

type addGenreRequest struct {
	GenreID uint   `json:"genre_id"`
	Name    string `json:"name"`
}

// AddGenre handles POST /api/movies/:id/genres
// {"genre_id": N} links an existing genre; {"name": "..."} finds or creates
// the genre and links it in one step.
func (mc *MoviesController) AddGenre(c *gin.Context) {
	movieID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req addGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	ctx := c.Request.Context()

	switch {
	case req.GenreID != 0:
		ref := entities.MovieGenreCrossRef{MovieID: movieID, GenreID: req.GenreID}
		genre, err := mc.store.LinkMovieGenre(ctx, ref)
		if err != nil {
			resource := "movie"
			if errors.Is(err, genres.ErrGenreNotFound) {
				resource = "genre"
			}
			respondStoreError(c, err, resource, "link genre")
			return
		}
		c.JSON(http.StatusOK, genre)

	case req.Name != "":
		genre, err := mc.store.AddGenreWithMovie(ctx, entities.Genre{Name: req.Name}, movieID)
		if err != nil {
			respondStoreError(c, err, "movie", "add genre")
			return
		}
		respondCreated(c, genre)

	default:
		respondBadRequest(c, "genre_id or name is required")
	}
}

// RemoveGenre handles DELETE /api/movies/:id/genres/:genreId
func (mc *MoviesController) RemoveGenre(c *gin.Context) {
	movieID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	genreID, ok := parseIDParam(c, "genreId")
	if !ok {
		return
	}

	ref := entities.MovieGenreCrossRef{MovieID: movieID, GenreID: genreID}
	if err := mc.store.RemoveMovieGenreCrossRef(c.Request.Context(), ref); err != nil {
		respondStoreError(c, err, "genre", "unlink genre")
		return
	}
	respondSuccess(c, "genre removed from movie")
}
