package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	var deletes DeleteRecorder
	var transfers CatalogRecorder
	if cfg.Auditor != nil {
		deletes = cfg.Auditor
		transfers = cfg.Auditor
	}

	// Health endpoints
	var counter MovieCounter
	if cfg.Repository != nil {
		counter = cfg.Repository
	}
	health := NewHealthController(cfg.Database, counter, cfg.Version)
	router.GET("/health", health.Status)

	api := router.Group("/api")

	// Movie endpoints
	movies := NewMoviesController(cfg.Repository, deletes)
	api.GET("/movies", movies.ListMovies)
	api.GET("/movies/search", movies.SearchMovies)
	api.GET("/movies/with-genres", movies.ListMoviesWithGenres)
	api.POST("/movies", movies.CreateMovie)
	api.GET("/movies/:id", movies.GetMovie)
	api.PUT("/movies/:id", movies.UpdateMovie)
	api.DELETE("/movies/:id", movies.DeleteMovie)
	api.PATCH("/movies/:id/rating", movies.UpdateRating)
	api.POST("/movies/:id/genres", movies.AddGenre)
	api.DELETE("/movies/:id/genres/:genreId", movies.RemoveGenre)

	// Genre endpoints
	genres := NewGenresController(cfg.Repository, deletes, cfg.TaskQueue)
	api.GET("/genres", genres.ListGenres)
	api.POST("/genres", genres.CreateGenre)
	api.GET("/genres/with-movies", genres.ListGenresWithMovies)
	api.GET("/genres/:id", genres.GetGenre)
	api.DELETE("/genres/:id", genres.DeleteGenre)
	api.POST("/genres/cleanup", genres.CleanupOrphanGenres)

	// CSV transfer endpoints
	csvController := NewCSVController(cfg.Repository, cfg.Repository, transfers)
	api.GET("/export/csv", csvController.Export)
	api.POST("/import/csv", csvController.Import)

	// Backup endpoints
	if cfg.Backups != nil {
		backups := NewBackupController(cfg.Backups)
		api.GET("/backup/status", backups.GetStatus)
		api.POST("/backup/run", backups.RunBackup)
	}

	// Audit endpoints
	if cfg.Auditor != nil {
		auditController := NewAuditController(cfg.Auditor)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	// Task management endpoints
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue, cfg.ExportDir)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/export-catalog", tasksController.QueueCatalogExport)
	}

	return router
}
