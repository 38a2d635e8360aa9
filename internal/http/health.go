package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mediatracker/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// MovieCounter reports the catalog size.
type MovieCounter interface {
	CountMovies(ctx context.Context) (int64, error)
}

type HealthController struct {
	db      *database.Database
	movies  MovieCounter
	version string
}

// NewHealthController creates the health endpoint. db and movies may be nil.
func NewHealthController(db *database.Database, movies MovieCounter, version string) *HealthController {
	return &HealthController{
		db:      db,
		movies:  movies,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.movies != nil && status == "healthy" {
		if count, err := h.movies.CountMovies(ctx); err != nil {
			checks["movies"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["movies"] = strconv.FormatInt(count, 10)
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
