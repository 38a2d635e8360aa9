package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mediatracker/internal/audit"
	"github.com/mrlokans/mediatracker/internal/database"
	auditrepo "github.com/mrlokans/mediatracker/internal/database/audit"
	"github.com/mrlokans/mediatracker/internal/entities"
	"github.com/mrlokans/mediatracker/internal/repository"
)

type testEnv struct {
	db     *database.Database
	repo   *repository.Repository
	audit  *audit.Service
	router *gin.Engine
}

// setupTestEnv builds a router over a fresh SQLite catalog. mutate can add
// optional dependencies before the router is built.
func setupTestEnv(t *testing.T, mutate func(*RouterConfig)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "http.db"), database.WithLogLevel("silent"))
	require.NoError(t, err)

	env := &testEnv{
		db:    db,
		repo:  repository.New(db),
		audit: audit.NewService(auditrepo.NewRepository(db.DB)),
	}
	t.Cleanup(func() {
		env.audit.Flush()
		db.Close()
	})

	cfg := RouterConfig{
		Database:   db,
		Repository: env.repo,
		Auditor:    env.audit,
		Version:    "test",
	}
	if mutate != nil {
		mutate(&cfg)
	}
	env.router = NewRouter(cfg)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(t *testing.T, path, field, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, "movies.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedMovie(t *testing.T, m entities.Movie) uint {
	t.Helper()
	id, err := e.repo.InsertMovie(context.Background(), m)
	require.NoError(t, err)
	return id
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
