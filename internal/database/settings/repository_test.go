package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mediatracker/internal/database"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "settings.db"), database.WithLogLevel("silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB)
}

func TestRepository_SetSetting_New(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SetSetting(ctx, "backup_last_status", "success"))

	setting, err := repo.GetSetting(ctx, "backup_last_status")
	require.NoError(t, err)
	assert.Equal(t, "success", setting.Value)
	assert.NotZero(t, setting.ID)
}

func TestRepository_SetSetting_Update(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SetSetting(ctx, "backup_last_status", "success"))
	first, err := repo.GetSetting(ctx, "backup_last_status")
	require.NoError(t, err)

	require.NoError(t, repo.SetSetting(ctx, "backup_last_status", "failed"))
	second, err := repo.GetSetting(ctx, "backup_last_status")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "failed", second.Value)
}

func TestRepository_SetSettings(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SetSettings(ctx, map[string]string{
		"a": "1",
		"b": "2",
	}))
	assert.Equal(t, "1", repo.GetValue(ctx, "a", ""))
	assert.Equal(t, "2", repo.GetValue(ctx, "b", ""))
	assert.NoError(t, repo.SetSettings(ctx, nil))
}

func TestRepository_GetSetting_NotFound(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.GetSetting(ctx, "missing")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Equal(t, "fallback", repo.GetValue(ctx, "missing", "fallback"))
}

func TestRepository_DeleteSetting(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.SetSetting(ctx, "to_delete", "x"))
	require.NoError(t, repo.DeleteSetting(ctx, "to_delete"))

	_, err := repo.GetSetting(ctx, "to_delete")
	assert.ErrorIs(t, err, database.ErrNotFound)

	assert.NoError(t, repo.DeleteSetting(ctx, "never_existed"))
}
