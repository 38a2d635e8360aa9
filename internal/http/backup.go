package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mediatracker/internal/scheduler"
)

// BackupService runs and reports catalog backups.
type BackupService interface {
	Status(ctx context.Context) scheduler.BackupStatus
	RunNow()
}

type BackupController struct {
	backups BackupService
}

func NewBackupController(backups BackupService) *BackupController {
	return &BackupController{backups: backups}
}

// GetStatus handles GET /api/backup/status
func (bc *BackupController) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, bc.backups.Status(c.Request.Context()))
}

// RunBackup handles POST /api/backup/run
// The backup runs in the background; poll the status endpoint for the outcome.
func (bc *BackupController) RunBackup(c *gin.Context) {
	bc.backups.RunNow()
	respondAccepted(c, "backup started", nil)
}
