package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/mediatracker/internal/tasks"
)

// TasksController handles task queue endpoints.
type TasksController struct {
	queue     TaskQueue
	exportDir string
}

// NewTasksController creates a new TasksController. exportDir is where
// queued catalog exports are written; empty disables them.
func NewTasksController(queue TaskQueue, exportDir string) *TasksController {
	return &TasksController{queue: queue, exportDir: exportDir}
}

// QueueCatalogExport handles POST /api/tasks/export-catalog
func (tc *TasksController) QueueCatalogExport(c *gin.Context) {
	if tc.exportDir == "" {
		respondError(c, http.StatusServiceUnavailable, "export directory is not configured")
		return
	}

	ids, err := tc.queue.Add(tasks.ExportCatalogTask{Dir: tc.exportDir}).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue export task")
		return
	}
	log.Info().Str("task_id", ids[0]).Str("dir", tc.exportDir).Msg("enqueued catalog export")

	respondAccepted(c, "export task started", gin.H{"task_id": ids[0]})
}

// GetTaskStatus handles GET /api/tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
