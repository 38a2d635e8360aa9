package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mediatracker/internal/entities"
)

// AuditReader lists recorded audit events.
type AuditReader interface {
	GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
}

type AuditController struct {
	auditService AuditReader
}

func NewAuditController(auditService AuditReader) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	eventType := entities.AuditEventType(c.Query("type"))
	offset := (page - 1) * limit

	events, total, err := ac.auditService.GetEvents(c.Request.Context(), eventType, limit, offset)
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       events,
		"page":         page,
		"limit":        limit,
		"total_pages":  totalPages,
		"total_events": total,
	})
}
