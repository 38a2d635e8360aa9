package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mediatracker/internal/exporters"
	"github.com/mrlokans/mediatracker/internal/importers"
)

// ImportRecorder audits imports.
type ImportRecorder interface {
	LogImport(source string, imported, skipped, failed int, err error)
}

// ExportRecorder audits exports.
type ExportRecorder interface {
	LogExport(format string, movies int, err error)
}

// CatalogRecorder audits both directions of CSV transfer.
type CatalogRecorder interface {
	ImportRecorder
	ExportRecorder
}

type CSVController struct {
	exporter *exporters.CSVExporter
	pipeline *importers.Pipeline
	recorder CatalogRecorder
}

// NewCSVController creates the CSV transfer endpoints. recorder may be nil.
func NewCSVController(reader exporters.MovieReader, writer importers.MovieWriter, recorder CatalogRecorder) *CSVController {
	return &CSVController{
		exporter: exporters.NewCSVExporter(reader),
		pipeline: importers.NewPipeline(writer),
		recorder: recorder,
	}
}

// CSVImportResponse is the body returned by the import endpoint.
type CSVImportResponse struct {
	Success bool `json:"success"`
	DryRun  bool `json:"dry_run"`
	importers.ImportResult
}

// Export handles GET /api/export/csv
func (cc *CSVController) Export(c *gin.Context) {
	var buf bytes.Buffer
	result, err := cc.exporter.Export(c.Request.Context(), &buf)
	if cc.recorder != nil {
		cc.recorder.LogExport("csv", result.MoviesProcessed, err)
	}
	if err != nil {
		respondStoreError(c, err, "movies", "export csv")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exporters.DefaultCSVFileName))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Import handles POST /api/import/csv
// Expects a multipart "csv_file" field. ?dry_run=true validates without saving.
func (cc *CSVController) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("csv_file")
	if err != nil {
		respondBadRequest(c, "no CSV file provided")
		return
	}
	defer file.Close()

	dryRun := parseBoolQuery(c, "dry_run")
	result, err := cc.pipeline.ImportCSV(c.Request.Context(), file, importers.Options{DryRun: dryRun})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			respondStoreError(c, err, "movies", "import csv")
			return
		}
		if cc.recorder != nil && !dryRun {
			cc.recorder.LogImport("csv", 0, 0, 0, err)
		}
		respondBadRequest(c, fmt.Sprintf("failed to parse CSV: %v", err))
		return
	}

	if cc.recorder != nil && !dryRun {
		cc.recorder.LogImport("csv", result.Imported, result.Skipped, result.Failed, nil)
	}

	c.JSON(http.StatusOK, CSVImportResponse{
		Success:      result.Failed == 0,
		DryRun:       dryRun,
		ImportResult: result,
	})
}
