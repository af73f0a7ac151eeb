package routes

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"vendas-report/consolidate"
	db "vendas-report/database"
	"vendas-report/export"
	"vendas-report/models"
	"vendas-report/processor"
	"vendas-report/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func handleCreateReport(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No files uploaded",
		})
		return
	}

	fileHeaders := form.File["har_files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No files uploaded",
		})
		return
	}

	files := make([]processor.InputFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			log.Error().Err(err).Str("file", fh.Filename).Msg("Failed to open uploaded file")
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Couldn't read uploaded file",
			})
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			log.Error().Err(err).Str("file", fh.Filename).Msg("Failed to read uploaded file")
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Couldn't read uploaded file",
			})
			return
		}
		files = append(files, processor.InputFile{
			Name:    filepath.Base(fh.Filename),
			Content: content,
		})
	}

	report, err := processor.ProcessBatch(c.Request.Context(), files, cfg.Aggregate())
	if err != nil {
		if errors.Is(err, consolidate.ErrEmptyBatch) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "No valid .har file found or no events extracted",
			})
			return
		}
		log.Error().Err(err).Msg("Failed to process batch")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Couldn't process batch",
		})
		return
	}

	batchID := reports.Put(report)
	persistBatch(c, batchID, len(files), report)

	c.JSON(http.StatusCreated, gin.H{
		"batch_id": batchID,
		"tables":   report.Tables(),
	})
}

// persistBatch archives bookkeeping when a database is configured.
// Failures are logged; the report was already served from memory.
func persistBatch(c *gin.Context, batchID string, fileCount int, report *processor.Report) {
	if !db.Enabled() {
		return
	}

	record := &models.BatchRecord{
		BatchID:       batchID,
		FileCount:     fileCount,
		Orders:        len(report.Dataset.Orders),
		Registrations: len(report.Dataset.Registrations),
		Deletions:     len(report.Dataset.Deletions),
		TotalValue:    report.Summary.TotalValue,
	}
	if err := db.SaveBatchRecord(record); err != nil {
		log.Error().Err(err).Str("batch_id", batchID).Msg("Couldn't save batch record")
		return
	}
	if err := db.ArchiveOrders(c.Request.Context(), batchID, report.Dataset.Orders); err != nil {
		log.Error().Err(err).Str("batch_id", batchID).Msg("Couldn't archive batch orders")
	}
}

func handleGetReport(c *gin.Context) {
	report, err := reports.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No data to report",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"batch_id": c.Param("id"),
		"tables":   report.Tables(),
	})
}

func handleExportReport(c *gin.Context) {
	id := c.Param("id")
	report, err := reports.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNoDataset) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No data to export",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Couldn't export report",
		})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="relatorio-%s.xlsx"`, id))
	if err := export.Write(report, c.Writer); err != nil {
		log.Error().Err(err).Str("batch_id", id).Msg("Failed to write spreadsheet")
	}
}
