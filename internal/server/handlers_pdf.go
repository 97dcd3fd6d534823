package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hmasuda/sitework/internal/project"
	"github.com/hmasuda/sitework/internal/schedule"
)

// handlePDFImport forwards an uploaded PDF to the gateway, which parses it
// into a new schedule version for the project.
func handlePDFImport(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := project.Get(d.db, c.Param("id"))
		if err != nil {
			writeError(c, d, err)
			return
		}

		header, err := c.FormFile("pdf")
		if err != nil {
			writeError(c, d, fmt.Errorf("%w: missing pdf file: %v", errInvalidRequest, err))
			return
		}
		file, err := header.Open()
		if err != nil {
			writeError(c, d, fmt.Errorf("read upload: %w", err))
			return
		}
		defer file.Close()

		result, err := d.gw.Import(c.Request.Context(), file, header.Size,
			header.Header.Get("Content-Type"), p.ID, nil)
		if err != nil {
			writeError(c, d, err)
			return
		}

		d.log.WithFields(map[string]interface{}{
			"project":  p.ID,
			"schedule": result.ScheduleID,
			"version":  result.Version,
			"items":    result.ItemCount,
		}).Info("pdf import completed")
		d.dispatcher.ImportCompleted(c.Request.Context(), p.ProjectName, result.Version, result.ItemCount)

		c.JSON(http.StatusOK, gin.H{
			"schedule_id": result.ScheduleID,
			"version":     result.Version,
			"items_count": result.ItemCount,
		})
	}
}

// handlePDFExport renders a schedule to PDF via the gateway and streams it
// back as a download.
func handlePDFExport(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := schedule.Get(d.db, c.Param("id"))
		if err != nil {
			writeError(c, d, err)
			return
		}

		payload, err := d.gw.Export(c.Request.Context(), s.ID)
		if err != nil {
			writeError(c, d, err)
			return
		}

		p, err := project.Get(d.db, s.ProjectID)
		filename := fmt.Sprintf("schedule_%s.pdf", d.now().Format("20060102"))
		if err == nil {
			filename = fmt.Sprintf("schedule_%d_v%d_%s.pdf", p.ProjectNumber, s.Version, d.now().Format("20060102"))
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/pdf", payload)
	}
}
