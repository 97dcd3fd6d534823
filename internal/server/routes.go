package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all API routes on the gin router.
func registerRoutes(router *gin.Engine, d deps) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	v1.GET("/dashboard", handleDashboard(d))

	v1.GET("/projects", handleProjectList(d))
	v1.POST("/projects", handleProjectCreate(d))
	v1.GET("/projects/:id", handleProjectGet(d))
	v1.PUT("/projects/:id", handleProjectUpdate(d))
	v1.DELETE("/projects/:id", handleProjectDelete(d))

	v1.GET("/projects/:id/schedule", handleLatestSchedule(d))
	v1.POST("/projects/:id/schedules", handleScheduleCreate(d))
	v1.POST("/projects/:id/import", handlePDFImport(d))

	v1.GET("/schedules/:id/items", handleItemList(d))
	v1.POST("/schedules/:id/items", handleItemCreate(d))
	v1.PUT("/schedules/:id/items", handleItemBulkReplace(d))
	v1.POST("/schedules/:id/items/reorder", handleItemReorder(d))
	v1.GET("/schedules/:id/export.pdf", handlePDFExport(d))

	v1.PUT("/items/:id", handleItemUpdate(d))
	v1.DELETE("/items/:id", handleItemDelete(d))
}
