package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hmasuda/sitework/internal/gantt"
	"github.com/hmasuda/sitework/internal/project"
	"github.com/hmasuda/sitework/internal/schedule"
)

// handleLatestSchedule returns the latest schedule of a project with its
// items, derived status/progress, and gantt layout. A project without a
// schedule yields a null schedule and the not-started defaults, not an error.
func handleLatestSchedule(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Param("id")
		if _, err := project.Get(d.db, projectID); err != nil {
			writeError(c, d, err)
			return
		}

		latest, err := schedule.Latest(d.db, projectID)
		if err != nil {
			if errors.Is(err, schedule.ErrNotFound) {
				c.JSON(http.StatusOK, gin.H{
					"schedule": nil,
					"items":    []itemJSON{},
					"status":   string(schedule.Resolve(nil)),
					"progress": 0,
					"gantt":    toGanttJSON(gantt.Layout{}),
				})
				return
			}
			writeError(c, d, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"schedule": toScheduleJSON(*latest),
			"items":    toItemListJSON(latest.Items),
			"status":   string(schedule.Resolve(latest.Items)),
			"progress": schedule.Progress(latest.Items),
			"gantt":    toGanttJSON(gantt.Compute(latest.Items, d.now())),
		})
	}
}

func handleScheduleCreate(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := schedule.CreateVersion(d.db, c.Param("id"))
		if err != nil {
			writeError(c, d, err)
			return
		}
		c.JSON(http.StatusCreated, toScheduleJSON(*s))
	}
}

func handleItemList(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := schedule.ListItems(d.db, c.Param("id"))
		if err != nil {
			writeError(c, d, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": toItemListJSON(items)})
	}
}

func handleItemCreate(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, d, fmt.Errorf("%w: %v", errInvalidRequest, err))
			return
		}
		opts, err := req.toOpts()
		if err != nil {
			writeError(c, d, err)
			return
		}
		item, err := schedule.CreateItem(d.db, c.Param("id"), opts)
		if err != nil {
			writeError(c, d, err)
			return
		}
		c.JSON(http.StatusCreated, toItemJSON(*item))
	}
}

func handleItemBulkReplace(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Items []itemRequest `json:"items"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, d, fmt.Errorf("%w: %v", errInvalidRequest, err))
			return
		}
		opts := make([]schedule.ItemOpts, len(req.Items))
		for i, ir := range req.Items {
			o, err := ir.toOpts()
			if err != nil {
				writeError(c, d, err)
				return
			}
			opts[i] = o
		}
		items, err := schedule.BulkReplace(d.db, c.Param("id"), opts)
		if err != nil {
			writeError(c, d, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": toItemListJSON(items)})
	}
}

func handleItemReorder(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Items []struct {
				ID         string `json:"id"`
				OrderIndex int    `json:"order_index"`
			} `json:"items"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, d, fmt.Errorf("%w: %v", errInvalidRequest, err))
			return
		}
		entries := make([]schedule.ReorderEntry, len(req.Items))
		for i, e := range req.Items {
			entries[i] = schedule.ReorderEntry{ID: e.ID, OrderIndex: e.OrderIndex}
		}
		if err := schedule.Reorder(d.db, c.Param("id"), entries); err != nil {
			writeError(c, d, err)
			return
		}
		items, err := schedule.ListItems(d.db, c.Param("id"))
		if err != nil {
			writeError(c, d, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": toItemListJSON(items)})
	}
}

func handleItemUpdate(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, d, fmt.Errorf("%w: %v", errInvalidRequest, err))
			return
		}
		upd, err := req.toUpdate()
		if err != nil {
			writeError(c, d, err)
			return
		}
		item, err := schedule.UpdateItem(d.db, c.Param("id"), upd)
		if err != nil {
			writeError(c, d, err)
			return
		}
		c.JSON(http.StatusOK, toItemJSON(*item))
	}
}

func handleItemDelete(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := schedule.DeleteItem(d.db, c.Param("id")); err != nil {
			writeError(c, d, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
