package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hmasuda/sitework/internal/models"
	"github.com/hmasuda/sitework/internal/project"
)

// maxRecentProjects caps the dashboard's recent-project list.
const maxRecentProjects = 5

// dashboardStats holds project counts by aggregate status.
type dashboardStats struct {
	Total      int `json:"total"`
	NotStarted int `json:"not_started"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Delayed    int `json:"delayed"`
	Suspended  int `json:"suspended"`
}

// handleDashboard returns status counts over all projects plus the most
// recently created ones.
func handleDashboard(d deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := project.ListWithStatus(d.db)
		if err != nil {
			writeError(c, d, err)
			return
		}

		stats := dashboardStats{Total: len(summaries)}
		for _, s := range summaries {
			switch s.Status {
			case models.StatusNotStarted:
				stats.NotStarted++
			case models.StatusInProgress:
				stats.InProgress++
			case models.StatusCompleted:
				stats.Completed++
			case models.StatusDelayed:
				stats.Delayed++
			case models.StatusSuspended:
				stats.Suspended++
			}
		}

		recent := summaries
		if len(recent) > maxRecentProjects {
			recent = recent[:maxRecentProjects]
		}
		recentJSON := make([]projectJSON, len(recent))
		for i, s := range recent {
			recentJSON[i] = toProjectJSON(s)
		}

		c.JSON(http.StatusOK, gin.H{
			"stats":           stats,
			"recent_projects": recentJSON,
		})
	}
}
