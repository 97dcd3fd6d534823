package schedule

import (
	"math"

	"github.com/hmasuda/sitework/internal/models"
)

// Progress returns the percent of completed items, rounded half away from
// zero. An empty item list is 0.
func Progress(items []models.ScheduleItem) int {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, it := range items {
		if it.Status.Normalize() == models.StatusCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(items))))
}
