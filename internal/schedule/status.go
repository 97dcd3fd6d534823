// Package schedule provides schedule lifecycle operations and the derived
// status and progress computations shared by every display surface.
package schedule

import "github.com/hmasuda/sitework/internal/models"

// Resolve derives a single aggregate status for a project from the items of
// its latest schedule. Precedence: delayed > suspended > in_progress. A fully
// completed schedule is completed; a partially completed one counts as
// in_progress even when no item is explicitly in progress. No schedule, or a
// schedule with no items, is not_started.
func Resolve(items []models.ScheduleItem) models.Status {
	if len(items) == 0 {
		return models.StatusNotStarted
	}

	counts := make(map[models.Status]int, 5)
	for _, it := range items {
		counts[it.Status.Normalize()]++
	}

	switch {
	case counts[models.StatusDelayed] > 0:
		return models.StatusDelayed
	case counts[models.StatusSuspended] > 0:
		return models.StatusSuspended
	case counts[models.StatusInProgress] > 0:
		return models.StatusInProgress
	case counts[models.StatusCompleted] == len(items):
		return models.StatusCompleted
	case counts[models.StatusCompleted] > 0:
		return models.StatusInProgress
	default:
		return models.StatusNotStarted
	}
}
