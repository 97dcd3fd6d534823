package schedule

import (
	"testing"

	"github.com/hmasuda/sitework/internal/models"
)

func itemsWithStatuses(statuses ...models.Status) []models.ScheduleItem {
	items := make([]models.ScheduleItem, len(statuses))
	for i, s := range statuses {
		items[i] = models.ScheduleItem{ProcessName: "p", Status: s}
	}
	return items
}

func TestResolve_Empty(t *testing.T) {
	if got := Resolve(nil); got != models.StatusNotStarted {
		t.Errorf("Resolve(nil) = %q, want not_started", got)
	}
	if got := Resolve([]models.ScheduleItem{}); got != models.StatusNotStarted {
		t.Errorf("Resolve([]) = %q, want not_started", got)
	}
}

func TestResolve_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		statuses []models.Status
		want     models.Status
	}{
		{"single not started", []models.Status{models.StatusNotStarted}, models.StatusNotStarted},
		{"all not started", []models.Status{models.StatusNotStarted, models.StatusNotStarted}, models.StatusNotStarted},
		{"single completed", []models.Status{models.StatusCompleted}, models.StatusCompleted},
		{"all completed", []models.Status{models.StatusCompleted, models.StatusCompleted, models.StatusCompleted}, models.StatusCompleted},
		{"any in progress", []models.Status{models.StatusNotStarted, models.StatusInProgress}, models.StatusInProgress},
		{"delayed beats everything", []models.Status{models.StatusCompleted, models.StatusInProgress, models.StatusDelayed, models.StatusSuspended}, models.StatusDelayed},
		{"delayed beats completed", []models.Status{models.StatusCompleted, models.StatusDelayed}, models.StatusDelayed},
		{"suspended beats in progress", []models.Status{models.StatusInProgress, models.StatusSuspended}, models.StatusSuspended},
		{"suspended beats completed", []models.Status{models.StatusCompleted, models.StatusSuspended}, models.StatusSuspended},
		// Partial completion counts as progress even with no explicit
		// in-progress item.
		{"completed plus not started", []models.Status{models.StatusCompleted, models.StatusNotStarted}, models.StatusInProgress},
		{"one of three completed", []models.Status{models.StatusCompleted, models.StatusNotStarted, models.StatusNotStarted}, models.StatusInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(itemsWithStatuses(tt.statuses...)); got != tt.want {
				t.Errorf("Resolve(%v) = %q, want %q", tt.statuses, got, tt.want)
			}
		})
	}
}

func TestResolve_NormalizesUnknownStatus(t *testing.T) {
	items := itemsWithStatuses("", "bogus", models.StatusCompleted)
	if got := Resolve(items); got != models.StatusInProgress {
		t.Errorf("Resolve = %q, want in_progress (unknowns count as not_started)", got)
	}

	allUnknown := itemsWithStatuses("", "???")
	if got := Resolve(allUnknown); got != models.StatusNotStarted {
		t.Errorf("Resolve = %q, want not_started", got)
	}
}

func TestResolve_OrderInsensitive(t *testing.T) {
	a := itemsWithStatuses(models.StatusDelayed, models.StatusCompleted, models.StatusInProgress)
	b := itemsWithStatuses(models.StatusInProgress, models.StatusDelayed, models.StatusCompleted)
	if Resolve(a) != Resolve(b) {
		t.Errorf("Resolve differs across orderings: %q vs %q", Resolve(a), Resolve(b))
	}
}
