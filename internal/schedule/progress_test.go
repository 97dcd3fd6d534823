package schedule

import (
	"testing"

	"github.com/hmasuda/sitework/internal/models"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		statuses []models.Status
		want     int
	}{
		{"empty", nil, 0},
		{"none completed", []models.Status{models.StatusNotStarted, models.StatusInProgress}, 0},
		{"one of two", []models.Status{models.StatusCompleted, models.StatusNotStarted}, 50},
		{"one of three rounds down", []models.Status{models.StatusCompleted, models.StatusNotStarted, models.StatusNotStarted}, 33},
		{"two of three rounds up", []models.Status{models.StatusCompleted, models.StatusCompleted, models.StatusNotStarted}, 67},
		{"all completed", []models.Status{models.StatusCompleted, models.StatusCompleted}, 100},
		{"one of six", []models.Status{models.StatusCompleted, "", "", "", "", ""}, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(itemsWithStatuses(tt.statuses...)); got != tt.want {
				t.Errorf("Progress(%v) = %d, want %d", tt.statuses, got, tt.want)
			}
		})
	}
}

func TestProgress_UnknownStatusNotCompleted(t *testing.T) {
	items := itemsWithStatuses("bogus", models.StatusCompleted)
	if got := Progress(items); got != 50 {
		t.Errorf("Progress = %d, want 50", got)
	}
}
