package models

import "testing"

func TestStatusNormalize(t *testing.T) {
	tests := []struct {
		in   Status
		want Status
	}{
		{StatusNotStarted, StatusNotStarted},
		{StatusInProgress, StatusInProgress},
		{StatusCompleted, StatusCompleted},
		{StatusDelayed, StatusDelayed},
		{StatusSuspended, StatusSuspended},
		{"", StatusNotStarted},
		{"bogus", StatusNotStarted},
		{"COMPLETED", StatusNotStarted},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Status(%q).Normalize() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusNotStarted, StatusInProgress, StatusCompleted, StatusDelayed, StatusSuspended} {
		if !s.Valid() {
			t.Errorf("Status(%q).Valid() = false, want true", s)
		}
	}
	for _, s := range []Status{"", "bogus", "Not_Started"} {
		if s.Valid() {
			t.Errorf("Status(%q).Valid() = true, want false", s)
		}
	}
}
