package models

// Status is the per-item (and derived per-project) schedule state.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDelayed    Status = "delayed"
	StatusSuspended  Status = "suspended"
)

// Normalize maps blank or unrecognized values to not_started.
func (s Status) Normalize() Status {
	switch s {
	case StatusInProgress, StatusCompleted, StatusDelayed, StatusSuspended:
		return s
	default:
		return StatusNotStarted
	}
}

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusDelayed, StatusSuspended:
		return true
	}
	return false
}
