package schedule

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hmasuda/sitework/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound marks a lookup for a schedule or item that does not exist.
// A project with no schedules also resolves to this; callers render that as
// "not started" rather than an error.
var ErrNotFound = errors.New("schedule not found")

// ErrInvalid marks rejected item input, checked before any storage call.
var ErrInvalid = errors.New("invalid schedule input")

// Latest returns the highest-version schedule of a project, items included
// and ordered for display.
func Latest(db *gorm.DB, projectID string) (*models.Schedule, error) {
	var s models.Schedule
	err := db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_index ASC")
	}).Where("project_id = ?", projectID).
		Order("version DESC").
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("schedule: %w: project %s", ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("schedule: latest for project %s: %w", projectID, err)
	}
	return &s, nil
}

// Get retrieves a schedule by ID with its items ordered for display.
func Get(db *gorm.DB, id string) (*models.Schedule, error) {
	var s models.Schedule
	err := db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_index ASC")
	}).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("schedule: %w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("schedule: get %s: %w", id, err)
	}
	return &s, nil
}

// CreateVersion creates a new empty schedule for a project. The version is
// read fresh inside the insert transaction: max(existing) + 1, starting at 1.
func CreateVersion(db *gorm.DB, projectID string) (*models.Schedule, error) {
	var count int64
	if err := db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("schedule: check project %s: %w", projectID, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("schedule: %w: project %s", ErrNotFound, projectID)
	}

	s := models.Schedule{
		ID:        uuid.NewString(),
		ProjectID: projectID,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var maxVersion int
		if err := tx.Model(&models.Schedule{}).
			Where("project_id = ?", projectID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return fmt.Errorf("schedule: next version for project %s: %w", projectID, err)
		}
		s.Version = maxVersion + 1
		if err := tx.Create(&s).Error; err != nil {
			return fmt.Errorf("schedule: create version %d for project %s: %w", s.Version, projectID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}
