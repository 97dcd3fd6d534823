// Package project provides project lifecycle operations.
package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hmasuda/sitework/internal/models"
	"github.com/hmasuda/sitework/internal/schedule"
	"gorm.io/gorm"
)

// ErrNotFound marks a lookup for a project that does not exist. Callers test
// it with errors.Is.
var ErrNotFound = errors.New("project not found")

// ErrInvalid marks rejected input, checked before any storage call.
var ErrInvalid = errors.New("invalid project input")

// CreateOpts holds parameters for creating a new project.
type CreateOpts struct {
	Name     string
	Location string
	Company  string
}

// UpdateOpts holds optional field updates. Nil fields are left unchanged.
type UpdateOpts struct {
	Name     *string
	Location *string
	Company  *string
}

// Summary is a project with its derived status and progress, computed from
// the items of its latest schedule.
type Summary struct {
	Project  models.Project
	Status   models.Status
	Progress int
}

// Create creates a new project. The name is trimmed and must be non-empty;
// the project number is assigned from the current maximum.
func Create(db *gorm.DB, opts CreateOpts) (*models.Project, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, fmt.Errorf("project: %w: name is required", ErrInvalid)
	}

	p := models.Project{
		ID:                   uuid.NewString(),
		ProjectName:          name,
		ConstructionLocation: strings.TrimSpace(opts.Location),
		ConstructionCompany:  strings.TrimSpace(opts.Company),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var maxNumber int
		if err := tx.Model(&models.Project{}).
			Select("COALESCE(MAX(project_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return fmt.Errorf("project: next number: %w", err)
		}
		p.ProjectNumber = maxNumber + 1
		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("project: create: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get retrieves a project by ID.
func Get(db *gorm.DB, id string) (*models.Project, error) {
	var p models.Project
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project: %w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("project: get %s: %w", id, err)
	}
	return &p, nil
}

// List returns all projects, newest first.
func List(db *gorm.DB) ([]models.Project, error) {
	var projects []models.Project
	if err := db.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("project: list: %w", err)
	}
	return projects, nil
}

// ListWithStatus returns all projects, newest first, each with the aggregate
// status and progress resolved from its latest schedule.
func ListWithStatus(db *gorm.DB) ([]Summary, error) {
	projects, err := List(db)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, len(projects))
	for i, p := range projects {
		items, err := latestItems(db, p.ID)
		if err != nil {
			return nil, err
		}
		summaries[i] = Summary{
			Project:  p,
			Status:   schedule.Resolve(items),
			Progress: schedule.Progress(items),
		}
	}
	return summaries, nil
}

// Summarize returns a single project with derived status and progress.
func Summarize(db *gorm.DB, id string) (*Summary, error) {
	p, err := Get(db, id)
	if err != nil {
		return nil, err
	}
	items, err := latestItems(db, id)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Project:  *p,
		Status:   schedule.Resolve(items),
		Progress: schedule.Progress(items),
	}, nil
}

// Update modifies project fields. An explicit empty name is rejected.
func Update(db *gorm.DB, id string, opts UpdateOpts) (*models.Project, error) {
	updates := map[string]interface{}{}
	if opts.Name != nil {
		name := strings.TrimSpace(*opts.Name)
		if name == "" {
			return nil, fmt.Errorf("project: %w: name is required", ErrInvalid)
		}
		updates["project_name"] = name
	}
	if opts.Location != nil {
		updates["construction_location"] = strings.TrimSpace(*opts.Location)
	}
	if opts.Company != nil {
		updates["construction_company"] = strings.TrimSpace(*opts.Company)
	}

	if _, err := Get(db, id); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := db.Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("project: update %s: %w", id, err)
		}
	}
	return Get(db, id)
}

// Delete removes a project and all of its schedules and items.
func Delete(db *gorm.DB, id string) error {
	if _, err := Get(db, id); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var scheduleIDs []string
		if err := tx.Model(&models.Schedule{}).
			Where("project_id = ?", id).
			Pluck("id", &scheduleIDs).Error; err != nil {
			return fmt.Errorf("project: delete %s: %w", id, err)
		}
		if len(scheduleIDs) > 0 {
			if err := tx.Where("schedule_id IN ?", scheduleIDs).Delete(&models.ScheduleItem{}).Error; err != nil {
				return fmt.Errorf("project: delete items of %s: %w", id, err)
			}
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Schedule{}).Error; err != nil {
			return fmt.Errorf("project: delete schedules of %s: %w", id, err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Project{}).Error; err != nil {
			return fmt.Errorf("project: delete %s: %w", id, err)
		}
		return nil
	})
}

// latestItems loads the items of a project's latest schedule, or nil when the
// project has no schedule yet.
func latestItems(db *gorm.DB, projectID string) ([]models.ScheduleItem, error) {
	latest, err := schedule.Latest(db, projectID)
	if err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return latest.Items, nil
}
