package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hmasuda/sitework/internal/models"
	"gorm.io/gorm"
)

// ItemOpts holds parameters for creating a schedule item. A nil OrderIndex
// means "append": next index on single creates, input position on bulk
// replaces.
type ItemOpts struct {
	ProcessName  string
	PlannedStart time.Time
	PlannedEnd   time.Time
	ActualStart  *time.Time
	ActualEnd    *time.Time
	Status       models.Status
	Assignee     string
	Remarks      string
	OrderIndex   *int
}

// ItemUpdate holds optional field updates for an item. Nil fields are left
// unchanged. ClearActualStart/ClearActualEnd reset the actual dates.
type ItemUpdate struct {
	ProcessName      *string
	PlannedStart     *time.Time
	PlannedEnd       *time.Time
	ActualStart      *time.Time
	ActualEnd        *time.Time
	ClearActualStart bool
	ClearActualEnd   bool
	Status           *models.Status
	Assignee         *string
	Remarks          *string
	OrderIndex       *int
}

// ReorderEntry assigns a new display position to one item.
type ReorderEntry struct {
	ID         string
	OrderIndex int
}

// CreateItem adds an item to a schedule.
func CreateItem(db *gorm.DB, scheduleID string, opts ItemOpts) (*models.ScheduleItem, error) {
	if _, err := Get(db, scheduleID); err != nil {
		return nil, err
	}
	item, err := buildItem(scheduleID, opts)
	if err != nil {
		return nil, err
	}

	if opts.OrderIndex == nil {
		var maxIndex int
		if err := db.Model(&models.ScheduleItem{}).
			Where("schedule_id = ?", scheduleID).
			Select("COALESCE(MAX(order_index), -1)").
			Scan(&maxIndex).Error; err != nil {
			return nil, fmt.Errorf("schedule: next order index: %w", err)
		}
		item.OrderIndex = maxIndex + 1
	}

	if err := db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("schedule: create item: %w", err)
	}
	return item, nil
}

// GetItem retrieves a single item by ID.
func GetItem(db *gorm.DB, id string) (*models.ScheduleItem, error) {
	var item models.ScheduleItem
	if err := db.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("schedule: item %w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("schedule: get item %s: %w", id, err)
	}
	return &item, nil
}

// ListItems returns a schedule's items in display order.
func ListItems(db *gorm.DB, scheduleID string) ([]models.ScheduleItem, error) {
	if _, err := Get(db, scheduleID); err != nil {
		return nil, err
	}
	var items []models.ScheduleItem
	if err := db.Where("schedule_id = ?", scheduleID).
		Order("order_index ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("schedule: list items of %s: %w", scheduleID, err)
	}
	return items, nil
}

// UpdateItem modifies item fields.
func UpdateItem(db *gorm.DB, id string, upd ItemUpdate) (*models.ScheduleItem, error) {
	if _, err := GetItem(db, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if upd.ProcessName != nil {
		name := strings.TrimSpace(*upd.ProcessName)
		if name == "" {
			return nil, fmt.Errorf("schedule: %w: process name is required", ErrInvalid)
		}
		updates["process_name"] = name
	}
	if upd.PlannedStart != nil {
		updates["planned_start"] = *upd.PlannedStart
	}
	if upd.PlannedEnd != nil {
		updates["planned_end"] = *upd.PlannedEnd
	}
	if upd.ActualStart != nil {
		updates["actual_start"] = *upd.ActualStart
	} else if upd.ClearActualStart {
		updates["actual_start"] = nil
	}
	if upd.ActualEnd != nil {
		updates["actual_end"] = *upd.ActualEnd
	} else if upd.ClearActualEnd {
		updates["actual_end"] = nil
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, fmt.Errorf("schedule: %w: unknown status %q", ErrInvalid, *upd.Status)
		}
		updates["status"] = *upd.Status
	}
	if upd.Assignee != nil {
		updates["assignee"] = strings.TrimSpace(*upd.Assignee)
	}
	if upd.Remarks != nil {
		updates["remarks"] = *upd.Remarks
	}
	if upd.OrderIndex != nil {
		updates["order_index"] = *upd.OrderIndex
	}

	if len(updates) > 0 {
		if err := db.Model(&models.ScheduleItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("schedule: update item %s: %w", id, err)
		}
	}
	return GetItem(db, id)
}

// DeleteItem removes an item.
func DeleteItem(db *gorm.DB, id string) error {
	if _, err := GetItem(db, id); err != nil {
		return err
	}
	if err := db.Where("id = ?", id).Delete(&models.ScheduleItem{}).Error; err != nil {
		return fmt.Errorf("schedule: delete item %s: %w", id, err)
	}
	return nil
}

// Reorder assigns new order indexes to items of one schedule in a single
// transaction.
func Reorder(db *gorm.DB, scheduleID string, entries []ReorderEntry) error {
	if _, err := Get(db, scheduleID); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			res := tx.Model(&models.ScheduleItem{}).
				Where("id = ? AND schedule_id = ?", e.ID, scheduleID).
				Update("order_index", e.OrderIndex)
			if res.Error != nil {
				return fmt.Errorf("schedule: reorder item %s: %w", e.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("schedule: item %w: %s", ErrNotFound, e.ID)
			}
		}
		return nil
	})
}

// BulkReplace replaces all items of a schedule with the given set. Delete and
// insert run in one transaction, so a failure leaves the previous items in
// place instead of an emptied schedule. Items without an explicit order index
// take their input position.
func BulkReplace(db *gorm.DB, scheduleID string, opts []ItemOpts) ([]models.ScheduleItem, error) {
	if _, err := Get(db, scheduleID); err != nil {
		return nil, err
	}

	items := make([]*models.ScheduleItem, len(opts))
	for i, o := range opts {
		item, err := buildItem(scheduleID, o)
		if err != nil {
			return nil, err
		}
		if o.OrderIndex == nil {
			item.OrderIndex = i
		}
		items[i] = item
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule_id = ?", scheduleID).Delete(&models.ScheduleItem{}).Error; err != nil {
			return fmt.Errorf("schedule: clear items of %s: %w", scheduleID, err)
		}
		for _, item := range items {
			if err := tx.Create(item).Error; err != nil {
				return fmt.Errorf("schedule: insert item %q: %w", item.ProcessName, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ListItems(db, scheduleID)
}

// buildItem validates opts and constructs an unsaved item.
func buildItem(scheduleID string, opts ItemOpts) (*models.ScheduleItem, error) {
	name := strings.TrimSpace(opts.ProcessName)
	if name == "" {
		return nil, fmt.Errorf("schedule: %w: process name is required", ErrInvalid)
	}
	status := opts.Status
	if status == "" {
		status = models.StatusNotStarted
	}
	if !status.Valid() {
		return nil, fmt.Errorf("schedule: %w: unknown status %q", ErrInvalid, status)
	}

	item := &models.ScheduleItem{
		ID:           uuid.NewString(),
		ScheduleID:   scheduleID,
		ProcessName:  name,
		PlannedStart: opts.PlannedStart,
		PlannedEnd:   opts.PlannedEnd,
		ActualStart:  opts.ActualStart,
		ActualEnd:    opts.ActualEnd,
		Status:       status,
		Assignee:     strings.TrimSpace(opts.Assignee),
		Remarks:      opts.Remarks,
	}
	if opts.OrderIndex != nil {
		item.OrderIndex = *opts.OrderIndex
	}
	return item, nil
}
