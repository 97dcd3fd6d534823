package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hmasuda/sitework/internal/gantt"
	"github.com/hmasuda/sitework/internal/models"
	"github.com/hmasuda/sitework/internal/pdfgw"
	"github.com/hmasuda/sitework/internal/project"
	"github.com/hmasuda/sitework/internal/schedule"
)

const dateLayout = "2006-01-02"

// errInvalidRequest marks malformed request payloads (bad JSON, bad dates).
var errInvalidRequest = errors.New("invalid request")

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q (want YYYY-MM-DD)", errInvalidRequest, s)
	}
	return t, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func fmtDate(t time.Time) string { return t.Format(dateLayout) }

func fmtDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// writeError maps an error to a response status and logs it once, here at the
// boundary that first observes it.
func writeError(c *gin.Context, d deps, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, project.ErrNotFound),
		errors.Is(err, schedule.ErrNotFound),
		errors.Is(err, pdfgw.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, project.ErrInvalid),
		errors.Is(err, schedule.ErrInvalid),
		errors.Is(err, pdfgw.ErrInvalidFile),
		errors.Is(err, errInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, pdfgw.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, pdfgw.ErrUnreachable),
		errors.Is(err, pdfgw.ErrServerFailure):
		status = http.StatusBadGateway
	}

	if status >= 500 {
		d.log.WithError(err).WithField("path", c.Request.URL.Path).Error("request error")
	} else {
		d.log.WithError(err).WithField("path", c.Request.URL.Path).Debug("request rejected")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// projectJSON is the wire form of a project with derived fields.
type projectJSON struct {
	ID                   string `json:"id"`
	ProjectNumber        int    `json:"project_number"`
	ProjectName          string `json:"project_name"`
	ConstructionLocation string `json:"construction_location,omitempty"`
	ConstructionCompany  string `json:"construction_company,omitempty"`
	Status               string `json:"status"`
	Progress             int    `json:"progress"`
	CreatedAt            string `json:"created_at"`
	UpdatedAt            string `json:"updated_at"`
}

func toProjectJSON(s project.Summary) projectJSON {
	return projectJSON{
		ID:                   s.Project.ID,
		ProjectNumber:        s.Project.ProjectNumber,
		ProjectName:          s.Project.ProjectName,
		ConstructionLocation: s.Project.ConstructionLocation,
		ConstructionCompany:  s.Project.ConstructionCompany,
		Status:               string(s.Status),
		Progress:             s.Progress,
		CreatedAt:            s.Project.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            s.Project.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// scheduleJSON is the wire form of a schedule header.
type scheduleJSON struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
}

func toScheduleJSON(s models.Schedule) scheduleJSON {
	return scheduleJSON{
		ID:        s.ID,
		ProjectID: s.ProjectID,
		Version:   s.Version,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// itemJSON is the wire form of a schedule item.
type itemJSON struct {
	ID           string  `json:"id"`
	ScheduleID   string  `json:"schedule_id"`
	ProcessName  string  `json:"process_name"`
	PlannedStart string  `json:"planned_start_date"`
	PlannedEnd   string  `json:"planned_end_date"`
	ActualStart  *string `json:"actual_start_date"`
	ActualEnd    *string `json:"actual_end_date"`
	Status       string  `json:"status"`
	Assignee     string  `json:"assignee,omitempty"`
	Remarks      string  `json:"remarks,omitempty"`
	OrderIndex   int     `json:"order_index"`
}

func toItemJSON(it models.ScheduleItem) itemJSON {
	return itemJSON{
		ID:           it.ID,
		ScheduleID:   it.ScheduleID,
		ProcessName:  it.ProcessName,
		PlannedStart: fmtDate(it.PlannedStart),
		PlannedEnd:   fmtDate(it.PlannedEnd),
		ActualStart:  fmtDatePtr(it.ActualStart),
		ActualEnd:    fmtDatePtr(it.ActualEnd),
		Status:       string(it.Status.Normalize()),
		Assignee:     it.Assignee,
		Remarks:      it.Remarks,
		OrderIndex:   it.OrderIndex,
	}
}

func toItemListJSON(items []models.ScheduleItem) []itemJSON {
	out := make([]itemJSON, len(items))
	for i, it := range items {
		out[i] = toItemJSON(it)
	}
	return out
}

// barJSON is the wire form of one gantt bar.
type barJSON struct {
	ItemID             string `json:"item_id"`
	ProcessName        string `json:"process_name"`
	Status             string `json:"status"`
	PlannedStartOffset int    `json:"planned_start_offset"`
	PlannedDuration    int    `json:"planned_duration"`
	ActualStartOffset  *int   `json:"actual_start_offset"`
	ActualDuration     *int   `json:"actual_duration"`
}

// ganttJSON is the wire form of a gantt layout.
type ganttJSON struct {
	Timeline  []string  `json:"timeline"`
	TotalDays int       `json:"total_days"`
	Bars      []barJSON `json:"bars"`
}

func toGanttJSON(l gantt.Layout) ganttJSON {
	out := ganttJSON{
		Timeline:  make([]string, len(l.Timeline)),
		TotalDays: l.TotalDays,
		Bars:      make([]barJSON, len(l.Bars)),
	}
	for i, t := range l.Timeline {
		out.Timeline[i] = fmtDate(t)
	}
	for i, b := range l.Bars {
		out.Bars[i] = barJSON{
			ItemID:             b.ItemID,
			ProcessName:        b.ProcessName,
			Status:             string(b.Status),
			PlannedStartOffset: b.PlannedStartOffset,
			PlannedDuration:    b.PlannedDuration,
			ActualStartOffset:  b.ActualStartOffset,
			ActualDuration:     b.ActualDuration,
		}
	}
	return out
}

// itemRequest is the payload for creating an item (single or bulk).
// Optional date fields use empty string or null for "absent".
type itemRequest struct {
	ProcessName  string  `json:"process_name"`
	PlannedStart string  `json:"planned_start_date"`
	PlannedEnd   string  `json:"planned_end_date"`
	ActualStart  *string `json:"actual_start_date"`
	ActualEnd    *string `json:"actual_end_date"`
	Status       string  `json:"status"`
	Assignee     string  `json:"assignee"`
	Remarks      string  `json:"remarks"`
	OrderIndex   *int    `json:"order_index"`
}

func (r itemRequest) toOpts() (schedule.ItemOpts, error) {
	plannedStart, err := parseDate(r.PlannedStart)
	if err != nil {
		return schedule.ItemOpts{}, err
	}
	plannedEnd, err := parseDate(r.PlannedEnd)
	if err != nil {
		return schedule.ItemOpts{}, err
	}
	actualStart, err := parseOptionalDate(r.ActualStart)
	if err != nil {
		return schedule.ItemOpts{}, err
	}
	actualEnd, err := parseOptionalDate(r.ActualEnd)
	if err != nil {
		return schedule.ItemOpts{}, err
	}
	return schedule.ItemOpts{
		ProcessName:  r.ProcessName,
		PlannedStart: plannedStart,
		PlannedEnd:   plannedEnd,
		ActualStart:  actualStart,
		ActualEnd:    actualEnd,
		Status:       models.Status(r.Status),
		Assignee:     r.Assignee,
		Remarks:      r.Remarks,
		OrderIndex:   r.OrderIndex,
	}, nil
}

// itemUpdateRequest carries partial updates. A present-but-empty actual date
// clears the stored value; an absent field leaves it unchanged.
type itemUpdateRequest struct {
	ProcessName  *string `json:"process_name"`
	PlannedStart *string `json:"planned_start_date"`
	PlannedEnd   *string `json:"planned_end_date"`
	ActualStart  *string `json:"actual_start_date"`
	ActualEnd    *string `json:"actual_end_date"`
	Status       *string `json:"status"`
	Assignee     *string `json:"assignee"`
	Remarks      *string `json:"remarks"`
	OrderIndex   *int    `json:"order_index"`
}

func (r itemUpdateRequest) toUpdate() (schedule.ItemUpdate, error) {
	var upd schedule.ItemUpdate
	upd.ProcessName = r.ProcessName
	upd.Assignee = r.Assignee
	upd.Remarks = r.Remarks
	upd.OrderIndex = r.OrderIndex

	var err error
	if r.PlannedStart != nil {
		var t time.Time
		if t, err = parseDate(*r.PlannedStart); err != nil {
			return upd, err
		}
		upd.PlannedStart = &t
	}
	if r.PlannedEnd != nil {
		var t time.Time
		if t, err = parseDate(*r.PlannedEnd); err != nil {
			return upd, err
		}
		upd.PlannedEnd = &t
	}
	if r.ActualStart != nil {
		if *r.ActualStart == "" {
			upd.ClearActualStart = true
		} else if upd.ActualStart, err = parseOptionalDate(r.ActualStart); err != nil {
			return upd, err
		}
	}
	if r.ActualEnd != nil {
		if *r.ActualEnd == "" {
			upd.ClearActualEnd = true
		} else if upd.ActualEnd, err = parseOptionalDate(r.ActualEnd); err != nil {
			return upd, err
		}
	}
	if r.Status != nil {
		s := models.Status(*r.Status)
		upd.Status = &s
	}
	return upd, nil
}
