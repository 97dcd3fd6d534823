package models

import "time"

// Schedule is one version of a project's process table. A project keeps every
// imported or manually created version; the highest version is the current one.
type Schedule struct {
	ID        string `gorm:"primaryKey;size:36"`
	ProjectID string `gorm:"size:36;not null;index:idx_project_version,unique"`
	Version   int    `gorm:"not null;index:idx_project_version,unique"`
	CreatedAt time.Time

	Items []ScheduleItem `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE"`
}

// ScheduleItem is a single construction process step.
type ScheduleItem struct {
	ID           string `gorm:"primaryKey;size:36"`
	ScheduleID   string `gorm:"size:36;not null;index"`
	ProcessName  string `gorm:"size:255;not null"`
	PlannedStart time.Time
	PlannedEnd   time.Time
	ActualStart  *time.Time
	ActualEnd    *time.Time
	Status       Status `gorm:"size:16;default:not_started"`
	Assignee     string `gorm:"size:64"`
	Remarks      string `gorm:"type:text"`
	OrderIndex   int    `gorm:"default:0"`
}
