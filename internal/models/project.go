package models

import "time"

// Project is a tracked construction job.
type Project struct {
	ID                   string `gorm:"primaryKey;size:36"`
	ProjectNumber        int    `gorm:"uniqueIndex;not null"`
	ProjectName          string `gorm:"size:255;not null"`
	ConstructionLocation string `gorm:"size:255"`
	ConstructionCompany  string `gorm:"size:255"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Schedules []Schedule `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}
