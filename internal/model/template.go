package model

import "time"

// Recurrence frequencies.
const (
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
	FreqYearly  = "yearly"
)

// RecurrenceRule describes how often a template spawns a task.
//
// DaysOfWeek is a comma-separated list of weekday tags. It is stored
// and editable but the weekly schedule currently advances by whole
// weeks from the anchor without consulting it.
type RecurrenceRule struct {
	Frequency  string `gorm:"size:16"`
	Interval   int    `gorm:"default:1"`
	DaysOfWeek string
}

// TaskTemplate is a recurring task definition owned by a team.
// LastSpawnedAt is mutated only by the spawner and strictly advances.
type TaskTemplate struct {
	ID                uint `gorm:"primaryKey"`
	TeamID            uint `gorm:"index"`
	Title             string
	Description       string
	Priority          string         `gorm:"size:16;default:medium"`
	Recurrence        RecurrenceRule `gorm:"embedded;embeddedPrefix:recur_"`
	LastSpawnedAt     *time.Time
	IsActive          bool `gorm:"default:true;index"`
	DefaultAssigneeID *uint
	EstimatedHours    float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
