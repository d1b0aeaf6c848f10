package model

import "time"

// Form assignment statuses. Pending is the only open state.
const (
	FormStatusPending   = "pending"
	FormStatusSubmitted = "submitted"
)

// Form is a fillable form definition owned by a team.
type Form struct {
	ID          uint `gorm:"primaryKey"`
	TeamID      uint `gorm:"index"`
	Title       string
	Description string
	IsActive    bool `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FormAssignment asks a user to fill a form by a due time.
type FormAssignment struct {
	ID         uint `gorm:"primaryKey"`
	FormID     uint `gorm:"index"`
	AssigneeID uint `gorm:"index"`
	Title      string
	Status     string     `gorm:"size:16;index;default:pending"`
	DueAt      *time.Time `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
