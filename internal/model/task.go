package model

import "time"

// Task statuses. Todo and Doing are the open (non-terminal) states.
const (
	StatusTodo  = "todo"
	StatusDoing = "doing"
	StatusDone  = "done"
	StatusStuck = "stuck"
)

// OpenStatuses lists the statuses that still count as actionable for
// overdue and reminder sweeps.
var OpenStatuses = []string{StatusTodo, StatusDoing}

// Task represents a single card on a board.
type Task struct {
	ID          uint `gorm:"primaryKey"`
	BoardID     uint `gorm:"index"`
	ListID      uint `gorm:"index"`
	Title       string
	Description string
	Priority    string     `gorm:"size:16;default:medium"`
	Status      string     `gorm:"size:16;index;default:todo"`
	AssigneeID  *uint      `gorm:"index"`
	DueAt       *time.Time `gorm:"index"`

	// TemplateID is a weak back-reference to the template that spawned
	// this task. Lookup only: deleting the template leaves the task
	// untouched.
	TemplateID *uint `gorm:"index"`

	EstimatedHours float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
