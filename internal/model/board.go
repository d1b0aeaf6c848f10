package model

import "time"

// Board is a kanban board belonging to a team.
type Board struct {
	ID        uint `gorm:"primaryKey"`
	TeamID    uint `gorm:"index"`
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoListName is the canonical english name of the list that receives
// spawned tasks.
const TodoListName = "To Do"

// List is a column on a board. NameEn carries the canonical english
// name ("To Do", "Doing", ...) while Name holds the localized label.
type List struct {
	ID        uint `gorm:"primaryKey"`
	BoardID   uint `gorm:"index"`
	Name      string
	NameEn    string `gorm:"index"`
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
