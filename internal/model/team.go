package model

import "time"

// Team groups users, boards and task templates.
type Team struct {
	ID        uint `gorm:"primaryKey"`
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TeamMember links a user to a team.
type TeamMember struct {
	ID        uint `gorm:"primaryKey"`
	TeamID    uint `gorm:"index:idx_team_member,unique"`
	UserID    uint `gorm:"index:idx_team_member,unique"`
	CreatedAt time.Time
}
