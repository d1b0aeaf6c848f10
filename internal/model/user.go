package model

import "time"

// User stores account metadata and notification preferences.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"uniqueIndex"`
	FullName       string
	EmailEnabled   bool `gorm:"default:true"`
	TelegramChatID int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
