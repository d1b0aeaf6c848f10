package model

import "time"

// Notification types. The pair (UserID, Type, RelatedID) acts as the
// dedup ledger: existence of a record suppresses re-notification of
// that kind for that item. Reminder types carry the lead-time label so
// the three reminder windows stay independent of each other.
const (
	NoticeAssignment         = "assignment"
	NoticeTaskOverdue        = "task_overdue"
	NoticeTaskReminder       = "task_reminder"
	NoticeTaskStatusChanged  = "task_status_changed"
	NoticeFormAssignment     = "form_assignment"
	NoticeFormOverdue        = "form_overdue"
	NoticeFormReminder       = "form_reminder"
	NoticeTeamAssignment     = "team_assignment"
	NoticeRecurringGenerated = "recurring_tasks_generated"
)

// Related entity kinds referenced by notifications.
const (
	RelatedTask           = "task"
	RelatedFormAssignment = "form_assignment"
	RelatedTeam           = "team"
)

// Delivery channels. InApp is always written first and is the source
// of truth; the others are best-effort.
const (
	ChannelInApp    = "in_app"
	ChannelEmail    = "email"
	ChannelTelegram = "telegram"
)

// Notification is an in-app notification record.
type Notification struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index:idx_notice_ledger"`
	Type        string `gorm:"size:48;index:idx_notice_ledger"`
	RelatedID   uint   `gorm:"index:idx_notice_ledger"`
	RelatedType string `gorm:"size:32"`
	Title       string
	Message     string
	Channel     string         `gorm:"size:16"`
	IsRead      bool           `gorm:"default:false"`
	Metadata    map[string]any `gorm:"serializer:json"`
	CreatedAt   time.Time
}
