package models

import "time"

// Notification source types.
const (
	NotificationSourceTask       = "Task"
	NotificationSourceCountryLog = "Country Log"
)

// Notification is a reminder keyed by (SourceType, SourceID).
type Notification struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	SourceType string     `gorm:"size:30;not null;index:idx_notifications_source,priority:1" json:"source_type"`
	SourceID   uint       `gorm:"not null;index:idx_notifications_source,priority:2" json:"source_id"`
	Title      string     `json:"title"`
	Message    string     `gorm:"not null" json:"message"`
	NotifyAt   *time.Time `json:"notify_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
}
