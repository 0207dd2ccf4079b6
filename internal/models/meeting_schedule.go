package models

import "time"

// MeetingSchedule is a calendar entry that can be exported as an ICS file.
type MeetingSchedule struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `gorm:"not null" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
}
