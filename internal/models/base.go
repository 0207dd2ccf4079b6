package models

import (
	"time"

	"gorm.io/gorm"
)

// Base contains common columns for all tables. DeletedAt doubles as the
// soft-delete flag: gorm excludes rows with a non-null value from normal reads.
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the row has been soft-deleted.
func (b Base) IsDeleted() bool {
	return b.DeletedAt.Valid
}

// All lists every model managed by the schema, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Task{},
		&Expense{},
		&MeetingSchedule{},
		&CountryLog{},
		&Notification{},
		&AuditLog{},
	}
}
