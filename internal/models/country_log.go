package models

import "time"

// CountryLog records a stay in a country under a given visa.
type CountryLog struct {
	Base
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	CountryName   string     `gorm:"size:100;not null" json:"country_name"`
	VisaType      string     `gorm:"size:100" json:"visa_type"`
	EntryDate     time.Time  `gorm:"not null" json:"entry_date"`
	ExitDate      *time.Time `json:"exit_date,omitempty"`
	VisaLimitDays int        `json:"visa_limit_days"`
	NotifyAt      *time.Time `json:"notify_at,omitempty"`
}
