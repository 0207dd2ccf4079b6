package models

import "time"

// User represents an account holder. RefreshTokenHash stores the digest of
// the single active refresh token; a new login overwrites it.
type User struct {
	Base
	Name             string     `gorm:"size:100" json:"name"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
}
