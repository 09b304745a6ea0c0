package models

import (
	"time"

	"gorm.io/gorm"
)

// RoleAdmin is the profiles.role value that grants access to the admin API.
const RoleAdmin = "admin"

// Profile is a role-bearing record keyed by the Auth0 user ID. It exists
// purely as an authorization input for the admin endpoints.
type Profile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"uniqueIndex;not null" json:"user_id"` // Auth0 user ID (from 'sub' claim)
	Role      string         `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}
