package models

import (
	"time"

	"gorm.io/gorm"
)

// Driver type values
const (
	DriverTypeCompany       = "company"
	DriverTypeOwnerOperator = "owner_operator"
)

// Driver availability status values
const (
	DriverStatusActive  = "active"
	DriverStatusPassive = "passive"
)

// Driver represents a public truck-driver listing in the marketplace.
// Contact details live in DriverPrivate and are only reachable through
// the unlock flow.
type Driver struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	FirstName       string         `gorm:"not null" json:"first_name"`
	LastInitial     string         `gorm:"not null" json:"last_initial"`
	City            string         `json:"city"`
	State           string         `json:"state"`
	LivingCity      string         `json:"living_city"`
	LivingState     string         `json:"living_state"`
	DOB             *time.Time     `json:"dob"`
	DriverType      string         `gorm:"not null;default:'company'" json:"driver_type"` // "company" or "owner_operator"
	ExperienceYears int            `json:"experience_years"`
	Endorsements    []string       `gorm:"serializer:json" json:"endorsements"`
	Status          string         `json:"status"` // "active", "passive" or empty
	UserID          *string        `gorm:"index" json:"user_id,omitempty"` // set when the driver self-registered
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Driver model
func (Driver) TableName() string {
	return "drivers"
}
