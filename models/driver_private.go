package models

import (
	"time"

	"gorm.io/gorm"
)

// DriverPrivate is the sensitive contact bundle for one driver.
// Rows are never returned to a caller without an Unlock for the pair.
type DriverPrivate struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	DriverID    uint           `gorm:"uniqueIndex;not null" json:"driver_id"`
	Driver      Driver         `gorm:"foreignKey:DriverID" json:"-"`
	Phone       string         `json:"phone"`
	Email       string         `json:"email"`
	CDLNumber   string         `json:"cdl_number"`
	CDLFilePath string         `json:"-"` // S3 key, never serialized to clients
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the DriverPrivate model
func (DriverPrivate) TableName() string {
	return "driver_private"
}
