package models

import "time"

// Unlock records a permanent entitlement for one recruiter to view one
// driver's private data. The composite unique index on (user_id, driver_id)
// is what guarantees at most one paid unlock per pair; the webhook handler
// upserts against it and is the only writer.
type Unlock struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	UserID              string    `gorm:"not null;uniqueIndex:idx_unlocks_user_driver" json:"user_id"`
	DriverID            uint      `gorm:"not null;uniqueIndex:idx_unlocks_user_driver" json:"driver_id"`
	StripePaymentIntent string    `json:"stripe_payment_intent"`
	CreatedAt           time.Time `json:"created_at"`
}

// TableName specifies the table name for the Unlock model
func (Unlock) TableName() string {
	return "unlocks"
}
