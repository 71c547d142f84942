package models

import (
	"time"
)

// User is the minimal user directory row. Rows are upserted from
// authenticated sessions so match creation can check existence locally.
type User struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Email     *string   `gorm:"size:255" json:"email,omitempty"`
	IsAdmin   bool      `gorm:"not null" json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
