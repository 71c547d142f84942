package models

import (
	"time"
)

// IntentionStatus is the lifecycle state of an Intention.
type IntentionStatus string

const (
	IntentionActive  IntentionStatus = "active"
	IntentionMatched IntentionStatus = "matched"
	IntentionExpired IntentionStatus = "expired"
)

// Intention is a user's standing, time-boxed request to be matched.
// At most one active intention exists per user; see data/indexes for the
// dialect specific partial unique index backing that rule.
type Intention struct {
	ID         string          `gorm:"primaryKey;type:char(36)" json:"id"`
	UserID     string          `gorm:"type:char(36);not null;index" json:"userId"`
	ParsedJSON JSON            `gorm:"column:parsed_json" json:"parsedJson" swaggertype:"object"`
	Status     IntentionStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	ValidUntil time.Time       `gorm:"not null;index" json:"validUntil"`
	PoolEntry  *PoolEntry      `gorm:"foreignKey:IntentionID;constraint:OnDelete:CASCADE" json:"-"`
}

// PoolEntry marks an intention as eligible for matching. It exists iff the
// intention is active and not bound to any match.
type PoolEntry struct {
	IntentionID string    `gorm:"primaryKey;type:char(36)" json:"intentionId"`
	Tier        int       `gorm:"not null" json:"tier"`
	JoinedAt    time.Time `gorm:"not null" json:"joinedAt"`
}

// TableName overrides the table name for Intention
func (Intention) TableName() string {
	return "intentions"
}

// TableName overrides the table name for PoolEntry
func (PoolEntry) TableName() string {
	return "pool_entries"
}
