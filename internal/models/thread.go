package models

import (
	"time"
)

// Thread is the messaging linkage an accepted match points at. Message
// content lives elsewhere; only the participant set matters here.
type Thread struct {
	ID           string              `gorm:"primaryKey;type:char(36)" json:"id"`
	CreatedAt    time.Time           `json:"createdAt"`
	Participants []ThreadParticipant `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
}

// ThreadParticipant joins users to threads
type ThreadParticipant struct {
	ThreadID string `gorm:"primaryKey;type:char(36)" json:"threadId"`
	UserID   string `gorm:"primaryKey;type:char(36);index" json:"userId"`
}

// TableName overrides the table name for Thread
func (Thread) TableName() string {
	return "threads"
}

// TableName overrides the table name for ThreadParticipant
func (ThreadParticipant) TableName() string {
	return "thread_participants"
}
