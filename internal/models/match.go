package models

import (
	"time"

	"gorm.io/datatypes"
)

// MatchStatus is the lifecycle state of a Match. Transitions are one way:
// active -> accepted or active -> declined.
type MatchStatus string

const (
	MatchActive   MatchStatus = "active"
	MatchAccepted MatchStatus = "accepted"
	MatchDeclined MatchStatus = "declined"
)

// Match groups two or more users, each bound through a MatchMember to the
// intention that earned their place. GroupSize always equals len(Members).
type Match struct {
	ID        string          `gorm:"primaryKey;type:char(36)" json:"id"`
	GroupSize int             `gorm:"not null" json:"groupSize"`
	Score     *float64        `json:"score,omitempty"`
	TierUsed  *int            `json:"tierUsed,omitempty"`
	Status    MatchStatus     `gorm:"size:16;not null;index" json:"status"`
	ThreadID  *string         `gorm:"type:char(36)" json:"threadId,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	ExpiresAt time.Time       `gorm:"not null" json:"expiresAt"`
	Members   []MatchMember   `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Feedback  []MatchFeedback `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"-"`
}

// MatchMember pins one intention to one match. Unique per (match, user).
type MatchMember struct {
	MatchID     string    `gorm:"primaryKey;type:char(36)" json:"matchId"`
	UserID      string    `gorm:"primaryKey;type:char(36);index" json:"userId"`
	IntentionID string    `gorm:"type:char(36);not null;index" json:"intentionId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MatchFeedback is an append-only observation from a member about a match.
type MatchFeedback struct {
	ID          string                      `gorm:"primaryKey;type:char(36)" json:"id"`
	MatchID     string                      `gorm:"type:char(36);not null;index" json:"matchId"`
	UserID      string                      `gorm:"type:char(36);not null;index" json:"userId"`
	MatchedOn   datatypes.JSONSlice[string] `json:"matchedOn" swaggertype:"array,string"`
	WasAccurate *bool                       `json:"wasAccurate,omitempty"`
	CreatedAt   time.Time                   `json:"createdAt"`
}

// HasMember reports whether userID is bound to the match.
func (m *Match) HasMember(userID string) bool {
	_, ok := m.Member(userID)
	return ok
}

// Member returns the membership row for userID, if loaded.
func (m *Match) Member(userID string) (MatchMember, bool) {
	for _, member := range m.Members {
		if member.UserID == userID {
			return member, true
		}
	}
	return MatchMember{}, false
}

// TableName overrides the table name for Match
func (Match) TableName() string {
	return "matches"
}

// TableName overrides the table name for MatchMember
func (MatchMember) TableName() string {
	return "match_members"
}

// TableName overrides the table name for MatchFeedback
func (MatchFeedback) TableName() string {
	return "match_feedback"
}
