package model

import "time"

// Meeting formats for accepted study invites.
const (
	MeetingFormatOnline   = "online"
	MeetingFormatInPerson = "in_person"
)

// SessionInvite — session_invites table.
// Invariant: at most one acceptor; accepted_by transitions exactly once from
// NULL to a user id, enforced by a conditional update at the repository.
type SessionInvite struct {
	InviteID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"invite_id"`
	SessionID      string     `gorm:"type:uuid;not null"                             json:"session_id"`
	InvitedBy      string     `gorm:"type:uuid;not null"                             json:"invited_by"`
	UniqueToken    string     `gorm:"type:varchar(64);not null;uniqueIndex"          json:"unique_token"`
	ExpiresAt      time.Time  `gorm:"not null"                                       json:"expires_at"` // session start − 24h
	AcceptedBy     *string    `gorm:"type:uuid"                                      json:"accepted_by,omitempty"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	MeetingFormat  *string    `gorm:"type:varchar(20)"                               json:"meeting_format,omitempty"`
	MeetingAddress *string    `gorm:"type:varchar(255)"                              json:"meeting_address,omitempty"`
	MeetingLink    *string    `gorm:"type:varchar(255)"                              json:"meeting_link,omitempty"`
	BaseModel

	Session *RevisionSession `gorm:"foreignKey:SessionID;references:SessionID" json:"session,omitempty"`
}

func (SessionInvite) TableName() string { return "session_invites" }
