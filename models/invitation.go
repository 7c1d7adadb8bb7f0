package models

import (
	"time"
)

// Invitation statuses. A pending invitation transitions to accepted or
// declined exactly once; terminal statuses never change again.
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
)

// SessionInvitation is a directed offer from a session creator to a
// prospective participant. Accepting records intent only; the invitee still
// joins the session through the regular join call.
type SessionInvitation struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	SessionID   uint          `gorm:"not null;index" json:"session_id"`
	Session     *StudySession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	InviterID   uint          `gorm:"not null" json:"inviter_id"`
	Inviter     *User         `gorm:"foreignKey:InviterID" json:"inviter,omitempty"`
	InviteeID   uint          `gorm:"not null;index" json:"invitee_id"`
	Invitee     *User         `gorm:"foreignKey:InviteeID" json:"invitee,omitempty"`
	Status      string        `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	RespondedAt *time.Time    `json:"responded_at,omitempty"`
}

// IsPending reports whether the invitation can still be responded to.
func (i *SessionInvitation) IsPending() bool {
	return i.Status == InvitationStatusPending
}
