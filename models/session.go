package models

import (
	"time"
)

type StudySession struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	SubjectID       *uint     `json:"subject_id,omitempty"`
	Subject         *Subject  `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	SubjectName     string    `gorm:"size:100" json:"subject_name"`
	CreatedByID     uint      `gorm:"not null;index" json:"created_by"`
	CreatedBy       *User     `gorm:"foreignKey:CreatedByID" json:"-"`
	ScheduledTime   time.Time `gorm:"not null" json:"scheduled_time"`
	DurationMinutes int       `gorm:"default:60" json:"duration_minutes"`
	MaxParticipants int       `gorm:"default:4" json:"max_participants"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`

	Participants []SessionParticipant `gorm:"foreignKey:SessionID" json:"participants,omitempty"`
}

// HasStarted reports whether the scheduled time has already elapsed.
func (s *StudySession) HasStarted(now time.Time) bool {
	return !s.ScheduledTime.After(now)
}

type SessionParticipant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;index:idx_session_user,unique" json:"session_id"`
	UserID    uint      `gorm:"not null;index:idx_session_user,unique" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
