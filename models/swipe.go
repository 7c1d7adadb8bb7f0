package models

import (
	"time"
)

// Swipe actions
const (
	SwipeActionLike = "like"
	SwipeActionPass = "pass"
)

// Swipe is one user's like/pass decision on another. There is exactly one
// decision per (swiper, swiped_user) pair; a later decision replaces the
// stored one unless the pair has already matched.
type Swipe struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SwiperID     uint      `gorm:"not null;index:idx_swipe_pair,unique" json:"swiper_id"`
	SwipedUserID uint      `gorm:"not null;index:idx_swipe_pair,unique" json:"swiped_user_id"`
	SwipedUser   *User     `gorm:"foreignKey:SwipedUserID" json:"swiped_user,omitempty"`
	Action       string    `gorm:"size:10;not null;default:'like'" json:"action"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Match records a confirmed mutual like. User1ID is always the smaller ID so
// the pair is unique regardless of which side's like landed second.
type Match struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	User1ID   uint      `gorm:"not null;index:idx_match_pair,unique" json:"user1_id"`
	User1     *User     `gorm:"foreignKey:User1ID" json:"user1,omitempty"`
	User2ID   uint      `gorm:"not null;index:idx_match_pair,unique" json:"user2_id"`
	User2     *User     `gorm:"foreignKey:User2ID" json:"user2,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// EnsureCanonicalOrder swaps the pair so User1ID holds the smaller ID.
// Call before creating a Match record.
func (m *Match) EnsureCanonicalOrder() {
	if m.User1ID > m.User2ID {
		m.User1ID, m.User2ID = m.User2ID, m.User1ID
	}
}

// OtherUserID returns the counterpart of userID in the match.
func (m *Match) OtherUserID(userID uint) uint {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}
