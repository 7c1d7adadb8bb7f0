package models

import (
	"time"
)

// ChatRoom is the message channel between exactly two matched users.
// User1ID is always the smaller ID so the pair is unique in either direction.
type ChatRoom struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	User1ID   uint      `gorm:"not null;index:idx_chat_room_pair,unique" json:"user1_id"`
	User1     *User     `gorm:"foreignKey:User1ID" json:"user1,omitempty"`
	User2ID   uint      `gorm:"not null;index:idx_chat_room_pair,unique" json:"user2_id"`
	User2     *User     `gorm:"foreignKey:User2ID" json:"user2,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `gorm:"foreignKey:ChatRoomID" json:"messages,omitempty"`
}

// EnsureCanonicalOrder swaps the pair so User1ID holds the smaller ID.
// Call before creating a ChatRoom record.
func (r *ChatRoom) EnsureCanonicalOrder() {
	if r.User1ID > r.User2ID {
		r.User1ID, r.User2ID = r.User2ID, r.User1ID
	}
}

// HasParticipant reports whether userID is one of the two room members.
func (r *ChatRoom) HasParticipant(userID uint) bool {
	return r.User1ID == userID || r.User2ID == userID
}

// OtherUserID returns the counterpart of userID in the room.
func (r *ChatRoom) OtherUserID(userID uint) uint {
	if r.User1ID == userID {
		return r.User2ID
	}
	return r.User1ID
}
