package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studymatch/backend/database"
	"github.com/studymatch/backend/models"
	"github.com/studymatch/backend/websocket"
)

type CreateMessageInput struct {
	Content string `json:"content" binding:"required" example:"Hello!"`
}

// GetChatRooms godoc
// @Summary List the authenticated user's chat rooms
// @Description Returns every active room the user participates in, with the
// @Description counterpart profile and the unread message count.
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of rooms"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/chat/rooms [get]
func GetChatRooms(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var rooms []models.ChatRoom
	if err := database.DB.
		Where("is_active = ?", true).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rooms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat rooms"})
		return
	}

	response := []gin.H{}
	for i := range rooms {
		other, err := loadSimpleProfile(rooms[i].OtherUserID(userID))
		if err != nil {
			continue
		}

		var unreadCount int64
		database.DB.Model(&models.Message{}).
			Where("chat_room_id = ? AND sender_id <> ? AND is_read = ?", rooms[i].ID, userID, false).
			Count(&unreadCount)

		response = append(response, gin.H{
			"id":           rooms[i].ID,
			"other_user":   other,
			"created_at":   rooms[i].CreatedAt,
			"unread_count": unreadCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"rooms": response})
}

// CreateChatRoom godoc
// @Summary Get or create the chat room with another user
// @Description Idempotent: the room for a pair is created on first call and
// @Description returned as-is afterwards, whichever side asks.
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "Counterpart user ID"
// @Success 200 {object} map[string]interface{} "Existing room"
// @Success 201 {object} map[string]interface{} "Room created"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /api/chat/rooms/create/{user_id} [post]
func CreateChatRoom(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	otherID64, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	otherID := uint(otherID64)

	if otherID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot open a chat with yourself"})
		return
	}

	var other models.User
	if err := database.DB.First(&other, otherID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	room := models.ChatRoom{User1ID: userID, User2ID: otherID, IsActive: true}
	room.EnsureCanonicalOrder()

	var existing models.ChatRoom
	result := database.DB.Where("user1_id = ? AND user2_id = ?", room.User1ID, room.User2ID).
		First(&existing)
	if result.Error == nil {
		c.JSON(http.StatusOK, gin.H{"room": existing})
		return
	}

	if err := database.DB.Create(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat room"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"room": room})
}

// GetMessages godoc
// @Summary Get the full message history of a room
// @Description History is ordered by timestamp, ties broken by ID. Fetching
// @Description marks the counterpart's messages as read.
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param room_id path int true "Room ID"
// @Success 200 {object} map[string]interface{} "List of messages"
// @Failure 400 {object} map[string]string "Invalid room ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Room not found"
// @Router /api/chat/messages/{room_id} [get]
func GetMessages(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	room, ok := roomForMember(c, userID)
	if !ok {
		return
	}

	// Viewing the history marks the counterpart's messages as read
	database.DB.Model(&models.Message{}).
		Where("chat_room_id = ? AND sender_id <> ? AND is_read = ?", room.ID, userID, false).
		Update("is_read", true)

	var messages []models.Message
	if err := database.DB.Where("chat_room_id = ?", room.ID).
		Order("created_at ASC, id ASC").
		Preload("Sender").
		Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// CreateMessage godoc
// @Summary Send a message to a room
// @Description Content must be non-empty after trimming. The saved message is
// @Description also broadcast to the room's live subscribers.
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param room_id path int true "Room ID"
// @Param message body CreateMessageInput true "Message"
// @Success 201 {object} map[string]interface{} "Message sent"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Room not found"
// @Router /api/chat/messages/{room_id} [post]
func CreateMessage(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	room, ok := roomForMember(c, userID)
	if !ok {
		return
	}

	var input CreateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content cannot be empty"})
		return
	}

	message := models.Message{
		ChatRoomID: room.ID,
		SenderID:   userID,
		Content:    content,
	}

	if err := database.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message"})
		return
	}

	database.DB.Preload("Sender").First(&message, message.ID)

	// Socket subscribers see REST sends too
	if message.Sender != nil {
		websocket.BroadcastToRoom(room.ID, message.Sender.Username, message.Content)
	}

	c.JSON(http.StatusCreated, gin.H{"data": message})
}

// roomForMember loads the room from the path and enforces membership,
// writing the error response itself when the check fails.
func roomForMember(c *gin.Context, userID uint) (models.ChatRoom, bool) {
	roomID, err := strconv.ParseUint(c.Param("room_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return models.ChatRoom{}, false
	}

	var room models.ChatRoom
	if err := database.DB.Where("id = ? AND is_active = ?", roomID, true).First(&room).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat room not found"})
		return models.ChatRoom{}, false
	}

	if !room.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this room"})
		return models.ChatRoom{}, false
	}

	return room, true
}
