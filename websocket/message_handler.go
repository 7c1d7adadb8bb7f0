package websocket

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/studymatch/backend/database"
	"github.com/studymatch/backend/models"
)

// IncomingMessage is the payload clients send over the socket
type IncomingMessage struct {
	Message string `json:"message"`
}

// SaveMessage persists a chat message sent over the socket
func SaveMessage(userID, roomID uint, content string) (models.Message, error) {
	message := models.Message{
		ChatRoomID: roomID,
		SenderID:   userID,
		Content:    content,
	}

	if err := database.DB.Create(&message).Error; err != nil {
		return message, err
	}

	return message, nil
}

// HandleIncomingMessage processes an incoming WebSocket message: the content
// is trimmed, persisted and then broadcast to the room group. Empty messages
// are dropped without a round trip to the database.
func HandleIncomingMessage(client *Client, messageBytes []byte) {
	var incoming IncomingMessage
	if err := json.Unmarshal(messageBytes, &incoming); err != nil {
		sendErrorToClient(client, "Invalid JSON format")
		return
	}

	content := strings.TrimSpace(incoming.Message)
	if content == "" {
		return
	}

	if _, err := SaveMessage(client.userID, client.roomID, content); err != nil {
		log.Printf("error saving message for room %d: %v", client.roomID, err)
		sendErrorToClient(client, "Failed to save message")
		return
	}

	event := ChatEvent{Username: client.username, Message: content}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("error marshaling chat event: %v", err)
		return
	}

	client.hub.broadcastToRoom(client.roomID, eventBytes)
}

func sendErrorToClient(client *Client, errorMessage string) {
	errorBytes, _ := json.Marshal(map[string]string{"error": errorMessage})
	// The write side may already be gone; never block the readPump
	select {
	case client.send <- errorBytes:
	default:
	}
}
