package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studymatch/backend/database"
	"github.com/studymatch/backend/models"
)

type SendInvitationInput struct {
	SessionID uint `json:"session_id" binding:"required" example:"1"`
	UserID    uint `json:"user_id" binding:"required" example:"2"`
}

type RespondInvitationInput struct {
	Response string `json:"response" binding:"required,oneof=accepted declined" example:"accepted"`
}

// GetInvitations godoc
// @Summary List invitations addressed to the authenticated user
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of invitations"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/study-sessions/invitations [get]
func GetInvitations(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var invitations []models.SessionInvitation
	if err := database.DB.Where("invitee_id = ?", userID).
		Preload("Session").Preload("Inviter").
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

// SendInvitation godoc
// @Summary Invite a user to a study session
// @Description Only the session creator can invite. Accepting later does not
// @Description enroll the invitee; they still join through the join call.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitation body SendInvitationInput true "Invitation"
// @Success 201 {object} map[string]interface{} "Invitation sent"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the session creator"
// @Failure 404 {object} map[string]string "Session or user not found"
// @Router /api/study-sessions/invitations [post]
func SendInvitation(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input SendInvitationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var session models.StudySession
	if err := database.DB.Where("id = ? AND is_active = ?", input.SessionID, true).
		First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	if session.CreatedByID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the session creator can send invitations"})
		return
	}

	if input.UserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot invite yourself"})
		return
	}

	var invitee models.User
	if err := database.DB.First(&invitee, input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Participants don't need an invitation
	var participant models.SessionParticipant
	if err := database.DB.Where("session_id = ? AND user_id = ?", session.ID, invitee.ID).
		First(&participant).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is already a participant"})
		return
	}

	var existing models.SessionInvitation
	if err := database.DB.Where("session_id = ? AND invitee_id = ? AND status = ?",
		session.ID, invitee.ID, models.InvitationStatusPending).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An invitation has already been sent to this user"})
		return
	}

	invitation := models.SessionInvitation{
		SessionID: session.ID,
		InviterID: userID,
		InviteeID: invitee.ID,
		Status:    models.InvitationStatusPending,
	}

	if err := database.DB.Create(&invitation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	database.DB.Preload("Session").Preload("Invitee").First(&invitation, invitation.ID)

	c.JSON(http.StatusCreated, gin.H{"invitation": invitation})
}

// RespondToInvitation godoc
// @Summary Respond to a session invitation
// @Description Single-shot: once accepted or declined the status never
// @Description changes again and further responses are rejected.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitation_id path int true "Invitation ID"
// @Param response body RespondInvitationInput true "Response"
// @Success 200 {object} map[string]interface{} "Response recorded"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invitation not found"
// @Failure 409 {object} map[string]string "Already responded"
// @Router /api/study-sessions/invitations/{invitation_id}/respond [post]
func RespondToInvitation(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	invitationID, err := strconv.ParseUint(c.Param("invitation_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invitation ID"})
		return
	}

	var input RespondInvitationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var invitation models.SessionInvitation
	if err := database.DB.Where("id = ? AND invitee_id = ?", invitationID, userID).
		First(&invitation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}

	if !invitation.IsPending() {
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation has already been responded to"})
		return
	}

	now := time.Now()
	invitation.Status = input.Response
	invitation.RespondedAt = &now
	if err := database.DB.Save(&invitation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invitation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitation": invitation})
}
