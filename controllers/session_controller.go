package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studymatch/backend/database"
	"github.com/studymatch/backend/models"
)

type CreateSessionInput struct {
	Title           string    `json:"title" binding:"required" example:"Calculus cram session"`
	Description     string    `json:"description"`
	SubjectID       *uint     `json:"subject_id"`
	SubjectName     string    `json:"subject_name"`
	ScheduledTime   time.Time `json:"scheduled_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	MaxParticipants int       `json:"max_participants"`
}

// GetSessions godoc
// @Summary List upcoming study sessions
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of sessions"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/study-sessions/sessions [get]
func GetSessions(c *gin.Context) {
	var sessions []models.StudySession
	if err := database.DB.
		Where("is_active = ? AND scheduled_time >= ?", true, time.Now()).
		Order("scheduled_time ASC").
		Preload("Subject").
		Preload("Participants").
		Preload("Participants.User").
		Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessionViews(sessions)})
}

// GetMySessions godoc
// @Summary List sessions the user created or participates in
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of sessions"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/study-sessions/my-sessions [get]
func GetMySessions(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var sessionIDs []uint
	if err := database.DB.Model(&models.SessionParticipant{}).
		Where("user_id = ?", userID).
		Pluck("session_id", &sessionIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}

	query := database.DB.Where("is_active = ?", true)
	if len(sessionIDs) > 0 {
		query = query.Where("created_by_id = ? OR id IN ?", userID, sessionIDs)
	} else {
		query = query.Where("created_by_id = ?", userID)
	}

	var sessions []models.StudySession
	if err := query.Order("scheduled_time ASC").
		Preload("Subject").
		Preload("Participants").
		Preload("Participants.User").
		Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessionViews(sessions)})
}

// CreateSession godoc
// @Summary Create a study session
// @Description The creator is enrolled as the first participant.
// @Tags study-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body CreateSessionInput true "Session"
// @Success 201 {object} map[string]interface{} "Session created"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/study-sessions/create [post]
func CreateSession(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.ScheduledTime.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scheduled time must be in the future"})
		return
	}
	if input.MaxParticipants == 0 {
		input.MaxParticipants = 4
	}
	if input.MaxParticipants < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sessions need room for at least two participants"})
		return
	}
	if input.DurationMinutes == 0 {
		input.DurationMinutes = 60
	}

	subjectName := input.SubjectName
	if input.SubjectID != nil {
		var subject models.Subject
		if err := database.DB.First(&subject, *input.SubjectID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Subject not found"})
			return
		}
		subjectName = subject.Name
	}

	session := models.StudySession{
		Title:           input.Title,
		Description:     input.Description,
		SubjectID:       input.SubjectID,
		SubjectName:     subjectName,
		CreatedByID:     userID,
		ScheduledTime:   input.ScheduledTime,
		DurationMinutes: input.DurationMinutes,
		MaxParticipants: input.MaxParticipants,
		IsActive:        true,
	}

	if err := database.DB.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	// The creator takes the first slot
	participant := models.SessionParticipant{SessionID: session.ID, UserID: userID}
	if err := database.DB.Create(&participant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enroll creator"})
		return
	}

	database.DB.Preload("Subject").Preload("Participants").Preload("Participants.User").
		First(&session, session.ID)

	c.JSON(http.StatusCreated, gin.H{"session": sessionView(&session)})
}

// JoinSession godoc
// @Summary Join a study session
// @Description Rejected when the session is full or has already started.
// @Description Joining a session you are already in is a no-op.
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Param session_id path int true "Session ID"
// @Success 200 {object} map[string]string "Already a participant"
// @Success 201 {object} map[string]string "Joined"
// @Failure 400 {object} map[string]string "Invalid session ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session full or already started"
// @Router /api/study-sessions/join/{session_id} [post]
func JoinSession(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	session, ok := activeSessionFromPath(c)
	if !ok {
		return
	}

	var existing models.SessionParticipant
	if err := database.DB.Where("session_id = ? AND user_id = ?", session.ID, userID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"status": "You are already a participant"})
		return
	}

	if session.HasStarted(time.Now()) {
		c.JSON(http.StatusConflict, gin.H{"error": "The session has already started"})
		return
	}

	var count int64
	database.DB.Model(&models.SessionParticipant{}).
		Where("session_id = ?", session.ID).Count(&count)
	if count >= int64(session.MaxParticipants) {
		c.JSON(http.StatusConflict, gin.H{"error": "The session is full"})
		return
	}

	participant := models.SessionParticipant{SessionID: session.ID, UserID: userID}
	if err := database.DB.Create(&participant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "You joined the session"})
}

// LeaveSession godoc
// @Summary Leave a study session
// @Description The creator cannot leave; they delete the session instead.
// @Description Leaving a session you are not in is a no-op.
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Param session_id path int true "Session ID"
// @Success 200 {object} map[string]string "Left (or was not a participant)"
// @Failure 400 {object} map[string]string "Creator cannot leave"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /api/study-sessions/leave/{session_id} [post]
func LeaveSession(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	session, ok := activeSessionFromPath(c)
	if !ok {
		return
	}

	if session.CreatedByID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The creator cannot leave the session, delete it instead"})
		return
	}

	var participant models.SessionParticipant
	if err := database.DB.Where("session_id = ? AND user_id = ?", session.ID, userID).
		First(&participant).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "You are not a participant"})
		return
	}

	if err := database.DB.Delete(&participant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "You left the session"})
}

// DeleteSession godoc
// @Summary Delete a study session
// @Description Creator-only. Deactivates the session and removes its
// @Description invitations.
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Param session_id path int true "Session ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the creator"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /api/study-sessions/delete/{session_id} [delete]
func DeleteSession(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	session, ok := activeSessionFromPath(c)
	if !ok {
		return
	}

	if session.CreatedByID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator can delete the session"})
		return
	}

	session.IsActive = false
	if err := database.DB.Save(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
		return
	}

	// Pending or answered, invitations die with their session
	if err := database.DB.Where("session_id = ?", session.ID).
		Delete(&models.SessionInvitation{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove invitations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Session deleted"})
}

// GetSessionParticipants godoc
// @Summary List a session's participants
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Param session_id path int true "Session ID"
// @Success 200 {object} map[string]interface{} "List of participants"
// @Failure 400 {object} map[string]string "Invalid session ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /api/study-sessions/participants/{session_id} [get]
func GetSessionParticipants(c *gin.Context) {
	session, ok := activeSessionFromPath(c)
	if !ok {
		return
	}

	var participants []models.SessionParticipant
	if err := database.DB.Where("session_id = ?", session.ID).
		Order("joined_at ASC").
		Preload("User").
		Preload("User.Profile").
		Find(&participants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch participants"})
		return
	}

	response := []gin.H{}
	for i := range participants {
		entry := gin.H{
			"id":        participants[i].ID,
			"user_id":   participants[i].UserID,
			"joined_at": participants[i].JoinedAt,
		}
		if participants[i].User != nil {
			entry["user"] = models.SimpleProfileFor(participants[i].User)
		}
		response = append(response, entry)
	}

	c.JSON(http.StatusOK, gin.H{"participants": response})
}

func activeSessionFromPath(c *gin.Context) (models.StudySession, bool) {
	sessionID, err := strconv.ParseUint(c.Param("session_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return models.StudySession{}, false
	}

	var session models.StudySession
	if err := database.DB.Where("id = ? AND is_active = ?", sessionID, true).
		First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return models.StudySession{}, false
	}

	return session, true
}

func sessionView(s *models.StudySession) gin.H {
	participantsCount := len(s.Participants)
	view := gin.H{
		"id":                 s.ID,
		"title":              s.Title,
		"description":        s.Description,
		"subject_id":         s.SubjectID,
		"subject_name":       s.SubjectName,
		"created_by":         s.CreatedByID,
		"scheduled_time":     s.ScheduledTime,
		"duration_minutes":   s.DurationMinutes,
		"max_participants":   s.MaxParticipants,
		"participants_count": participantsCount,
		"available_slots":    s.MaxParticipants - participantsCount,
		"is_active":          s.IsActive,
		"created_at":         s.CreatedAt,
	}

	participants := []gin.H{}
	for i := range s.Participants {
		entry := gin.H{
			"id":        s.Participants[i].ID,
			"user_id":   s.Participants[i].UserID,
			"joined_at": s.Participants[i].JoinedAt,
		}
		if s.Participants[i].User != nil {
			entry["username"] = s.Participants[i].User.Username
		}
		participants = append(participants, entry)
	}
	view["participants"] = participants

	return view
}

func sessionViews(sessions []models.StudySession) []gin.H {
	views := []gin.H{}
	for i := range sessions {
		views = append(views, sessionView(&sessions[i]))
	}
	return views
}
