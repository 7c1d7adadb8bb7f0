package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studymatch/backend/database"
	"github.com/studymatch/backend/models"
)

func TestCreateSessionEnrollsCreator(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	_, aliceToken := createTestUser(t, "alice")

	w := doRequest(router, http.MethodPost, "/api/study-sessions/create", aliceToken, gin.H{
		"title":          "Calculus cram",
		"scheduled_time": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	session := decodeBody(t, w)["session"].(map[string]interface{})
	assert.Equal(t, float64(1), session["participants_count"])
	assert.Equal(t, float64(4), session["max_participants"])
	assert.Equal(t, float64(3), session["available_slots"])
	assert.Equal(t, float64(60), session["duration_minutes"])
}

func TestCreateSessionValidation(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	_, aliceToken := createTestUser(t, "alice")

	// Past sessions cannot be scheduled
	w := doRequest(router, http.MethodPost, "/api/study-sessions/create", aliceToken, gin.H{
		"title":          "Yesterday",
		"scheduled_time": time.Now().Add(-time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A session for one is not a session
	w = doRequest(router, http.MethodPost, "/api/study-sessions/create", aliceToken, gin.H{
		"title":            "Solo",
		"scheduled_time":   time.Now().Add(time.Hour).Format(time.RFC3339),
		"max_participants": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/study-sessions/create", aliceToken, gin.H{
		"title":          "Ghost subject",
		"scheduled_time": time.Now().Add(time.Hour).Format(time.RFC3339),
		"subject_id":     9999,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJoinSessionFullRejected(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	creator, _ := createTestUser(t, "creator")
	_, bobToken := createTestUser(t, "bob")
	_, carolToken := createTestUser(t, "carol")

	session := createTestSession(t, creator.ID, time.Now().Add(time.Hour), 2)

	w := doRequest(router, http.MethodPost, fmt.Sprintf("/api/study-sessions/join/%d", session.ID), bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodPost, fmt.Sprintf("/api/study-sessions/join/%d", session.ID), carolToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestJoinSessionAlreadyStartedRejected(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	creator, creatorToken := createTestUser(t, "creator")
	_, bobToken := createTestUser(t, "bob")

	session := createTestSession(t, creator.ID, time.Now().Add(-time.Hour), 4)

	w := doRequest(router, http.MethodPost, fmt.Sprintf("/api/study-sessions/join/%d", session.ID), bobToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The creator can still clean up a session that has started
	w = doRequest(router, http.MethodDelete, fmt.Sprintf("/api/study-sessions/delete/%d", session.ID), creatorToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJoinSessionTwiceIsNoop(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	creator, _ := createTestUser(t, "creator")
	_, bobToken := createTestUser(t, "bob")

	session := createTestSession(t, creator.ID, time.Now().Add(time.Hour), 4)

	w := doRequest(router, http.MethodPost, fmt.Sprintf("/api/study-sessions/join/%d", session.ID), bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodPost, fmt.Sprintf("/api/study-sessions/join/%d", session.ID), bobToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&models.SessionParticipant{}).
		Where("session_id = ?", session.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestLeaveSession(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	creator, creatorToken := createTestUser(t, "creator")
	_, bobToken := createTestUser(t, "bob")
	_, carolToken := createTestUser(t, "carol")

	session := createTestSession(t, creator.ID, time.Now().Add(time.Hour), 4)

	doRequest(router, http.MethodPost, fmt.Sprintf("/api/study-sessions/join/%d", session.ID), bobToken, nil)

	w := doRequest(router, http.MethodPost, fmt.Sprintf("/api/study-sessions/leave/%d", session.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Leaving without having joined is harmless
	w = doRequest(router, http.MethodPost, fmt.Sprintf("/api/study-sessions/leave/%d", session.ID), carolToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The creator holds their slot until the session is deleted
	w = doRequest(router, http.MethodPost, fmt.Sprintf("/api/study-sessions/leave/%d", session.ID), creatorToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	database.DB.Model(&models.SessionParticipant{}).
		Where("session_id = ?", session.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteSessionCreatorOnly(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	creator, creatorToken := createTestUser(t, "creator")
	invitee, bobToken := createTestUser(t, "bob")

	session := createTestSession(t, creator.ID, time.Now().Add(time.Hour), 4)
	require.NoError(t, database.DB.Create(&models.SessionInvitation{
		SessionID: session.ID,
		InviterID: creator.ID,
		InviteeID: invitee.ID,
		Status:    models.InvitationStatusPending,
	}).Error)

	w := doRequest(router, http.MethodDelete, fmt.Sprintf("/api/study-sessions/delete/%d", session.ID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodDelete, fmt.Sprintf("/api/study-sessions/delete/%d", session.ID), creatorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Soft-deleted, with its invitations removed
	var session2 models.StudySession
	require.NoError(t, database.DB.First(&session2, session.ID).Error)
	assert.False(t, session2.IsActive)

	var invCount int64
	database.DB.Model(&models.SessionInvitation{}).
		Where("session_id = ?", session.ID).Count(&invCount)
	assert.Equal(t, int64(0), invCount)

	// A deactivated session is gone from every listing and lookup
	w = doRequest(router, http.MethodPost, fmt.Sprintf("/api/study-sessions/join/%d", session.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSessionsSkipsPastAndInactive(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	creator, creatorToken := createTestUser(t, "creator")

	upcoming := createTestSession(t, creator.ID, time.Now().Add(time.Hour), 4)
	createTestSession(t, creator.ID, time.Now().Add(-time.Hour), 4)
	inactive := createTestSession(t, creator.ID, time.Now().Add(2*time.Hour), 4)
	require.NoError(t, database.DB.Model(&models.StudySession{}).
		Where("id = ?", inactive.ID).Update("is_active", false).Error)

	w := doRequest(router, http.MethodGet, "/api/study-sessions/sessions", creatorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	sessions := decodeBody(t, w)["sessions"].([]interface{})
	require.Len(t, sessions, 1)
	assert.Equal(t, float64(upcoming.ID), sessions[0].(map[string]interface{})["id"])
}

func TestGetMySessionsIncludesJoined(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	creator, _ := createTestUser(t, "creator")
	_, bobToken := createTestUser(t, "bob")

	joined := createTestSession(t, creator.ID, time.Now().Add(time.Hour), 4)
	createTestSession(t, creator.ID, time.Now().Add(2*time.Hour), 4)

	doRequest(router, http.MethodPost, fmt.Sprintf("/api/study-sessions/join/%d", joined.ID), bobToken, nil)

	w := doRequest(router, http.MethodGet, "/api/study-sessions/my-sessions", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	sessions := decodeBody(t, w)["sessions"].([]interface{})
	require.Len(t, sessions, 1)
	assert.Equal(t, float64(joined.ID), sessions[0].(map[string]interface{})["id"])
}

func TestGetSessionParticipants(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	creator, creatorToken := createTestUser(t, "creator")
	_, bobToken := createTestUser(t, "bob")

	session := createTestSession(t, creator.ID, time.Now().Add(time.Hour), 4)
	doRequest(router, http.MethodPost, fmt.Sprintf("/api/study-sessions/join/%d", session.ID), bobToken, nil)

	w := doRequest(router, http.MethodGet, fmt.Sprintf("/api/study-sessions/participants/%d", session.ID), creatorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	participants := decodeBody(t, w)["participants"].([]interface{})
	require.Len(t, participants, 2)
	first := participants[0].(map[string]interface{})
	assert.Equal(t, "creator", first["user"].(map[string]interface{})["username"])
}

// createTestSession inserts a session directly, bypassing the API's
// future-time check so tests can stage sessions that already started.
func createTestSession(t *testing.T, creatorID uint, scheduled time.Time, maxParticipants int) models.StudySession {
	t.Helper()

	session := models.StudySession{
		Title:           "Study group",
		CreatedByID:     creatorID,
		ScheduledTime:   scheduled,
		DurationMinutes: 60,
		MaxParticipants: maxParticipants,
		IsActive:        true,
	}
	require.NoError(t, database.DB.Create(&session).Error)
	require.NoError(t, database.DB.Create(&models.SessionParticipant{
		SessionID: session.ID,
		UserID:    creatorID,
	}).Error)

	return session
}
