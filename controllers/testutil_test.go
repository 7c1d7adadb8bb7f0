package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/studymatch/backend/controllers"
	"github.com/studymatch/backend/database"
	"github.com/studymatch/backend/middleware"
	"github.com/studymatch/backend/models"
	"github.com/studymatch/backend/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global connection at a fresh in-memory database.
func setupTestDB(t *testing.T) {
	t.Helper()

	// One named in-memory database per test so state never leaks between them
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.University{},
		&models.UserProfile{},
		&models.Subject{},
		&models.UserSubject{},
		&models.Swipe{},
		&models.Match{},
		&models.ChatRoom{},
		&models.Message{},
		&models.StudySession{},
		&models.SessionParticipant{},
		&models.SessionInvitation{},
	))

	database.DB = db
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
		database.DB = nil
	})
}

// setupTestRouter wires the API routes the way main does.
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/refresh", controllers.RefreshToken)
		auth.GET("/universities", controllers.GetUniversities)
	}

	authProtected := router.Group("/api/auth")
	authProtected.Use(middleware.JWTAuth())
	{
		authProtected.GET("/profile", controllers.GetProfile)
		authProtected.PUT("/profile", controllers.UpdateProfile)
	}

	matching := router.Group("/api/matching")
	matching.Use(middleware.JWTAuth())
	{
		matching.GET("/user-subjects", controllers.GetUserSubjects)
		matching.POST("/user-subjects", controllers.AddUserSubject)
		matching.DELETE("/user-subjects/:subject_id", controllers.DeleteUserSubject)
		matching.GET("/recommendations", controllers.GetRecommendations)
		matching.POST("/swipe/:user_id", controllers.SwipeUser)
		matching.GET("/matches", controllers.GetMatches)
		matching.GET("/mutual-likes", controllers.GetMutualLikes)
	}

	chat := router.Group("/api/chat")
	chat.Use(middleware.JWTAuth())
	{
		chat.GET("/rooms", controllers.GetChatRooms)
		chat.POST("/rooms/create/:user_id", controllers.CreateChatRoom)
		chat.GET("/messages/:room_id", controllers.GetMessages)
		chat.POST("/messages/:room_id", controllers.CreateMessage)
	}

	sessions := router.Group("/api/study-sessions")
	sessions.Use(middleware.JWTAuth())
	{
		sessions.GET("/sessions", controllers.GetSessions)
		sessions.GET("/my-sessions", controllers.GetMySessions)
		sessions.POST("/create", controllers.CreateSession)
		sessions.POST("/join/:session_id", controllers.JoinSession)
		sessions.POST("/leave/:session_id", controllers.LeaveSession)
		sessions.DELETE("/delete/:session_id", controllers.DeleteSession)
		sessions.GET("/participants/:session_id", controllers.GetSessionParticipants)

		sessions.GET("/invitations", controllers.GetInvitations)
		sessions.POST("/invitations", controllers.SendInvitation)
		sessions.POST("/invitations/:invitation_id/respond", controllers.RespondToInvitation)
	}

	return router
}

// createTestUser inserts a user with an empty profile and returns it with a
// valid access token.
func createTestUser(t *testing.T, username string) (models.User, string) {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	}
	require.NoError(t, database.DB.Create(&user).Error)

	profile := models.UserProfile{UserID: user.ID}
	require.NoError(t, database.DB.Create(&profile).Error)

	access, _, err := utils.GenerateTokenPair(user.ID)
	require.NoError(t, err)

	return user, access
}

// giveSubject attaches a subject to a user, creating the subject on demand.
func giveSubject(t *testing.T, userID uint, name, level string) models.Subject {
	t.Helper()

	var subject models.Subject
	require.NoError(t, database.DB.Where(models.Subject{Name: name}).FirstOrCreate(&subject).Error)

	userSubject := models.UserSubject{UserID: userID, SubjectID: subject.ID, Level: level}
	require.NoError(t, database.DB.Create(&userSubject).Error)

	return subject
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func swipePath(userID uint) string {
	return fmt.Sprintf("/api/matching/swipe/%d", userID)
}
