package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/studymatch/backend/controllers"
	"github.com/studymatch/backend/database"
	"github.com/studymatch/backend/middleware"
	"github.com/studymatch/backend/websocket"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           StudyMatch API
// @version         1.0
// @description     API Server for the StudyMatch study-partner application
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize database
	database.Connect()
	database.Migrate()
	database.ConnectRedis()

	router := setupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server running on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "StudyMatch API is running"})
	})

	// Authentication routes
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/refresh", controllers.RefreshToken)
		auth.GET("/universities", controllers.GetUniversities)
		auth.GET("/health", controllers.Health("Users"))
	}

	authProtected := router.Group("/api/auth")
	authProtected.Use(middleware.JWTAuth())
	{
		authProtected.POST("/logout", controllers.Logout)
		authProtected.GET("/profile", controllers.GetProfile)
		authProtected.PUT("/profile", controllers.UpdateProfile)
	}

	// Matching routes
	matching := router.Group("/api/matching")
	{
		matching.GET("/health", controllers.Health("Matching"))
		matching.GET("/subjects", controllers.GetSubjects)
		matching.GET("/recommendations/test", controllers.GetTestRecommendations)
	}

	matchingProtected := router.Group("/api/matching")
	matchingProtected.Use(middleware.JWTAuth())
	{
		matchingProtected.GET("/user-subjects", controllers.GetUserSubjects)
		matchingProtected.POST("/user-subjects", controllers.AddUserSubject)
		matchingProtected.DELETE("/user-subjects/:subject_id", controllers.DeleteUserSubject)
		matchingProtected.GET("/recommendations", controllers.GetRecommendations)
		matchingProtected.POST("/swipe/:user_id", controllers.SwipeUser)
		matchingProtected.GET("/matches", controllers.GetMatches)
		matchingProtected.GET("/mutual-likes", controllers.GetMutualLikes)
	}

	// Chat routes
	router.GET("/api/chat/health", controllers.Health("Chat"))
	chat := router.Group("/api/chat")
	chat.Use(middleware.JWTAuth())
	{
		chat.GET("/rooms", controllers.GetChatRooms)
		chat.POST("/rooms/create/:user_id", controllers.CreateChatRoom)
		chat.GET("/messages/:room_id", controllers.GetMessages)
		chat.POST("/messages/:room_id", controllers.CreateMessage)
	}

	// Study session routes
	router.GET("/api/study-sessions/health", controllers.Health("Study Sessions"))
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

	// WebSocket route
	router.GET("/ws/chat/:room_id", websocket.HandleConnection)

	return router
}
