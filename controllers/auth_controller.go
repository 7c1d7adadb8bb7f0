package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studymatch/backend/database"
	"github.com/studymatch/backend/models"
	"github.com/studymatch/backend/utils"
)

type RegisterInput struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

type UpdateProfileInput struct {
	UniversityID    *uint   `json:"university_id"`
	Faculty         *string `json:"faculty"`
	YearOfStudy     *int    `json:"year_of_study"`
	Bio             *string `json:"bio"`
	Telegram        *string `json:"telegram"`
	Whatsapp        *string `json:"whatsapp"`
	Phone           *string `json:"phone"`
	ShowContactInfo *bool   `json:"show_contact_info"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a user with an empty profile and returns a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterInput true "Registration"
// @Success 201 {object} map[string]interface{} "User registered successfully"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/auth/register [post]
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check if user already exists
	var existingUser models.User
	if result := database.DB.Where("username = ? OR email = ?", input.Username, input.Email).
		First(&existingUser); result.RowsAffected > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User with this username or email already exists"})
		return
	}

	user := models.User{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}

	if result := database.DB.Create(&user); result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// Every user gets an empty profile at registration
	profile := models.UserProfile{UserID: user.ID}
	if err := database.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	access, refresh, err := utils.GenerateTokenPair(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
		"access":  access,
		"refresh": refresh,
	})
}

// Login godoc
// @Summary Authenticate a user
// @Description Validates credentials and returns a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginInput true "Login"
// @Success 200 {object} map[string]interface{} "Login successful"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /api/auth/login [post]
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if result := database.DB.Where("username = ?", input.Username).First(&user); result.Error != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if err := user.ValidatePassword(input.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	access, refresh, err := utils.GenerateTokenPair(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
		"access":  access,
		"refresh": refresh,
	})
}

// RefreshToken godoc
// @Summary Refresh an expired access token
// @Description Validates a refresh token and issues a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param token body RefreshInput true "Refresh token"
// @Success 200 {object} map[string]string "New token pair"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid refresh token"
// @Router /api/auth/refresh [post]
func RefreshToken(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := utils.ValidateToken(c.Request.Context(), input.Refresh, utils.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	// The old refresh token is revoked so each one can be redeemed once
	if err := utils.RevokeToken(c.Request.Context(), claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate refresh token"})
		return
	}

	access, refresh, err := utils.GenerateTokenPair(claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  access,
		"refresh": refresh,
	})
}

// Logout godoc
// @Summary Log out
// @Description Revokes the supplied refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param token body RefreshInput true "Refresh token"
// @Success 200 {object} map[string]string "Logged out"
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /api/auth/logout [post]
func Logout(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := utils.ValidateToken(c.Request.Context(), input.Refresh, utils.RefreshToken)
	if err == nil {
		if err := utils.RevokeToken(c.Request.Context(), claims); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke token"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetProfile godoc
// @Summary Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Profile"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Profile not found"
// @Router /api/auth/profile [get]
func GetProfile(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var user models.User
	if err := database.DB.Preload("Profile").Preload("Profile.University").
		Preload("Subjects").Preload("Subjects.Subject").
		First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    models.SimpleProfileFor(&user),
		"profile": user.Profile,
	})
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileInput true "Profile fields"
// @Success 200 {object} map[string]interface{} "Updated profile"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Profile not found"
// @Router /api/auth/profile [put]
func UpdateProfile(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.UserProfile
	if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	if input.UniversityID != nil {
		var university models.University
		if err := database.DB.First(&university, *input.UniversityID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "University not found"})
			return
		}
		profile.UniversityID = input.UniversityID
	}
	if input.Faculty != nil {
		profile.Faculty = *input.Faculty
	}
	if input.YearOfStudy != nil {
		if *input.YearOfStudy < 1 || *input.YearOfStudy > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Year of study must be between 1 and 5"})
			return
		}
		profile.YearOfStudy = *input.YearOfStudy
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.Telegram != nil {
		profile.Telegram = *input.Telegram
	}
	if input.Whatsapp != nil {
		profile.Whatsapp = *input.Whatsapp
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.ShowContactInfo != nil {
		profile.ShowContactInfo = *input.ShowContactInfo
	}

	if err := database.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// GetUniversities godoc
// @Summary List universities
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "List of universities"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/auth/universities [get]
func GetUniversities(c *gin.Context) {
	var universities []models.University
	if err := database.DB.Order("name ASC").Find(&universities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch universities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"universities": universities})
}
