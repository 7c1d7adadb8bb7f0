package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studymatch/backend/database"
	"github.com/studymatch/backend/models"
)

type SwipeInput struct {
	Action string `json:"action" binding:"required,oneof=like pass" example:"like"`
}

type AddUserSubjectInput struct {
	SubjectID uint   `json:"subject_id" binding:"required" example:"1"`
	Level     string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced" example:"intermediate"`
}

// GetSubjects godoc
// @Summary List all subjects
// @Tags matching
// @Produce json
// @Success 200 {object} map[string]interface{} "List of subjects"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/matching/subjects [get]
func GetSubjects(c *gin.Context) {
	var subjects []models.Subject
	if err := database.DB.Order("name ASC").Find(&subjects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subjects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

// GetUserSubjects godoc
// @Summary List the authenticated user's subjects
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of user subjects"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/matching/user-subjects [get]
func GetUserSubjects(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var userSubjects []models.UserSubject
	if err := database.DB.Where("user_id = ?", userID).
		Preload("Subject").
		Find(&userSubjects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user subjects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_subjects": userSubjects})
}

// AddUserSubject godoc
// @Summary Add a subject to the authenticated user
// @Tags matching
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subject body AddUserSubjectInput true "Subject and level"
// @Success 201 {object} map[string]interface{} "Subject added"
// @Failure 400 {object} map[string]string "Invalid input or already added"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Subject not found"
// @Router /api/matching/user-subjects [post]
func AddUserSubject(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input AddUserSubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var subject models.Subject
	if err := database.DB.First(&subject, input.SubjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
		return
	}

	var existing models.UserSubject
	if err := database.DB.Where("user_id = ? AND subject_id = ?", userID, input.SubjectID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subject already added"})
		return
	}

	level := input.Level
	if level == "" {
		level = models.LevelBeginner
	}

	userSubject := models.UserSubject{
		UserID:    userID,
		SubjectID: input.SubjectID,
		Level:     level,
	}

	if err := database.DB.Create(&userSubject).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add subject"})
		return
	}

	userSubject.Subject = &subject
	c.JSON(http.StatusCreated, gin.H{"user_subject": userSubject})
}

// DeleteUserSubject godoc
// @Summary Remove a subject from the authenticated user
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Param subject_id path int true "Subject ID"
// @Success 200 {object} map[string]string "Subject removed"
// @Failure 400 {object} map[string]string "Invalid subject ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Subject not found"
// @Router /api/matching/user-subjects/{subject_id} [delete]
func DeleteUserSubject(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	subjectID, err := strconv.ParseUint(c.Param("subject_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject ID"})
		return
	}

	var userSubject models.UserSubject
	if err := database.DB.Where("user_id = ? AND subject_id = ?", userID, subjectID).
		First(&userSubject).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
		return
	}

	if err := database.DB.Delete(&userSubject).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove subject"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subject removed successfully"})
}

// GetRecommendations godoc
// @Summary Get candidate profiles to swipe on
// @Description Returns users sharing at least one subject with the requester,
// @Description excluding the requester and anyone already swiped. Optional
// @Description faculty, year and subject_id filters narrow the result.
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Param faculty query string false "Faculty substring filter"
// @Param year query int false "Year of study filter"
// @Param subject_id query int false "Subject filter"
// @Success 200 {object} map[string]interface{} "List of candidate profiles"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/matching/recommendations [get]
func GetRecommendations(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	// Subjects the requester studies; candidates must share at least one
	var subjectIDs []uint
	if err := database.DB.Model(&models.UserSubject{}).
		Where("user_id = ?", userID).
		Pluck("subject_id", &subjectIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user subjects"})
		return
	}

	// Already-swiped users never reappear in the feed
	var swipedIDs []uint
	if err := database.DB.Model(&models.Swipe{}).
		Where("swiper_id = ?", userID).
		Pluck("swiped_user_id", &swipedIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch swipes"})
		return
	}

	query := database.DB.Model(&models.User{}).
		Distinct("users.id").
		Joins("JOIN user_subjects ON user_subjects.user_id = users.id").
		Joins("JOIN user_profiles ON user_profiles.user_id = users.id").
		Where("users.id <> ?", userID).
		Where("user_subjects.subject_id IN ?", subjectIDs)

	if len(swipedIDs) > 0 {
		query = query.Where("users.id NOT IN ?", swipedIDs)
	}
	if faculty := c.Query("faculty"); faculty != "" {
		query = query.Where("LOWER(user_profiles.faculty) LIKE LOWER(?)", "%"+faculty+"%")
	}
	if year := c.Query("year"); year != "" {
		query = query.Where("user_profiles.year_of_study = ?", year)
	}
	if subjectID := c.Query("subject_id"); subjectID != "" {
		query = query.Where("user_subjects.subject_id = ?", subjectID)
	}

	var candidateIDs []uint
	if err := query.Order("users.id ASC").Limit(10).
		Pluck("users.id", &candidateIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recommendations"})
		return
	}

	profiles := []models.SimpleProfile{}
	if len(candidateIDs) > 0 {
		var users []models.User
		if err := database.DB.Preload("Profile").
			Preload("Subjects").Preload("Subjects.Subject").
			Where("id IN ?", candidateIDs).
			Order("id ASC").
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profiles"})
			return
		}
		for i := range users {
			profiles = append(profiles, models.SimpleProfileFor(&users[i]))
		}
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": profiles})
}

// GetTestRecommendations godoc
// @Summary Get demo recommendations
// @Description Canned candidate profiles used as an empty-state fallback
// @Tags matching
// @Produce json
// @Success 200 {object} map[string]interface{} "Demo profiles"
// @Router /api/matching/recommendations/test [get]
func GetTestRecommendations(c *gin.Context) {
	demo := []models.SimpleProfile{
		{
			ID: 1, Username: "demo_user1", FirstName: "Alex", LastName: "Ivanov",
			Faculty: "Computer Science", YearOfStudy: 2, StudyLevel: "Developing",
			Bio: "Looking for a programming study partner",
			Subjects: []models.SubjectBrief{
				{ID: 4, Name: "Programming", Level: models.LevelIntermediate},
				{ID: 2, Name: "Calculus", Level: models.LevelBeginner},
			},
		},
		{
			ID: 2, Username: "demo_user2", FirstName: "Kate", LastName: "Smirnova",
			Faculty: "Economics", YearOfStudy: 3, StudyLevel: "Advanced",
			Bio: "Can help with economics, need help with math",
			Subjects: []models.SubjectBrief{
				{ID: 2, Name: "Calculus", Level: models.LevelAdvanced},
				{ID: 3, Name: "Linear Algebra", Level: models.LevelIntermediate},
			},
		},
		{
			ID: 3, Username: "demo_user3", FirstName: "Dmitry", LastName: "Petrov",
			Faculty: "Physics", YearOfStudy: 1, StudyLevel: "Beginner",
			Bio: "Just started physics, looking for study company",
			Subjects: []models.SubjectBrief{
				{ID: 5, Name: "Physics", Level: models.LevelBeginner},
				{ID: 3, Name: "Linear Algebra", Level: models.LevelBeginner},
			},
		},
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": demo})
}

// SwipeUser godoc
// @Summary Record a like/pass decision on a candidate
// @Description One decision per pair; repeating the same action is a no-op,
// @Description changing it replaces the stored decision unless the pair has
// @Description already matched. A reciprocal like creates the match.
// @Tags matching
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "Candidate user ID"
// @Param swipe body SwipeInput true "Swipe action"
// @Success 201 {object} map[string]interface{} "Swipe recorded"
// @Failure 400 {object} map[string]string "Invalid input or self-swipe"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 409 {object} map[string]string "Decision locked by existing match"
// @Router /api/matching/swipe/{user_id} [post]
func SwipeUser(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	targetID64, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	targetID := uint(targetID64)

	if targetID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot swipe on yourself"})
		return
	}

	var input SwipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var target models.User
	if err := database.DB.First(&target, targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var swipe models.Swipe
	result := database.DB.Where("swiper_id = ? AND swiped_user_id = ?", userID, targetID).First(&swipe)
	if result.Error == nil {
		if swipe.Action == input.Action {
			// Repeating the same decision changes nothing
			c.JSON(http.StatusCreated, gin.H{"swipe": swipe, "match_created": false})
			return
		}
		// The decision is frozen once the pair has matched
		if pairMatched(userID, targetID) {
			c.JSON(http.StatusConflict, gin.H{"error": "Decision cannot be changed after a match"})
			return
		}
		swipe.Action = input.Action
		if err := database.DB.Save(&swipe).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update swipe"})
			return
		}
	} else {
		swipe = models.Swipe{
			SwiperID:     userID,
			SwipedUserID: targetID,
			Action:       input.Action,
		}
		if err := database.DB.Create(&swipe).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record swipe"})
			return
		}
	}

	if input.Action == models.SwipeActionLike {
		var reciprocal models.Swipe
		if err := database.DB.Where("swiper_id = ? AND swiped_user_id = ? AND action = ?",
			targetID, userID, models.SwipeActionLike).First(&reciprocal).Error; err == nil {
			match := models.Match{User1ID: userID, User2ID: targetID, IsActive: true}
			match.EnsureCanonicalOrder()
			if err := database.DB.
				Where("user1_id = ? AND user2_id = ?", match.User1ID, match.User2ID).
				FirstOrCreate(&match).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create match"})
				return
			}

			c.JSON(http.StatusCreated, gin.H{
				"swipe":         swipe,
				"match_created": true,
				"match":         match,
			})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"swipe": swipe, "match_created": false})
}

// GetMatches godoc
// @Summary List the authenticated user's matches
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of matches"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/matching/matches [get]
func GetMatches(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	matches, err := activeMatchesFor(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch matches"})
		return
	}

	response := []gin.H{}
	for i := range matches {
		other, err := loadSimpleProfile(matches[i].OtherUserID(userID))
		if err != nil {
			continue
		}
		response = append(response, gin.H{
			"id":         matches[i].ID,
			"other_user": other,
			"created_at": matches[i].CreatedAt,
			"is_active":  matches[i].IsActive,
		})
	}

	c.JSON(http.StatusOK, gin.H{"matches": response})
}

// GetMutualLikes godoc
// @Summary List confirmed mutual likes
// @Description Each entry carries the counterpart profile and the match
// @Description timestamp, which both sides of the pair observe identically.
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of mutual likes"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/matching/mutual-likes [get]
func GetMutualLikes(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	matches, err := activeMatchesFor(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch mutual likes"})
		return
	}

	response := []gin.H{}
	for i := range matches {
		other, err := loadSimpleProfile(matches[i].OtherUserID(userID))
		if err != nil {
			continue
		}
		response = append(response, gin.H{
			"user":       other,
			"match_id":   matches[i].ID,
			"matched_at": matches[i].CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"mutual_likes": response})
}

func activeMatchesFor(userID uint) ([]models.Match, error) {
	var matches []models.Match
	err := database.DB.
		Where("is_active = ?", true).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

func pairMatched(userA, userB uint) bool {
	match := models.Match{User1ID: userA, User2ID: userB}
	match.EnsureCanonicalOrder()

	var found models.Match
	err := database.DB.Where("user1_id = ? AND user2_id = ? AND is_active = ?",
		match.User1ID, match.User2ID, true).First(&found).Error
	return err == nil
}

func loadSimpleProfile(userID uint) (models.SimpleProfile, error) {
	var user models.User
	err := database.DB.Preload("Profile").
		Preload("Subjects").Preload("Subjects.Subject").
		First(&user, userID).Error
	if err != nil {
		return models.SimpleProfile{}, err
	}
	return models.SimpleProfileFor(&user), nil
}
