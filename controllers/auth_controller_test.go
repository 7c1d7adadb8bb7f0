package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studymatch/backend/database"
	"github.com/studymatch/backend/models"
)

func TestRegisterAndLogin(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	w := doRequest(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["access"])
	assert.NotEmpty(t, body["refresh"])
	assert.Equal(t, "alice", body["user"].(map[string]interface{})["username"])

	// Registration creates an empty profile alongside the user
	var profile models.UserProfile
	require.NoError(t, database.DB.First(&profile).Error)

	// Passwords are stored hashed
	var user models.User
	require.NoError(t, database.DB.First(&user).Error)
	assert.NotEqual(t, "password123", user.Password)

	w = doRequest(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["access"])

	w = doRequest(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	createTestUser(t, "alice")

	w := doRequest(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"email":    "other@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshTokenRotation(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	w := doRequest(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	refresh := decodeBody(t, w)["refresh"].(string)

	w = doRequest(router, http.MethodPost, "/api/auth/refresh", "", gin.H{"refresh": refresh})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["access"])
	assert.NotEmpty(t, body["refresh"])

	// An access token is not accepted where a refresh token belongs
	w = doRequest(router, http.MethodPost, "/api/auth/refresh", "",
		gin.H{"refresh": body["access"].(string)})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodPost, "/api/auth/refresh", "", gin.H{"refresh": "not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	w := doRequest(router, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/matching/matches", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetAndUpdateProfile(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	_, aliceToken := createTestUser(t, "alice")

	university := models.University{Name: "State University"}
	require.NoError(t, database.DB.Create(&university).Error)

	w := doRequest(router, http.MethodPut, "/api/auth/profile", aliceToken, gin.H{
		"university_id": university.ID,
		"faculty":       "Computer Science",
		"year_of_study": 3,
		"bio":           "Night owl",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/auth/profile", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, "Computer Science", profile["faculty"])
	assert.Equal(t, float64(3), profile["year_of_study"])

	// Partial updates leave the other fields alone
	w = doRequest(router, http.MethodPut, "/api/auth/profile", aliceToken, gin.H{"bio": "Early bird"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/auth/profile", aliceToken, nil)
	profile = decodeBody(t, w)["profile"].(map[string]interface{})
	assert.Equal(t, "Early bird", profile["bio"])
	assert.Equal(t, "Computer Science", profile["faculty"])

	w = doRequest(router, http.MethodPut, "/api/auth/profile", aliceToken, gin.H{"year_of_study": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPut, "/api/auth/profile", aliceToken, gin.H{"university_id": 9999})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUniversities(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	require.NoError(t, database.DB.Create(&models.University{Name: "State University"}).Error)
	require.NoError(t, database.DB.Create(&models.University{Name: "Tech Institute"}).Error)

	w := doRequest(router, http.MethodGet, "/api/auth/universities", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["universities"], 2)
}
