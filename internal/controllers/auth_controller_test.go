package controllers

import (
	"net/http"
	"testing"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "controller-test-secret"

func TestAuthController(t *testing.T) {
	controller := NewAuthController(services.NewUserService(setupTestDB(t)), testJWTSecret)
	router := gin.New()
	router.POST("/register", controller.Register)
	router.POST("/login", controller.Login)

	credentials := gin.H{"email": "Cook@Example.com", "password": "s3cret!", "name": "Ada"}

	w := performJSON(t, router, http.MethodPost, "/register", credentials)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performJSON(t, router, http.MethodPost, "/register", credentials)
	assert.Equal(t, http.StatusConflict, w.Code)

	t.Run("login issues a bearer token", func(t *testing.T) {
		w := performJSON(t, router, http.MethodPost, "/login", gin.H{"email": "cook@example.com", "password": "s3cret!"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decode[struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
			ExpiresIn   int64  `json:"expires_in"`
			User        struct {
				ID    string `json:"id"`
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		}](t, w)
		assert.Equal(t, "Bearer", body.TokenType)
		assert.Equal(t, int64(86400), body.ExpiresIn)
		assert.Equal(t, "cook@example.com", body.User.Email)
		assert.Equal(t, models.RoleUser, body.User.Role)

		claims, err := auth.ParseToken([]byte(testJWTSecret), body.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, body.User.ID, claims.UserID)
		assert.Equal(t, models.RoleUser, claims.Role)
	})

	testCases := []struct {
		name           string
		path           string
		body           gin.H
		expectedStatus int
	}{
		{"register invalid email", "/register", gin.H{"email": "nope", "password": "s3cret!"}, http.StatusBadRequest},
		{"register short password", "/register", gin.H{"email": "a@b.co", "password": "123"}, http.StatusBadRequest},
		{"login wrong password", "/login", gin.H{"email": "cook@example.com", "password": "wrong"}, http.StatusUnauthorized},
		{"login unknown user", "/login", gin.H{"email": "ghost@example.com", "password": "s3cret!"}, http.StatusUnauthorized},
		{"login missing password", "/login", gin.H{"email": "cook@example.com"}, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := performJSON(t, router, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.expectedStatus, w.Code, w.Body.String())
		})
	}
}
