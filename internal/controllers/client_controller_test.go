package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestClientController(t *testing.T) {
	clientService := services.NewClientService(setupTestDB(t))
	controller := NewClientController(clientService)

	router := gin.New()
	for prefix, userID := range map[string]string{"/owner": "u-1", "/other": "u-2"} {
		group := router.Group(prefix, asUser(userID, models.RoleUser))
		group.POST("/clients", controller.CreateClient)
		group.GET("/clients", controller.ListClients)
		group.DELETE("/clients/:id", controller.DeleteClient)
	}

	w := performJSON(t, router, http.MethodPost, "/owner/clients", gin.H{"name": "meal-planner"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]string](t, w)
	assert.Equal(t, defaultClientScopes, created["scopes"])
	assert.Equal(t, "client_credentials", created["grant_types"])

	stored, err := clientService.GetClientByID(context.Background(), created["client_id"])
	require.NoError(t, err)
	assert.Equal(t, "u-1", stored.UserID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Secret), []byte(created["client_secret"])))

	w = performJSON(t, router, http.MethodGet, "/owner/clients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.OAuthClient](t, w), 1)

	w = performJSON(t, router, http.MethodGet, "/other/clients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.OAuthClient](t, w))

	w = performJSON(t, router, http.MethodDelete, "/other/clients/"+created["client_id"], nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performJSON(t, router, http.MethodDelete, "/owner/clients/"+created["client_id"], nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performJSON(t, router, http.MethodPost, "/owner/clients", gin.H{"domain": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
