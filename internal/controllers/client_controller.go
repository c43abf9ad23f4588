package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/middleware"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// defaultClientScopes is granted when a client is created without scopes
const defaultClientScopes = "recipes:read matching:read"

type CreateClientRequest struct {
	Name   string `json:"name" binding:"required" example:"meal-planner"`
	Domain string `json:"domain" example:"https://planner.example.com"`
	Scopes string `json:"scopes" example:"recipes:read"`
}

// CreatedClientResponse is returned once, it is the only time the plain secret is visible
type CreatedClientResponse struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Name         string `json:"name"`
	Scopes       string `json:"scopes"`
	GrantTypes   string `json:"grant_types"`
}

type ClientController struct {
	clientService services.ClientService
}

func NewClientController(clientService services.ClientService) *ClientController {
	return &ClientController{clientService: clientService}
}

// CreateClient godoc
// @Summary Register a machine client
// @Description Registers a client_credentials client whose tokens act on behalf of the caller
// @Tags OAuth2 Clients
// @Accept json
// @Produce json
// @Param client body CreateClientRequest true "Client name, domain and scopes"
// @Success 201 {object} CreatedClientResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/protected/clients [post]
func (cc *ClientController) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	secret := uuid.NewString()
	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "secret_generation_failed"})
		return
	}

	scopes := req.Scopes
	if scopes == "" {
		scopes = defaultClientScopes
	}

	client := &models.OAuthClient{
		ID:         uuid.NewString(),
		Secret:     string(hashedSecret),
		Name:       req.Name,
		Domain:     req.Domain,
		Scopes:     scopes,
		GrantTypes: "client_credentials",
		UserID:     middleware.UserID(c),
	}

	if err := cc.clientService.CreateClient(c.Request.Context(), client); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreatedClientResponse{
		ClientID:     client.ID,
		ClientSecret: secret,
		Name:         client.Name,
		Scopes:       client.Scopes,
		GrantTypes:   client.GrantTypes,
	})
}

// ListClients godoc
// @Summary List machine clients
// @Description Clients owned by the caller, secrets omitted
// @Tags OAuth2 Clients
// @Produce json
// @Success 200 {array} models.OAuthClient
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/protected/clients [get]
func (cc *ClientController) ListClients(c *gin.Context) {
	clients, err := cc.clientService.GetClientsByUserID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// DeleteClient godoc
// @Summary Revoke a machine client
// @Tags OAuth2 Clients
// @Param id path string true "Client ID"
// @Success 204 "Client revoked"
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/protected/clients/{id} [delete]
func (cc *ClientController) DeleteClient(c *gin.Context) {
	if err := cc.clientService.DeleteClient(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
