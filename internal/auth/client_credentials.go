package auth

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/go-oauth2/oauth2/v4"
	oauth2errors "github.com/go-oauth2/oauth2/v4/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel aligns the package logger with the service level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// TokenResponse is the body of a successful token request
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"7200"`
	Scope       string `json:"scope,omitempty"`
}

// HandleToken handles the token endpoint for the client credentials grant
// @Summary Token Endpoint
// @Description Obtain an access token using the client credentials grant
// @Tags OAuth2
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "Grant type, must be client_credentials"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string true "Client Secret"
// @Param scope formData string false "Requested scope, defaults to the client's scopes"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} models.OAuth2Error
// @Failure 401 {object} models.OAuth2Error
// @Router /api/v1/oauth/token [post]
func (o *OAuthService) HandleToken(c *gin.Context) {
	grantType := c.PostForm("grant_type")
	if grantType != string(oauth2.ClientCredentials) {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnsupportedGrantType, "only client_credentials is supported"))
		return
	}

	clientID := c.PostForm("client_id")
	clientSecret := c.PostForm("client_secret")
	if clientID == "" || clientSecret == "" {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest, "client_id and client_secret are required"))
		return
	}

	scope := c.PostForm("scope")
	if scope == "" {
		if client, err := o.server.Manager.GetClient(c.Request.Context(), clientID); err == nil {
			if owned, ok := client.(*models.OAuthClient); ok {
				scope = owned.Scopes
			}
		}
	}

	// The manager verifies the bcrypt hashed secret through OAuthClient.VerifyPassword
	ti, err := o.server.Manager.GenerateAccessToken(c.Request.Context(), oauth2.ClientCredentials, &oauth2.TokenGenerateRequest{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scope:        scope,
		Request:      c.Request,
	})
	if errors.Is(err, oauth2errors.ErrInvalidClient) {
		log.WithField("client_id", clientID).Warn("Rejected client credentials")
		c.JSON(http.StatusUnauthorized, models.NewOAuth2Error(models.ErrInvalidClient, "client authentication failed"))
		return
	}
	if err != nil {
		log.WithError(err).WithField("client_id", clientID).Error("Token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_generation_failed"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: ti.GetAccess(),
		TokenType:   "Bearer",
		ExpiresIn:   int64(ti.GetAccessExpiresIn().Seconds()),
		Scope:       ti.GetScope(),
	})
}
