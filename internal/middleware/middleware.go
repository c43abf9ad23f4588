package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/gin-gonic/gin"
)

// Gin context keys set by OAuth2Auth
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextClientID = "clientID"
	ContextScopes   = "scopes"
)

// OAuth2Auth middleware that handles bearer JWT access tokens, both the ones issued at
// login and the ones issued to OAuth2 clients.
// It validates the token and stores the caller identity in the gin context.
func OAuth2Auth(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		// RFC 6750: Extract Bearer token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondWithOAuth2Error(c, http.StatusUnauthorized, models.ErrAuthorizationNeeded,
				"Missing Authorization header. A valid Bearer token is required.")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondWithOAuth2Error(c, http.StatusUnauthorized, models.ErrInvalidRequest,
				"Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			respondWithOAuth2Error(c, http.StatusUnauthorized, models.ErrInvalidToken, "Bearer token is empty")
			return
		}

		claims, err := auth.ParseToken(jwtSecret, tokenString)
		if err != nil {
			respondWithOAuth2Error(c, http.StatusUnauthorized, models.ErrInvalidToken, fmt.Sprintf("token parsing failed: %v", err))
			return
		}

		if err := validateRole(claims.Role); err != nil {
			respondWithOAuth2Error(c, http.StatusUnauthorized, models.ErrInvalidToken, err.Error())
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		if len(claims.Audience) > 0 && claims.Audience[0] != "" {
			c.Set(ContextClientID, claims.Audience[0])
		}
		if claims.Scope != "" {
			c.Set(ContextScopes, claims.Scope)
		}

		c.Next()
	}
}

// respondWithOAuth2Error responds with RFC 6750 compliant error format
func respondWithOAuth2Error(c *gin.Context, status int, errorCode, description string) {
	c.AbortWithStatusJSON(status, models.NewOAuth2Error(errorCode, description))
}

// validateRole rejects tokens without an explicit, known role
func validateRole(role string) error {
	switch role {
	case models.RoleAdmin, models.RoleUser:
		return nil
	case "":
		return fmt.Errorf("token missing required 'role' claim")
	default:
		return fmt.Errorf("invalid role '%s'. Allowed roles: admin, user", role)
	}
}

// UserID returns the authenticated user id, empty when the request carries no identity
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// UserRole returns the role of the authenticated user
func UserRole(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}
