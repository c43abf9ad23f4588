package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Issuer is written into every token signed by the service
const Issuer = "recipe-match-api"

var signingMethod = jwt.SigningMethodHS256

// Claims carried by every access token, whether issued at login or through OAuth2
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Scope  string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// SignUserToken issues an access token for a user that logged in with a password
func SignUserToken(secret []byte, user *models.User, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID: user.ID,
		Role:   roleOrDefault(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken validates the signature and expiry of an access token and returns its claims
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{signingMethod.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("token carries no user")
	}
	return claims, nil
}

// AccessGenerator issues OAuth2 access tokens as JWTs with the uid and role claims
type AccessGenerator struct {
	secret []byte
	db     *gorm.DB
}

// NewAccessGenerator creates the OAuth2 access token generator
func NewAccessGenerator(secret []byte, db *gorm.DB) *AccessGenerator {
	return &AccessGenerator{secret: secret, db: db}
}

// Token is called by the OAuth2 manager to generate access tokens
func (g *AccessGenerator) Token(ctx context.Context, data *oauth2.GenerateBasic, isGenRefresh bool) (string, string, error) {
	// client_credentials requests carry no user, the client acts for its owner
	userID := data.UserID
	if userID == "" {
		userID = data.Client.GetUserID()
	}
	if userID == "" {
		return "", "", fmt.Errorf("cannot generate token: no user ID available")
	}

	// The role always comes from the database so a client cannot escalate its owner
	role, err := g.userRole(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch user role: %w", err)
	}

	createdAt := data.TokenInfo.GetAccessCreateAt()
	claims := Claims{
		UserID: userID,
		Role:   role,
		Scope:  data.TokenInfo.GetScope(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{data.Client.GetID()},
			IssuedAt:  jwt.NewNumericDate(createdAt),
			ExpiresAt: jwt.NewNumericDate(createdAt.Add(data.TokenInfo.GetAccessExpiresIn())),
		},
	}
	access, err := jwt.NewWithClaims(signingMethod, claims).SignedString(g.secret)
	if err != nil {
		return "", "", err
	}

	refresh := ""
	if isGenRefresh {
		refreshClaims := jwt.RegisteredClaims{
			ID:        data.TokenInfo.GetAccess(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(data.TokenInfo.GetRefreshCreateAt().Add(data.TokenInfo.GetRefreshExpiresIn())),
		}
		refresh, err = jwt.NewWithClaims(signingMethod, refreshClaims).SignedString(g.secret)
		if err != nil {
			return "", "", err
		}
	}

	return access, refresh, nil
}

func (g *AccessGenerator) userRole(ctx context.Context, userID string) (string, error) {
	var user models.User
	err := g.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("user with ID %s not found", userID)
	}
	if err != nil {
		return "", fmt.Errorf("database error: %w", err)
	}
	return roleOrDefault(user.Role), nil
}

func roleOrDefault(role string) string {
	if role == "" {
		return models.RoleUser
	}
	return role
}
