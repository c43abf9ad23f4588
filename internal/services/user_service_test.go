package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	service := NewUserService(setupTestDB(t))
	ctx := context.Background()

	user := &models.User{Email: " Cook@Example.com ", Name: "Cook"}
	require.NoError(t, user.SetPassword("correct horse"))
	require.NoError(t, service.CreateUser(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "cook@example.com", user.Email)

	t.Run("duplicate email", func(t *testing.T) {
		dup := &models.User{Email: "cook@example.com"}
		assert.ErrorIs(t, service.CreateUser(ctx, dup), ErrUserExists)
	})

	t.Run("lookup", func(t *testing.T) {
		byID, err := service.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cook", byID.Name)

		_, err = service.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("authenticate", func(t *testing.T) {
		got, err := service.Authenticate(ctx, "COOK@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = service.Authenticate(ctx, "cook@example.com", "wrong")
		assert.ErrorIs(t, err, ErrUnauthenticated)

		_, err = service.Authenticate(ctx, "ghost@example.com", "x")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestClientService(t *testing.T) {
	service := NewClientService(setupTestDB(t))
	ctx := context.Background()

	client := &models.OAuthClient{ID: "client-1", Secret: "hash", Name: "pantry sync", UserID: "u-1", GrantTypes: "client_credentials"}
	require.NoError(t, service.CreateClient(ctx, client))

	clients, err := service.GetClientsByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, clients, 1)

	got, err := service.GetClientByID(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "pantry sync", got.Name)

	assert.ErrorIs(t, service.DeleteClient(ctx, "client-1", "u-2"), ErrNotFound)
	require.NoError(t, service.DeleteClient(ctx, "client-1", "u-1"))

	_, err = service.GetClientByID(ctx, "client-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
