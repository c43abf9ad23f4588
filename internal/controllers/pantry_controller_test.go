package controllers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPantryEndpoints(t *testing.T) {
	db := setupTestDB(t)
	catalog := services.NewCatalogService(db)
	_, err := catalog.Seed(context.Background(), services.DefaultCatalog)
	require.NoError(t, err)

	controller := NewPantryController(services.NewPantryService(services.NewPantryStore(db), catalog, nil))
	router := gin.New()
	for prefix, userID := range map[string]string{"/me": "u-1", "/anonymous": ""} {
		group := router.Group(prefix, asUser(userID, models.RoleUser))
		group.GET("/pantry", controller.ListPantry)
		group.POST("/pantry", controller.AddPantryItem)
		group.DELETE("/pantry/:ingredientId", controller.RemovePantryItem)
	}

	w := performJSON(t, router, http.MethodPost, "/me/pantry", gin.H{"name": "  Parmesan Cheese ", "quantity": 0.2, "unit": "kg"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	parmesan := decode[services.PantryEntry](t, w)
	assert.Equal(t, "parmesan cheese", parmesan.Name)
	require.NotNil(t, parmesan.Normalized)
	assert.Equal(t, 200.0, parmesan.Normalized.Value)

	w = performJSON(t, router, http.MethodPost, "/me/pantry", gin.H{"name": "Dragon Fruit", "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	custom := decode[services.PantryEntry](t, w)
	assert.Equal(t, "custom:dragon fruit", custom.IngredientID)

	w = performJSON(t, router, http.MethodGet, "/me/pantry", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]services.PantryEntry](t, w), 2)

	w = performJSON(t, router, http.MethodDelete, "/me/pantry/"+url.PathEscape(custom.IngredientID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performJSON(t, router, http.MethodDelete, "/me/pantry/"+url.PathEscape(custom.IngredientID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	t.Run("rejects bad input", func(t *testing.T) {
		w := performJSON(t, router, http.MethodPost, "/me/pantry", gin.H{"quantity": 1})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = performJSON(t, router, http.MethodPost, "/me/pantry", gin.H{"name": "rice", "quantity": 1, "unit": "bushel"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("requires identity", func(t *testing.T) {
		w := performJSON(t, router, http.MethodGet, "/anonymous/pantry", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
