package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/middleware"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/services"
	"github.com/gin-gonic/gin"
)

type PantryController struct {
	service services.PantryService
}

func NewPantryController(service services.PantryService) *PantryController {
	return &PantryController{service: service}
}

// ListPantry godoc
// @Summary List pantry items
// @Description List the authenticated user's pantry with quantities in base units
// @Tags pantry
// @Produce json
// @Success 200 {array} services.PantryEntry
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/pantry [get]
func (pc *PantryController) ListPantry(c *gin.Context) {
	items, err := pc.service.ListItems(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddPantryItem godoc
// @Summary Add a pantry item
// @Description Adds or replaces an ingredient in the pantry. Names are resolved against the catalog.
// @Tags pantry
// @Accept json
// @Produce json
// @Param item body services.AddPantryItemInput true "Ingredient"
// @Success 201 {object} services.PantryEntry
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/pantry [post]
func (pc *PantryController) AddPantryItem(c *gin.Context) {
	var input services.AddPantryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := pc.service.AddItem(c.Request.Context(), middleware.UserID(c), input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// RemovePantryItem godoc
// @Summary Remove a pantry item
// @Tags pantry
// @Param ingredientId path string true "Ingredient ID"
// @Success 204 "Item removed"
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/pantry/{ingredientId} [delete]
func (pc *PantryController) RemovePantryItem(c *gin.Context) {
	if err := pc.service.RemoveItem(c.Request.Context(), middleware.UserID(c), c.Param("ingredientId")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
