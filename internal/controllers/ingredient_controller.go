package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/services"
	"github.com/gin-gonic/gin"
)

type CreateIngredientRequest struct {
	Name        string   `json:"name" binding:"required" example:"smoked paprika"`
	Category    string   `json:"category" example:"spices"`
	CommonUnits []string `json:"commonUnits" example:"tsp,g"`
}

type IngredientController struct {
	catalog services.CatalogService
}

func NewIngredientController(catalog services.CatalogService) *IngredientController {
	return &IngredientController{catalog: catalog}
}

// ListIngredients godoc
// @Summary List catalog ingredients
// @Tags ingredients
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {array} models.IngredientRef
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/ingredients [get]
func (ic *IngredientController) ListIngredients(c *gin.Context) {
	refs, err := ic.catalog.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, refs)
}

// ResolveIngredient godoc
// @Summary Resolve a free-text ingredient name
// @Description Returns the catalog entry with the same canonical name, or the closest one by edit distance
// @Tags ingredients
// @Produce json
// @Param name query string true "Ingredient name"
// @Success 200 {object} models.IngredientRef
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/ingredients/resolve [get]
func (ic *IngredientController) ResolveIngredient(c *gin.Context) {
	name := c.Query("name")
	if services.CanonicalName(name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	ref, err := ic.catalog.Resolve(c.Request.Context(), name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ref)
}

// CreateIngredient godoc
// @Summary Add a catalog ingredient
// @Tags ingredients
// @Accept json
// @Produce json
// @Param ingredient body CreateIngredientRequest true "Ingredient"
// @Success 201 {object} models.IngredientRef
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} map[string]string
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/protected/admin/ingredients [post]
func (ic *IngredientController) CreateIngredient(c *gin.Context) {
	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ref, err := ic.catalog.Add(c.Request.Context(), models.IngredientRef{
		Name:        req.Name,
		Category:    req.Category,
		CommonUnits: req.CommonUnits,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ref)
}
