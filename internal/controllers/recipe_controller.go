package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/middleware"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ListRecipesQuery selects recipes through one index
type ListRecipesQuery struct {
	services.CandidateFilter
	Limit int `form:"limit" binding:"min=0"`
}

type RecipeController struct {
	service services.RecipeService
}

func NewRecipeController(service services.RecipeService) *RecipeController {
	return &RecipeController{service: service}
}

// ListRecipes godoc
// @Summary List recipes
// @Description List recipes by cuisine, ingredient or author. Cuisine wins over ingredient, which wins over author.
// @Tags recipes
// @Produce json
// @Param cuisine query string false "Cuisine"
// @Param ingredient query string false "Ingredient name"
// @Param author query string false "Author user ID"
// @Param limit query int false "Maximum number of recipes" default(20)
// @Success 200 {array} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/recipes [get]
func (rc *RecipeController) ListRecipes(c *gin.Context) {
	var query ListRecipesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipes, err := rc.service.FindRecipes(c.Request.Context(), query.CandidateFilter, query.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// GetRecipe godoc
// @Summary Get recipe by ID
// @Tags recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} models.Recipe
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/recipes/{id} [get]
func (rc *RecipeController) GetRecipe(c *gin.Context) {
	recipe, err := rc.service.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Description The authenticated user becomes the author
// @Tags recipes
// @Accept json
// @Produce json
// @Param recipe body models.Recipe true "Recipe"
// @Success 201 {object} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/recipes [post]
func (rc *RecipeController) CreateRecipe(c *gin.Context) {
	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := rc.service.CreateRecipe(c.Request.Context(), middleware.UserID(c), recipe)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateRecipe godoc
// @Summary Update a recipe
// @Description Only the author may update a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path string true "Recipe ID"
// @Param recipe body models.Recipe true "Recipe"
// @Success 200 {object} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/recipes/{id} [put]
func (rc *RecipeController) UpdateRecipe(c *gin.Context) {
	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := rc.service.UpdateRecipe(c.Request.Context(), middleware.UserID(c), c.Param("id"), recipe)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Description The author or an admin may delete a recipe
// @Tags recipes
// @Param id path string true "Recipe ID"
// @Success 204 "Recipe deleted"
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/recipes/{id} [delete]
func (rc *RecipeController) DeleteRecipe(c *gin.Context) {
	err := rc.service.DeleteRecipe(c.Request.Context(), middleware.UserID(c), middleware.UserRole(c), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
