package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/matching"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/middleware"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/services"
	"github.com/gin-gonic/gin"
)

// FindRecipesRequest is the body of find-recipes. Without userIngredients the stored pantry is used.
type FindRecipesRequest struct {
	UserIngredients     []string `json:"userIngredients" example:"eggs,bacon,parmesan cheese"`
	DietaryRestrictions []string `json:"dietaryRestrictions" example:"vegetarian"`
	MaxCookingTime      int      `json:"maxCookingTime" binding:"min=0" example:"30"`
	DifficultyLevel     string   `json:"difficultyLevel" example:"easy"`
	Limit               int      `json:"limit" binding:"min=0" example:"10"`
}

// CalculateMatchRequest is the body of calculate-match
type CalculateMatchRequest struct {
	UserIngredients   []string `json:"userIngredients" binding:"required"`
	RecipeIngredients []string `json:"recipeIngredients" binding:"required"`
}

type MatchingController struct {
	service services.MatchingService
}

func NewMatchingController(service services.MatchingService) *MatchingController {
	return &MatchingController{service: service}
}

// FindRecipes godoc
// @Summary Find recipes for a pantry
// @Description Rank every stored recipe against the caller's ingredients and return the best matches
// @Tags matching
// @Accept json
// @Produce json
// @Param request body FindRecipesRequest false "Pantry and filters"
// @Success 200 {object} services.MatchResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/matching/find-recipes [post]
func (mc *MatchingController) FindRecipes(c *gin.Context) {
	var req FindRecipesRequest
	// An empty body means "use my stored pantry, no filters"
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := mc.service.FindMatchingRecipes(c.Request.Context(), services.MatchRequest{
		UserID: middleware.UserID(c),
		Pantry: req.UserIngredients,
		Filters: matching.Filters{
			DietaryRestrictions: req.DietaryRestrictions,
			MaxCookingTime:      req.MaxCookingTime,
			DifficultyLevel:     req.DifficultyLevel,
		},
		Limit: req.Limit,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CalculateMatch godoc
// @Summary Score one recipe
// @Description Compute the match percentage of a recipe ingredient list against a pantry
// @Tags matching
// @Accept json
// @Produce json
// @Param request body CalculateMatchRequest true "Pantry and recipe ingredients"
// @Success 200 {object} matching.Result
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/matching/calculate-match [post]
func (mc *MatchingController) CalculateMatch(c *gin.Context) {
	var req CalculateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userIngredients and recipeIngredients are required"})
		return
	}

	result, err := mc.service.CalculateMatch(req.UserIngredients, req.RecipeIngredients)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
