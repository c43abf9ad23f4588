package matching

import (
	"slices"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
)

const (
	// MinMatchPercentage is the lowest score a recipe may have to be returned
	MinMatchPercentage = 20

	// DefaultLimit caps the number of ranked recipes when the caller does not
	DefaultLimit = 20
)

// Filters narrows the recipes considered by find-recipes
type Filters struct {
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	MaxCookingTime      int      `json:"maxCookingTime" example:"30"`
	DifficultyLevel     string   `json:"difficultyLevel" example:"easy"`
}

// Allows reports whether the recipe passes every set filter.
// Dietary restrictions keep a recipe when at least one of its tags is requested.
func (f Filters) Allows(recipe models.Recipe) bool {
	if len(f.DietaryRestrictions) > 0 && !intersects(recipe.DietaryTags, f.DietaryRestrictions) {
		return false
	}
	if f.MaxCookingTime > 0 && recipe.CookingTime > f.MaxCookingTime {
		return false
	}
	if f.DifficultyLevel != "" && !strings.EqualFold(recipe.DifficultyLevel, f.DifficultyLevel) {
		return false
	}
	return true
}

func intersects(tags, wanted []string) bool {
	for _, tag := range tags {
		for _, w := range wanted {
			if strings.EqualFold(strings.TrimSpace(tag), strings.TrimSpace(w)) {
				return true
			}
		}
	}
	return false
}

// RankedRecipe is a recipe together with its score against the pantry
type RankedRecipe struct {
	models.Recipe
	Result
}

// Evaluate scores a single candidate and reports whether it belongs in the results.
// Recipes without ingredients, recipes rejected by the filters and recipes under
// MinMatchPercentage are left out.
func Evaluate(pantry []string, recipe models.Recipe, filters Filters) (RankedRecipe, bool) {
	if len(recipe.Ingredients) == 0 || !filters.Allows(recipe) {
		return RankedRecipe{}, false
	}
	result, err := Score(pantry, recipe.IngredientNames())
	if err != nil || result.MatchPercentage < MinMatchPercentage {
		return RankedRecipe{}, false
	}
	return RankedRecipe{Recipe: recipe, Result: result}, true
}

// Rank sorts the candidates by score, highest first, and truncates them to limit.
// Equal scores keep their input order. The returned total is the count before truncation.
// A non-positive limit falls back to DefaultLimit.
func Rank(candidates []RankedRecipe, limit int) (ranked []RankedRecipe, total int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	ranked = slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b RankedRecipe) int {
		return b.MatchPercentage - a.MatchPercentage
	})
	total = len(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, total
}
