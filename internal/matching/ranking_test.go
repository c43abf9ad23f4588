package matching

import (
	"testing"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func recipeWith(id string, ingredients ...string) models.Recipe {
	recipe := models.Recipe{RecipeID: id, Title: "Recipe " + id, CookingTime: 30, DifficultyLevel: models.DifficultyEasy}
	for _, name := range ingredients {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{Name: name, Quantity: 1, Unit: "piece"})
	}
	return recipe
}

func TestFiltersAllows(t *testing.T) {
	vegan := recipeWith("vegan", "tofu")
	vegan.DietaryTags = []string{"Vegan", "gluten-free"}
	vegan.CookingTime = 45
	vegan.DifficultyLevel = models.DifficultyMedium

	testCases := []struct {
		name     string
		filters  Filters
		expected bool
	}{
		{name: "no filters", filters: Filters{}, expected: true},
		{name: "dietary tag intersects ignoring case", filters: Filters{DietaryRestrictions: []string{"vegan"}}, expected: true},
		{name: "any requested tag is enough", filters: Filters{DietaryRestrictions: []string{"keto", "gluten-free"}}, expected: true},
		{name: "dietary tag missing", filters: Filters{DietaryRestrictions: []string{"keto"}}, expected: false},
		{name: "cooking time within max", filters: Filters{MaxCookingTime: 45}, expected: true},
		{name: "cooking time over max", filters: Filters{MaxCookingTime: 30}, expected: false},
		{name: "difficulty ignoring case", filters: Filters{DifficultyLevel: "MEDIUM"}, expected: true},
		{name: "difficulty mismatch", filters: Filters{DifficultyLevel: "easy"}, expected: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filters.Allows(vegan))
		})
	}
}

func TestEvaluate(t *testing.T) {
	pantry := []string{"pasta", "tomato"}

	t.Run("keeps recipes at or above the threshold", func(t *testing.T) {
		ranked, ok := Evaluate(pantry, recipeWith("r1", "pasta", "basil", "garlic", "oil", "salt"), Filters{})
		assert.True(t, ok)
		assert.Equal(t, 20, ranked.MatchPercentage)
		assert.Equal(t, "r1", ranked.RecipeID)
	})

	t.Run("drops recipes under the threshold", func(t *testing.T) {
		_, ok := Evaluate(pantry, recipeWith("r2", "pasta", "basil", "garlic", "oil", "salt", "pepper"), Filters{})
		assert.False(t, ok)
	})

	t.Run("drops recipes without ingredients", func(t *testing.T) {
		_, ok := Evaluate(pantry, recipeWith("r3"), Filters{})
		assert.False(t, ok)
	})

	t.Run("dietary filter wins over a high score", func(t *testing.T) {
		recipe := recipeWith("r4", "pasta", "tomato")
		recipe.DietaryTags = []string{"vegetarian"}
		_, ok := Evaluate(pantry, recipe, Filters{DietaryRestrictions: []string{"vegan"}})
		assert.False(t, ok)
	})
}

func ranked(id string, score int) RankedRecipe {
	return RankedRecipe{Recipe: models.Recipe{RecipeID: id}, Result: Result{MatchPercentage: score}}
}

func TestRank(t *testing.T) {
	t.Run("limit keeps the best and reports the total", func(t *testing.T) {
		out, total := Rank([]RankedRecipe{ranked("low", 60), ranked("high", 90)}, 1)
		assert.Equal(t, 2, total)
		assert.Len(t, out, 1)
		assert.Equal(t, "high", out[0].RecipeID)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		out, _ := Rank([]RankedRecipe{ranked("a", 50), ranked("b", 75), ranked("c", 50), ranked("d", 75)}, 10)
		ids := make([]string, len(out))
		for i, r := range out {
			ids[i] = r.RecipeID
		}
		assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
	})

	t.Run("non positive limit uses the default", func(t *testing.T) {
		candidates := make([]RankedRecipe, DefaultLimit+5)
		for i := range candidates {
			candidates[i] = ranked("r", 20+i)
		}
		out, total := Rank(candidates, 0)
		assert.Equal(t, DefaultLimit+5, total)
		assert.Len(t, out, DefaultLimit)
		for i := 1; i < len(out); i++ {
			assert.GreaterOrEqual(t, out[i-1].MatchPercentage, out[i].MatchPercentage)
		}
	})

	t.Run("input is not reordered", func(t *testing.T) {
		input := []RankedRecipe{ranked("a", 10), ranked("b", 90)}
		Rank(input, 5)
		assert.Equal(t, "a", input[0].RecipeID)
	})
}
