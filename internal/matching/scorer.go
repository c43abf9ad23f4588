package matching

import (
	"errors"
	"strings"
)

// ErrDegenerateScore is returned when a recipe has no ingredients to score against
var ErrDegenerateScore = errors.New("recipe has no ingredients to match against")

// Result is the outcome of scoring one recipe against a pantry
type Result struct {
	MatchPercentage      int      `json:"matchPercentage" example:"80"`
	AvailableIngredients []string `json:"availableIngredients"`
	MissingIngredients   []string `json:"missingIngredients"`
}

// Score partitions the recipe ingredients into available and missing, in recipe order,
// and computes the rounded share of available ingredients. The percentage is always
// relative to the recipe list, never to the pantry.
func Score(pantry, recipe []string) (Result, error) {
	if len(recipe) == 0 {
		return Result{}, ErrDegenerateScore
	}

	lowered := make([]string, len(pantry))
	for i, name := range pantry {
		lowered[i] = strings.ToLower(name)
	}

	result := Result{
		AvailableIngredients: make([]string, 0, len(recipe)),
		MissingIngredients:   make([]string, 0, len(recipe)),
	}
	for _, name := range recipe {
		ingredient := strings.ToLower(name)
		if inPantry(lowered, ingredient) {
			result.AvailableIngredients = append(result.AvailableIngredients, ingredient)
		} else {
			result.MissingIngredients = append(result.MissingIngredients, ingredient)
		}
	}
	result.MatchPercentage = percentage(len(result.AvailableIngredients), len(recipe))
	return result, nil
}

func inPantry(pantry []string, ingredient string) bool {
	for _, item := range pantry {
		if containsEither(item, ingredient) {
			return true
		}
	}
	return false
}

// percentage rounds 100*part/whole half up using integer arithmetic
func percentage(part, whole int) int {
	return (200*part + whole) / (2 * whole)
}
