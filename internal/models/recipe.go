package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Difficulty levels accepted for a recipe
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// RecipeIngredient is one line of a recipe ingredient list
type RecipeIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Recipe is the metadata record of a recipe, the canonical fully populated representation
type Recipe struct {
	RecipeID        string             `json:"recipeId"`
	UserID          string             `json:"userId"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Ingredients     []RecipeIngredient `json:"ingredients"`
	Instructions    []string           `json:"instructions"`
	CookingTime     int                `json:"cookingTime"`
	DifficultyLevel string             `json:"difficultyLevel"`
	Servings        int                `json:"servings"`
	DietaryTags     []string           `json:"dietaryTags"`
	Cuisine         string             `json:"cuisine"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	Rating          *float64           `json:"rating,omitempty"`
	ReviewCount     *int               `json:"reviewCount,omitempty"`
}

// IsValid reports whether the record is structurally usable: it has an id and a title
func (r Recipe) IsValid() bool {
	return r.RecipeID != "" && r.Title != ""
}

// IngredientNames returns the ingredient names in list order
func (r Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}

// ValidDifficulty reports whether level is one of easy, medium or hard
func ValidDifficulty(level string) bool {
	switch strings.ToLower(level) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Item types stored in the recipe_items table
const (
	RecipeItemMetadata   = "metadata"
	RecipeItemIngredient = "ingredient"
)

// RecipeItem is a row of the multi-index recipe layout.
// A recipe is stored as one metadata row carrying the document plus the cuisine and author
// index keys, and one ingredient row per ingredient carrying the inverted index key.
type RecipeItem struct {
	ID             uint   `gorm:"primaryKey"`
	RecipeID       string `gorm:"not null;index;uniqueIndex:idx_recipe_item_key"`
	ItemKey        string `gorm:"not null;uniqueIndex:idx_recipe_item_key"`
	ItemType       string `gorm:"not null;index"`
	Cuisine        string `gorm:"index:idx_recipe_items_cuisine"`
	AuthorID       string `gorm:"index:idx_recipe_items_author"`
	IngredientName string `gorm:"index:idx_recipe_items_ingredient"`
	Position       int
	Quantity       float64
	Unit           string
	Document       datatypes.JSON
	CreatedAt      time.Time
}

func (RecipeItem) TableName() string {
	return "recipe_items"
}
