package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedRecipe(id, author, cuisine string, created time.Time, names ...string) *models.Recipe {
	return &models.Recipe{
		RecipeID:        id,
		UserID:          author,
		Title:           "Recipe " + id,
		Ingredients:     ingredients(names...),
		Instructions:    []string{"cook"},
		CookingTime:     20,
		DifficultyLevel: models.DifficultyEasy,
		Cuisine:         cuisine,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func TestRecipeStoreCreateWritesIndexRows(t *testing.T) {
	db := setupTestDB(t)
	store := NewRecipeStore(db)
	ctx := context.Background()

	recipe := storedRecipe("r-1", "u-1", "Italian", time.Now().UTC(), "Spaghetti", "Eggs", "Bacon")
	require.NoError(t, store.Create(ctx, recipe))

	var rows []models.RecipeItem
	require.NoError(t, db.Where("recipe_id = ?", "r-1").Order("item_key").Find(&rows).Error)
	require.Len(t, rows, 4)
	assert.Equal(t, "ingredient#000", rows[0].ItemKey)
	assert.Equal(t, "spaghetti", rows[0].IngredientName)
	assert.Equal(t, models.RecipeItemMetadata, rows[3].ItemType)
	assert.Equal(t, "italian", rows[3].Cuisine)
	assert.Equal(t, "u-1", rows[3].AuthorID)

	got, err := store.GetFullRecipe(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "Recipe r-1", got.Title)
	assert.Equal(t, []string{"Spaghetti", "Eggs", "Bacon"}, got.IngredientNames())
}

func TestRecipeStoreQueries(t *testing.T) {
	db := setupTestDB(t)
	store := NewRecipeStore(db)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, storedRecipe("r-1", "u-1", "Italian", base, "salt", "pasta", "salt")))
	require.NoError(t, store.Create(ctx, storedRecipe("r-2", "u-2", "Mexican", base.Add(time.Minute), "salt", "beans")))
	require.NoError(t, store.Create(ctx, storedRecipe("r-3", "u-1", "italian", base.Add(2*time.Minute), "rice")))

	t.Run("cuisine is case-insensitive", func(t *testing.T) {
		ids, err := store.QueryByCuisine(ctx, " ITALIAN ")
		require.NoError(t, err)
		assert.Equal(t, []string{"r-1", "r-3"}, ids)
	})

	t.Run("ingredient index repeats ids", func(t *testing.T) {
		ids, err := store.QueryByIngredient(ctx, "Salt")
		require.NoError(t, err)
		assert.Equal(t, []string{"r-1", "r-1", "r-2"}, ids)
	})

	t.Run("author", func(t *testing.T) {
		ids, err := store.QueryByAuthor(ctx, "u-2")
		require.NoError(t, err)
		assert.Equal(t, []string{"r-2"}, ids)
	})

	t.Run("scan keeps creation order", func(t *testing.T) {
		recipes, err := store.ScanAll(ctx)
		require.NoError(t, err)
		require.Len(t, recipes, 3)
		assert.Equal(t, "r-1", recipes[0].RecipeID)
		assert.Equal(t, "r-3", recipes[2].RecipeID)
	})
}

func TestRecipeStoreReconcilesIngredientRows(t *testing.T) {
	db := setupTestDB(t)
	store := NewRecipeStore(db)
	ctx := context.Background()

	document, err := json.Marshal(models.Recipe{RecipeID: "legacy", Title: "Legacy Stew"})
	require.NoError(t, err)
	rows := []models.RecipeItem{
		{RecipeID: "legacy", ItemKey: models.RecipeItemMetadata, ItemType: models.RecipeItemMetadata, AuthorID: "u-9", Cuisine: "irish", Document: document},
		{RecipeID: "legacy", ItemKey: "ingredient#001", ItemType: models.RecipeItemIngredient, IngredientName: "potato", Position: 1, Quantity: 3, Unit: "piece"},
		{RecipeID: "legacy", ItemKey: "ingredient#000", ItemType: models.RecipeItemIngredient, IngredientName: "beef", Position: 0, Quantity: 500, Unit: "g"},
	}
	require.NoError(t, db.Create(&rows).Error)

	got, err := store.GetFullRecipe(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, "Legacy Stew", got.Title)
	assert.Equal(t, "u-9", got.UserID)
	assert.Equal(t, "irish", got.Cuisine)
	assert.Equal(t, []string{"beef", "potato"}, got.IngredientNames())
	assert.Equal(t, 500.0, got.Ingredients[0].Quantity)
}

func TestRecipeStoreUpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	store := NewRecipeStore(db)
	ctx := context.Background()

	recipe := storedRecipe("r-1", "u-1", "thai", time.Now().UTC(), "rice", "basil", "chili")
	require.NoError(t, store.Create(ctx, recipe))

	recipe.Ingredients = ingredients("noodles")
	recipe.Cuisine = "vietnamese"
	require.NoError(t, store.Update(ctx, recipe))

	var count int64
	require.NoError(t, db.Model(&models.RecipeItem{}).Where("recipe_id = ?", "r-1").Count(&count).Error)
	assert.Equal(t, int64(2), count)

	ids, err := store.QueryByCuisine(ctx, "thai")
	require.NoError(t, err)
	assert.Empty(t, ids)

	missing := storedRecipe("nope", "u-1", "", time.Now().UTC(), "x")
	assert.ErrorIs(t, store.Update(ctx, missing), ErrNotFound)

	require.NoError(t, store.Delete(ctx, "r-1"))
	_, err = store.GetFullRecipe(ctx, "r-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "r-1"), ErrNotFound)
}
