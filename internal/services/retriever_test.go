package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRecipes(t *testing.T, store RecipeStore) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.Create(ctx, storedRecipe("carbonara", "u-1", "italian", base, "spaghetti", "eggs", "bacon", "eggs")))
	require.NoError(t, store.Create(ctx, storedRecipe("frittata", "u-2", "italian", base.Add(time.Minute), "eggs", "spinach")))
	require.NoError(t, store.Create(ctx, storedRecipe("tacos", "u-1", "mexican", base.Add(2*time.Minute), "tortilla", "beans")))
}

func recipeIDs(recipes []models.Recipe) []string {
	ids := make([]string, len(recipes))
	for i, r := range recipes {
		ids[i] = r.RecipeID
	}
	return ids
}

func TestFindCandidates(t *testing.T) {
	db := setupTestDB(t)
	store := NewRecipeStore(db)
	seedRecipes(t, store)
	retriever := NewRetriever(store)
	ctx := context.Background()

	testCases := []struct {
		name     string
		filter   CandidateFilter
		limit    int
		expected []string
	}{
		{name: "by cuisine", filter: CandidateFilter{Cuisine: "Italian"}, limit: 10, expected: []string{"carbonara", "frittata"}},
		{name: "by ingredient is de-duplicated", filter: CandidateFilter{Ingredient: "eggs"}, limit: 10, expected: []string{"carbonara", "frittata"}},
		{name: "by author", filter: CandidateFilter{AuthorID: "u-1"}, limit: 10, expected: []string{"carbonara", "tacos"}},
		{name: "cuisine wins over the others", filter: CandidateFilter{Cuisine: "mexican", Ingredient: "eggs", AuthorID: "u-2"}, limit: 10, expected: []string{"tacos"}},
		{name: "limit truncates", filter: CandidateFilter{Ingredient: "eggs"}, limit: 1, expected: []string{"carbonara"}},
		{name: "no hits", filter: CandidateFilter{Ingredient: "saffron"}, limit: 10, expected: []string{}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			recipes, err := retriever.FindCandidates(ctx, tt.filter, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, recipeIDs(recipes))
		})
	}
}

func TestFindCandidatesRequiresAFilter(t *testing.T) {
	retriever := NewRetriever(NewRecipeStore(setupTestDB(t)))
	_, err := retriever.FindCandidates(context.Background(), CandidateFilter{}, 10)
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestFindCandidatesSkipsDanglingIndexEntries(t *testing.T) {
	db := setupTestDB(t)
	store := NewRecipeStore(db)
	seedRecipes(t, store)
	orphan := models.RecipeItem{RecipeID: "ghost", ItemKey: "ingredient#000", ItemType: models.RecipeItemIngredient, IngredientName: "eggs"}
	require.NoError(t, db.Create(&orphan).Error)

	recipes, err := NewRetriever(store).FindCandidates(context.Background(), CandidateFilter{Ingredient: "eggs"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"carbonara", "frittata"}, recipeIDs(recipes))
}

type failingRecipeStore struct {
	RecipeStore
}

func (failingRecipeStore) ScanAll(context.Context) ([]models.Recipe, error) {
	return nil, errors.New("disk on fire")
}

func (failingRecipeStore) QueryByCuisine(context.Context, string) ([]string, error) {
	return nil, errors.New("disk on fire")
}

func TestRetrieverPropagatesStorageErrors(t *testing.T) {
	retriever := NewRetriever(failingRecipeStore{})
	var storageErr *StorageError

	_, err := retriever.FindCandidates(context.Background(), CandidateFilter{Cuisine: "thai"}, 5)
	assert.ErrorAs(t, err, &storageErr)

	_, err = retriever.AllValid(context.Background())
	assert.ErrorAs(t, err, &storageErr)
}

func TestAllValidDropsStructurallyInvalidRecords(t *testing.T) {
	db := setupTestDB(t)
	store := NewRecipeStore(db)
	seedRecipes(t, store)
	untitled := models.RecipeItem{RecipeID: "untitled", ItemKey: models.RecipeItemMetadata, ItemType: models.RecipeItemMetadata}
	require.NoError(t, db.Create(&untitled).Error)

	recipes, err := NewRetriever(store).AllValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"carbonara", "frittata", "tacos"}, recipeIDs(recipes))
}

// orphanFirstStore prepends index hits whose metadata rows do not exist
type orphanFirstStore struct {
	RecipeStore
	orphans []string
}

func (s orphanFirstStore) QueryByCuisine(ctx context.Context, cuisine string) ([]string, error) {
	ids, err := s.RecipeStore.QueryByCuisine(ctx, cuisine)
	return append(append([]string{}, s.orphans...), ids...), err
}

func TestFindCandidatesFillsLimitPastDanglingEntries(t *testing.T) {
	store := NewRecipeStore(setupTestDB(t))
	seedRecipes(t, store)
	retriever := NewRetriever(orphanFirstStore{RecipeStore: store, orphans: []string{"ghost-1", "ghost-2"}})

	testCases := []struct {
		name     string
		limit    int
		expected []string
	}{
		{name: "limit reached with loaded recipes", limit: 2, expected: []string{"carbonara", "frittata"}},
		{name: "limit smaller than the orphan run", limit: 1, expected: []string{"carbonara"}},
		{name: "limit above available recipes", limit: 5, expected: []string{"carbonara", "frittata"}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			recipes, err := retriever.FindCandidates(context.Background(), CandidateFilter{Cuisine: "italian"}, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, recipeIDs(recipes))
		})
	}
}
