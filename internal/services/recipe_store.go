package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"gorm.io/gorm"
)

// RecipeStore persists recipes in the multi-index recipe_items layout.
// Query methods return recipe ids in index order and may repeat an id.
type RecipeStore interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, recipeID string) error
	ScanAll(ctx context.Context) ([]models.Recipe, error)
	QueryByCuisine(ctx context.Context, cuisine string) ([]string, error)
	QueryByIngredient(ctx context.Context, name string) ([]string, error)
	QueryByAuthor(ctx context.Context, userID string) ([]string, error)
	// GetFullRecipe loads the metadata record and rebuilds its ingredient list from the
	// ingredient rows when the stored document lacks one. Returns ErrNotFound when absent.
	GetFullRecipe(ctx context.Context, recipeID string) (*models.Recipe, error)
}

type recipeStore struct {
	db *gorm.DB
}

func NewRecipeStore(db *gorm.DB) RecipeStore {
	return &recipeStore{db: db}
}

func indexKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func ingredientItemKey(position int) string {
	return fmt.Sprintf("%s#%03d", models.RecipeItemIngredient, position)
}

// recipeItems expands a recipe into its metadata row and one row per ingredient
func recipeItems(recipe *models.Recipe) ([]models.RecipeItem, error) {
	document, err := json.Marshal(recipe)
	if err != nil {
		return nil, fmt.Errorf("encode recipe %s: %w", recipe.RecipeID, err)
	}

	items := make([]models.RecipeItem, 0, len(recipe.Ingredients)+1)
	items = append(items, models.RecipeItem{
		RecipeID:  recipe.RecipeID,
		ItemKey:   models.RecipeItemMetadata,
		ItemType:  models.RecipeItemMetadata,
		Cuisine:   indexKey(recipe.Cuisine),
		AuthorID:  recipe.UserID,
		Document:  document,
		CreatedAt: recipe.CreatedAt,
	})
	for i, ing := range recipe.Ingredients {
		items = append(items, models.RecipeItem{
			RecipeID:       recipe.RecipeID,
			ItemKey:        ingredientItemKey(i),
			ItemType:       models.RecipeItemIngredient,
			IngredientName: indexKey(ing.Name),
			Position:       i,
			Quantity:       ing.Quantity,
			Unit:           ing.Unit,
			CreatedAt:      recipe.CreatedAt,
		})
	}
	return items, nil
}

func (s *recipeStore) Create(ctx context.Context, recipe *models.Recipe) error {
	items, err := recipeItems(recipe)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&items).Error
	})
	return storageError("create recipe", err)
}

func (s *recipeStore) Update(ctx context.Context, recipe *models.Recipe) error {
	items, err := recipeItems(recipe)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("recipe_id = ?", recipe.RecipeID).Delete(&models.RecipeItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(&items).Error
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return storageError("update recipe", err)
}

func (s *recipeStore) Delete(ctx context.Context, recipeID string) error {
	result := s.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&models.RecipeItem{})
	if result.Error != nil {
		return storageError("delete recipe", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ScanAll reads every metadata row ordered by creation time then id.
// This touches the whole table and does not scale to large catalogs.
func (s *recipeStore) ScanAll(ctx context.Context) ([]models.Recipe, error) {
	var rows []models.RecipeItem
	err := s.db.WithContext(ctx).
		Where("item_type = ?", models.RecipeItemMetadata).
		Order("created_at, recipe_id").
		Find(&rows).Error
	if err != nil {
		return nil, storageError("scan recipes", err)
	}

	recipes := make([]models.Recipe, 0, len(rows))
	for _, row := range rows {
		recipe, err := s.reconcile(ctx, row)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *recipe)
	}
	return recipes, nil
}

func (s *recipeStore) queryIDs(ctx context.Context, op, column, value, itemType, order string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.RecipeItem{}).
		Where(column+" = ? AND item_type = ?", value, itemType).
		Order(order).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, storageError(op, err)
	}
	return ids, nil
}

func (s *recipeStore) QueryByCuisine(ctx context.Context, cuisine string) ([]string, error) {
	return s.queryIDs(ctx, "query by cuisine", "cuisine", indexKey(cuisine), models.RecipeItemMetadata, "created_at, recipe_id")
}

func (s *recipeStore) QueryByIngredient(ctx context.Context, name string) ([]string, error) {
	return s.queryIDs(ctx, "query by ingredient", "ingredient_name", indexKey(name), models.RecipeItemIngredient, "created_at, recipe_id, position")
}

func (s *recipeStore) QueryByAuthor(ctx context.Context, userID string) ([]string, error) {
	return s.queryIDs(ctx, "query by author", "author_id", userID, models.RecipeItemMetadata, "created_at, recipe_id")
}

func (s *recipeStore) GetFullRecipe(ctx context.Context, recipeID string) (*models.Recipe, error) {
	var row models.RecipeItem
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND item_type = ?", recipeID, models.RecipeItemMetadata).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("get recipe", err)
	}
	return s.reconcile(ctx, row)
}

// reconcile decodes a metadata row, falling back to the index columns for identity and
// to the ingredient rows for the ingredient list
func (s *recipeStore) reconcile(ctx context.Context, row models.RecipeItem) (*models.Recipe, error) {
	var recipe models.Recipe
	if len(row.Document) > 0 {
		if err := json.Unmarshal(row.Document, &recipe); err != nil {
			log.WithError(err).WithField("recipe_id", row.RecipeID).Warn("Unreadable recipe document, using index columns")
			recipe = models.Recipe{}
		}
	}
	if recipe.RecipeID == "" {
		recipe.RecipeID = row.RecipeID
	}
	if recipe.UserID == "" {
		recipe.UserID = row.AuthorID
	}
	if recipe.Cuisine == "" {
		recipe.Cuisine = row.Cuisine
	}
	if len(recipe.Ingredients) > 0 {
		return &recipe, nil
	}

	var rows []models.RecipeItem
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND item_type = ?", row.RecipeID, models.RecipeItemIngredient).
		Order("position").
		Find(&rows).Error
	if err != nil {
		return nil, storageError("load recipe ingredients", err)
	}
	for _, ing := range rows {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
			Name:     ing.IngredientName,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	return &recipe, nil
}
