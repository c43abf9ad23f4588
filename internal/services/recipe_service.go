package services

import (
	"context"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/events"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/units"
	"github.com/google/uuid"
)

// RecipeService provides the recipe use cases on top of the multi-index store
type RecipeService interface {
	// FindRecipes returns recipes selected by exactly one index filter
	FindRecipes(ctx context.Context, filter CandidateFilter, limit int) ([]models.Recipe, error)
	// GetRecipe retrieves a recipe by its ID
	GetRecipe(ctx context.Context, recipeID string) (*models.Recipe, error)
	// CreateRecipe stores a new recipe authored by userID
	CreateRecipe(ctx context.Context, userID string, recipe models.Recipe) (*models.Recipe, error)
	// UpdateRecipe replaces a recipe, only its author may do so
	UpdateRecipe(ctx context.Context, userID, recipeID string, recipe models.Recipe) (*models.Recipe, error)
	// DeleteRecipe removes a recipe, allowed for its author and for admins
	DeleteRecipe(ctx context.Context, userID, role, recipeID string) error
}

type recipeService struct {
	store     RecipeStore
	retriever Retriever
	publisher events.Publisher
}

func NewRecipeService(store RecipeStore, retriever Retriever, publisher events.Publisher) RecipeService {
	return &recipeService{store: store, retriever: retriever, publisher: publisher}
}

func (s *recipeService) FindRecipes(ctx context.Context, filter CandidateFilter, limit int) ([]models.Recipe, error) {
	return s.retriever.FindCandidates(ctx, filter, limit)
}

func (s *recipeService) GetRecipe(ctx context.Context, recipeID string) (*models.Recipe, error) {
	return s.store.GetFullRecipe(ctx, recipeID)
}

func (s *recipeService) CreateRecipe(ctx context.Context, userID string, recipe models.Recipe) (*models.Recipe, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateRecipe(&recipe); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recipe.RecipeID = uuid.NewString()
	recipe.UserID = userID
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	recipe.Rating = nil
	recipe.ReviewCount = nil

	if err := s.store.Create(ctx, &recipe); err != nil {
		return nil, err
	}
	log.WithField("recipe_id", recipe.RecipeID).Info("Recipe created")
	publish(ctx, s.publisher, events.TopicRecipeCreated, recipeEvent(&recipe))
	return &recipe, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, userID, recipeID string, recipe models.Recipe) (*models.Recipe, error) {
	existing, err := s.store.GetFullRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrForbidden
	}
	if err := validateRecipe(&recipe); err != nil {
		return nil, err
	}

	recipe.RecipeID = existing.RecipeID
	recipe.UserID = existing.UserID
	recipe.CreatedAt = existing.CreatedAt
	recipe.UpdatedAt = time.Now().UTC()
	recipe.Rating = existing.Rating
	recipe.ReviewCount = existing.ReviewCount

	if err := s.store.Update(ctx, &recipe); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, events.TopicRecipeUpdated, recipeEvent(&recipe))
	return &recipe, nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, userID, role, recipeID string) error {
	existing, err := s.store.GetFullRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if existing.UserID != userID && role != models.RoleAdmin {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, recipeID); err != nil {
		return err
	}
	log.WithField("recipe_id", recipeID).Info("Recipe deleted")
	publish(ctx, s.publisher, events.TopicRecipeDeleted, recipeEvent(existing))
	return nil
}

func recipeEvent(recipe *models.Recipe) map[string]any {
	return map[string]any{
		"recipeId": recipe.RecipeID,
		"userId":   recipe.UserID,
		"title":    recipe.Title,
		"cuisine":  recipe.Cuisine,
	}
}

// validateRecipe checks the client supplied fields and normalizes difficulty and tags
func validateRecipe(recipe *models.Recipe) error {
	recipe.Title = strings.TrimSpace(recipe.Title)
	if recipe.Title == "" {
		return invalidInput("title is required")
	}
	if len(recipe.Ingredients) == 0 {
		return invalidInput("at least one ingredient is required")
	}
	for i := range recipe.Ingredients {
		ing := &recipe.Ingredients[i]
		ing.Name = strings.TrimSpace(ing.Name)
		if ing.Name == "" {
			return invalidInput("ingredient %d has no name", i+1)
		}
		if _, err := units.Normalize(ing.Quantity, ing.Unit); err != nil {
			return invalidInput("ingredient %q: %v", ing.Name, err)
		}
	}
	if recipe.DifficultyLevel != "" {
		if !models.ValidDifficulty(recipe.DifficultyLevel) {
			return invalidInput("difficultyLevel must be easy, medium or hard")
		}
		recipe.DifficultyLevel = strings.ToLower(recipe.DifficultyLevel)
	}
	if recipe.CookingTime < 0 || recipe.Servings < 0 {
		return invalidInput("cookingTime and servings cannot be negative")
	}
	tags := make([]string, 0, len(recipe.DietaryTags))
	for _, tag := range recipe.DietaryTags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			tags = append(tags, tag)
		}
	}
	recipe.DietaryTags = tags
	return nil
}
