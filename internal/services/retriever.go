package services

import (
	"context"
	"errors"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/matching"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
)

// CandidateFilter selects recipes through one secondary index. When several fields are
// set, cuisine wins over ingredient, which wins over author.
type CandidateFilter struct {
	Cuisine    string `form:"cuisine" json:"cuisine"`
	Ingredient string `form:"ingredient" json:"ingredient"`
	AuthorID   string `form:"author" json:"author"`
}

// Retriever yields the recipes to score
type Retriever interface {
	// FindCandidates resolves the filter through its index, de-duplicates the ids in
	// first-seen order and loads at most limit full recipes
	FindCandidates(ctx context.Context, filter CandidateFilter, limit int) ([]models.Recipe, error)
	// AllValid scans the whole recipe collection and keeps records with an id and a title
	AllValid(ctx context.Context) ([]models.Recipe, error)
}

type recipeRetriever struct {
	store RecipeStore
}

func NewRetriever(store RecipeStore) Retriever {
	return &recipeRetriever{store: store}
}

func (r *recipeRetriever) FindCandidates(ctx context.Context, filter CandidateFilter, limit int) ([]models.Recipe, error) {
	if limit <= 0 {
		limit = matching.DefaultLimit
	}

	var ids []string
	var err error
	switch {
	case filter.Cuisine != "":
		ids, err = r.store.QueryByCuisine(ctx, filter.Cuisine)
	case filter.Ingredient != "":
		ids, err = r.store.QueryByIngredient(ctx, filter.Ingredient)
	case filter.AuthorID != "":
		ids, err = r.store.QueryByAuthor(ctx, filter.AuthorID)
	default:
		return nil, ErrInvalidFilter
	}
	if err != nil {
		return nil, storageError("query recipe index", err)
	}

	ids = dedupe(ids)

	recipes := make([]models.Recipe, 0, min(len(ids), limit))
	for _, id := range ids {
		if len(recipes) == limit {
			break
		}
		recipe, err := r.store.GetFullRecipe(ctx, id)
		if errors.Is(err, ErrNotFound) {
			log.WithField("recipe_id", id).Warn("Index entry without metadata row, skipping")
			continue
		}
		if err != nil {
			return nil, storageError("get recipe", err)
		}
		recipes = append(recipes, *recipe)
	}
	return recipes, nil
}

func (r *recipeRetriever) AllValid(ctx context.Context) ([]models.Recipe, error) {
	all, err := r.store.ScanAll(ctx)
	if err != nil {
		return nil, storageError("scan recipes", err)
	}
	valid := all[:0]
	for _, recipe := range all {
		if recipe.IsValid() {
			valid = append(valid, recipe)
		}
	}
	return valid, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
