package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/events"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/units"
)

// customIngredientPrefix marks pantry ingredients that are not in the catalog
const customIngredientPrefix = "custom:"

// AddPantryItemInput is what a user submits when adding an ingredient
type AddPantryItemInput struct {
	Name       string  `json:"name" binding:"required" example:"Parmesan Cheese"`
	Quantity   float64 `json:"quantity" example:"200"`
	Unit       string  `json:"unit" example:"g"`
	ExpiryDate *string `json:"expiryDate,omitempty" example:"2026-12-31"`
}

// PantryEntry is a pantry item with its quantity in base units
type PantryEntry struct {
	models.PantryItem
	Normalized *units.Quantity `json:"normalized,omitempty"`
}

type PantryService interface {
	ListItems(ctx context.Context, userID string) ([]PantryEntry, error)
	AddItem(ctx context.Context, userID string, input AddPantryItemInput) (*PantryEntry, error)
	RemoveItem(ctx context.Context, userID, ingredientID string) error
}

type pantryService struct {
	store     PantryStore
	catalog   CatalogService
	publisher events.Publisher
}

func NewPantryService(store PantryStore, catalog CatalogService, publisher events.Publisher) PantryService {
	return &pantryService{store: store, catalog: catalog, publisher: publisher}
}

func entry(item models.PantryItem) PantryEntry {
	e := PantryEntry{PantryItem: item}
	if q, err := units.Normalize(item.Quantity, item.Unit); err == nil {
		e.Normalized = &q
	}
	return e
}

func (s *pantryService) ListItems(ctx context.Context, userID string) ([]PantryEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	items, err := s.store.GetPantryItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]PantryEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, entry(item))
	}
	return entries, nil
}

func (s *pantryService) AddItem(ctx context.Context, userID string, input AddPantryItemInput) (*PantryEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	name := CanonicalName(input.Name)
	if name == "" {
		return nil, invalidInput("name is required")
	}
	normalized, err := units.Normalize(input.Quantity, input.Unit)
	if err != nil {
		return nil, invalidInput("%v", err)
	}

	ingredientID := customIngredientPrefix + name
	ref, err := s.catalog.Resolve(ctx, name)
	switch {
	case err == nil:
		ingredientID, name = ref.IngredientID, ref.Name
	case errors.Is(err, ErrNotFound):
		log.WithField("name", name).Debug("Ingredient not in catalog, storing as custom")
	default:
		return nil, err
	}

	item := models.PantryItem{
		UserID:       userID,
		IngredientID: ingredientID,
		Name:         name,
		Quantity:     input.Quantity,
		Unit:         strings.ToLower(strings.TrimSpace(input.Unit)),
		ExpiryDate:   input.ExpiryDate,
		AddedAt:      time.Now().UTC(),
	}
	if err := s.store.AddItem(ctx, &item); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.TopicPantryUpdated, map[string]any{
		"userId":       userID,
		"ingredientId": ingredientID,
		"action":       "added",
	})
	return &PantryEntry{PantryItem: item, Normalized: &normalized}, nil
}

func (s *pantryService) RemoveItem(ctx context.Context, userID, ingredientID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	if err := s.store.RemoveItem(ctx, userID, ingredientID); err != nil {
		return err
	}
	publish(ctx, s.publisher, events.TopicPantryUpdated, map[string]any{
		"userId":       userID,
		"ingredientId": ingredientID,
		"action":       "removed",
	})
	return nil
}
