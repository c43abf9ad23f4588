package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/events"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPantryService(t *testing.T) (PantryService, PantryStore, *recordingPublisher) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	_, err := catalog.Seed(context.Background(), []models.IngredientRef{
		{IngredientID: "ing-eggs", Name: "eggs", Category: "dairy"},
		{IngredientID: "ing-flour", Name: "flour", Category: "baking"},
	})
	require.NoError(t, err)

	store := NewPantryStore(db)
	publisher := &recordingPublisher{}
	return NewPantryService(store, catalog, publisher), store, publisher
}

func TestPantryAddResolvesCatalog(t *testing.T) {
	service, store, publisher := newTestPantryService(t)
	ctx := context.Background()

	added, err := service.AddItem(ctx, "u-1", AddPantryItemInput{Name: " EGGS ", Quantity: 1, Unit: "dozen"})
	require.NoError(t, err)
	assert.Equal(t, "ing-eggs", added.IngredientID)
	assert.Equal(t, "eggs", added.Name)
	require.NotNil(t, added.Normalized)
	assert.Equal(t, units.Quantity{Value: 12, Unit: units.Pieces}, *added.Normalized)

	custom, err := service.AddItem(ctx, "u-1", AddPantryItemInput{Name: "Gochujang", Quantity: 2, Unit: "Tbsp"})
	require.NoError(t, err)
	assert.Equal(t, "custom:gochujang", custom.IngredientID)
	assert.Equal(t, "tbsp", custom.Unit)

	items, err := store.GetPantryItems(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, []string{events.TopicPantryUpdated, events.TopicPantryUpdated}, publisher.topics())
}

func TestPantryReAddOverwrites(t *testing.T) {
	service, store, _ := newTestPantryService(t)
	ctx := context.Background()

	_, err := service.AddItem(ctx, "u-1", AddPantryItemInput{Name: "flour", Quantity: 500, Unit: "g"})
	require.NoError(t, err)
	_, err = service.AddItem(ctx, "u-1", AddPantryItemInput{Name: "Flour", Quantity: 1, Unit: "kg"})
	require.NoError(t, err)
	_, err = service.AddItem(ctx, "u-2", AddPantryItemInput{Name: "flour", Quantity: 10, Unit: "g"})
	require.NoError(t, err)

	items, err := store.GetPantryItems(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1.0, items[0].Quantity)
	assert.Equal(t, "kg", items[0].Unit)

	entries, err := service.ListItems(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1000.0, entries[0].Normalized.Value)
}

func TestPantryValidation(t *testing.T) {
	service, _, _ := newTestPantryService(t)
	ctx := context.Background()

	_, err := service.AddItem(ctx, "u-1", AddPantryItemInput{Name: "flour", Quantity: 1, Unit: "handful"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.AddItem(ctx, "u-1", AddPantryItemInput{Name: "flour", Quantity: -3, Unit: "g"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.AddItem(ctx, "u-1", AddPantryItemInput{Name: " ", Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.AddItem(ctx, "", AddPantryItemInput{Name: "flour"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPantryRemove(t *testing.T) {
	service, store, _ := newTestPantryService(t)
	ctx := context.Background()

	_, err := service.AddItem(ctx, "u-1", AddPantryItemInput{Name: "eggs", Quantity: 6})
	require.NoError(t, err)

	require.NoError(t, service.RemoveItem(ctx, "u-1", "ing-eggs"))
	items, err := store.GetPantryItems(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, service.RemoveItem(ctx, "u-1", "ing-eggs"), ErrNotFound)
}
