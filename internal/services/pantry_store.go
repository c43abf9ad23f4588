package services

import (
	"context"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PantryReader is the read side the matching pipeline depends on.
// It is served either by the local pantry table or by the remote pantry service.
type PantryReader interface {
	GetPantryItems(ctx context.Context, userID string) ([]models.PantryItem, error)
}

// PantryStore owns the pantry_items table
type PantryStore interface {
	PantryReader
	// AddItem inserts the item or overwrites the one with the same (user, ingredient) key
	AddItem(ctx context.Context, item *models.PantryItem) error
	RemoveItem(ctx context.Context, userID, ingredientID string) error
}

type pantryStore struct {
	db *gorm.DB
}

func NewPantryStore(db *gorm.DB) PantryStore {
	return &pantryStore{db: db}
}

func (s *pantryStore) GetPantryItems(ctx context.Context, userID string) ([]models.PantryItem, error) {
	var items []models.PantryItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at, ingredient_id").
		Find(&items).Error
	if err != nil {
		return nil, storageError("get pantry items", err)
	}
	return items, nil
}

func (s *pantryStore) AddItem(ctx context.Context, item *models.PantryItem) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(item).Error
	return storageError("add pantry item", err)
}

func (s *pantryStore) RemoveItem(ctx context.Context, userID, ingredientID string) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND ingredient_id = ?", userID, ingredientID).
		Delete(&models.PantryItem{})
	if result.Error != nil {
		return storageError("remove pantry item", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
