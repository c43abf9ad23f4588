package models

import (
	"time"
)

// PantryItem is an ingredient held by a user. The pair (UserID, IngredientID) is unique;
// adding the same ingredient again overwrites the previous row.
type PantryItem struct {
	UserID       string    `gorm:"primaryKey" json:"userId"`
	IngredientID string    `gorm:"primaryKey" json:"ingredientId"`
	Name         string    `gorm:"not null;index" json:"name"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	ExpiryDate   *string   `json:"expiryDate,omitempty"`
	AddedAt      time.Time `json:"addedAt"`
}

func (PantryItem) TableName() string {
	return "pantry_items"
}

// PantryNames returns the ingredient names of the given items in order
func PantryNames(items []PantryItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}
