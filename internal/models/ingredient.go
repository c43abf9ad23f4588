package models

import (
	"gorm.io/datatypes"
)

// IngredientRef is a catalog entry. Names are lowercase and canonical.
type IngredientRef struct {
	IngredientID string                      `gorm:"primaryKey" json:"ingredientId"`
	Name         string                      `gorm:"uniqueIndex;not null" json:"name"`
	Category     string                      `gorm:"index" json:"category"`
	CommonUnits  datatypes.JSONSlice[string] `json:"commonUnits"`
}

func (IngredientRef) TableName() string {
	return "ingredients"
}
