package models

import (
	"time"
)

// MatchRecord is an analytics row written for every returned match. It is never read back
// by the matching pipeline.
type MatchRecord struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	UserID          string    `gorm:"not null;index" json:"userId"`
	RecipeID        string    `gorm:"not null;index" json:"recipeId"`
	MatchPercentage int       `json:"matchPercentage"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (MatchRecord) TableName() string {
	return "match_records"
}
