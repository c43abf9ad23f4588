package services

import (
	"context"
	"time"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchRecordSink receives one analytics record per returned match
type MatchRecordSink interface {
	PutMatchRecord(ctx context.Context, userID, recipeID string, matchPercentage int, at time.Time) error
}

type matchRecordStore struct {
	db *gorm.DB
}

func NewMatchRecordStore(db *gorm.DB) MatchRecordSink {
	return &matchRecordStore{db: db}
}

func (s *matchRecordStore) PutMatchRecord(ctx context.Context, userID, recipeID string, matchPercentage int, at time.Time) error {
	record := models.MatchRecord{
		ID:              uuid.NewString(),
		UserID:          userID,
		RecipeID:        recipeID,
		MatchPercentage: matchPercentage,
		CreatedAt:       at,
	}
	return storageError("put match record", s.db.WithContext(ctx).Create(&record).Error)
}
