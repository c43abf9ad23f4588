package services

import (
	"context"
	"sync"
	"testing"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/database"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database. A single connection keeps every
// query on the same ":memory:" instance.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type publishedEvent struct {
	Topic   string
	Payload any
}

// recordingPublisher keeps every published event in memory
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Payload: payload})
	return p.err
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]string, len(p.events))
	for i, e := range p.events {
		topics[i] = e.Topic
	}
	return topics
}

func ingredients(names ...string) []models.RecipeIngredient {
	out := make([]models.RecipeIngredient, len(names))
	for i, name := range names {
		out[i] = models.RecipeIngredient{Name: name, Quantity: 1, Unit: "piece"}
	}
	return out
}
