package services

import (
	"context"
	"errors"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"gorm.io/gorm"
)

// ClientService manages the OAuth2 machine clients owned by users
type ClientService interface {
	CreateClient(ctx context.Context, client *models.OAuthClient) error
	GetClientsByUserID(ctx context.Context, userID string) ([]models.OAuthClient, error)
	GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error)
	DeleteClient(ctx context.Context, clientID, userID string) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) CreateClient(ctx context.Context, client *models.OAuthClient) error {
	return storageError("create client", s.db.WithContext(ctx).Create(client).Error)
}

func (s *clientService) GetClientsByUserID(ctx context.Context, userID string) ([]models.OAuthClient, error) {
	var clients []models.OAuthClient
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&clients).Error; err != nil {
		return nil, storageError("list clients", err)
	}
	return clients, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("get client", err)
	}
	return &client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID, userID string) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", clientID, userID).Delete(&models.OAuthClient{})
	if result.Error != nil {
		return storageError("delete client", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
