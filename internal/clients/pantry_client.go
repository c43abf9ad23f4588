// Package clients holds HTTP clients for collaborating services.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/go-resty/resty/v2"
)

// PantryClient reads user pantries from a remote pantry service
type PantryClient struct {
	client *resty.Client
}

// NewPantryClient creates a client for the pantry service at baseURL.
// A non-empty token is sent as a bearer credential on every request.
func NewPantryClient(baseURL, token string) *PantryClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(100*time.Millisecond).
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &PantryClient{client: client}
}

// GetPantryItems fetches GET {base}/users/{userID}/pantry
func (c *PantryClient) GetPantryItems(ctx context.Context, userID string) ([]models.PantryItem, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/users/" + url.PathEscape(userID) + "/pantry")
	if err != nil {
		return nil, fmt.Errorf("pantry service request: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return []models.PantryItem{}, nil
	default:
		return nil, fmt.Errorf("pantry service returned %d", resp.StatusCode())
	}

	var items []models.PantryItem
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("decode pantry response: %w", err)
	}
	for i := range items {
		if items[i].UserID == "" {
			items[i].UserID = userID
		}
	}
	return items, nil
}
