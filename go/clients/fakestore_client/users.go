package fakestore_client

import (
	"context"
	"fmt"

	"github.com/mcdev12/storefront/go/internal/models"
)

func (c *Client) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.GetJSON(ctx, UsersEndpoint, &users); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}
