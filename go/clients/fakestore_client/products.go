package fakestore_client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mcdev12/storefront/go/clients"
	"github.com/mcdev12/storefront/go/internal/models"
)

func (c *Client) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.GetJSON(ctx, ProductsEndpoint, &products); err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := c.GetJSON(ctx, fmt.Sprintf("%s/%d", ProductsEndpoint, id), &product); err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}

	// the API answers unknown ids with an empty 200
	if product.ID == 0 {
		return nil, fmt.Errorf("product %d: %w", id, clients.ErrNotFound)
	}
	return &product, nil
}

func (c *Client) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	endpoint := fmt.Sprintf("%s/%s", CategoryEndpoint, url.PathEscape(category))
	if err := c.GetJSON(ctx, endpoint, &products); err != nil {
		return nil, fmt.Errorf("failed to get products for category %q: %w", category, err)
	}
	return products, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.GetJSON(ctx, CategoriesEndpoint, &categories); err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}
