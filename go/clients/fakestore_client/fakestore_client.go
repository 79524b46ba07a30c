package fakestore_client

import (
	"github.com/mcdev12/storefront/go/clients"
)

type Client struct {
	*clients.BaseClient
}

// NewClient creates a Fake Store client. An empty baseURL uses the public API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		BaseClient: clients.NewBaseClient(baseURL),
	}
}
