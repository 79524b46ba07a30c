package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNotFound is returned when the upstream API answers 404
var ErrNotFound = errors.New("resource not found")

const defaultTimeout = 30 * time.Second

type BaseClient struct {
	baseURL string
	client  *resty.Client
}

func NewBaseClient(baseURL string) *BaseClient {
	return &BaseClient{
		baseURL: baseURL,
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
	}
}

func (c *BaseClient) BaseURL() string {
	return c.baseURL
}

func (c *BaseClient) SetTimeout(timeout time.Duration) {
	c.client.SetTimeout(timeout)
}

// GetJSON issues a GET against endpoint and decodes the JSON body into result.
// An empty body leaves result untouched.
func (c *BaseClient) GetJSON(ctx context.Context, endpoint string, result interface{}) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%s: %w", endpoint, ErrNotFound)
	}
	if resp.IsError() {
		return fmt.Errorf("API returned status code: %d, response: %s", resp.StatusCode(), resp.String())
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return nil
}
