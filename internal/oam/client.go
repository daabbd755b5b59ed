package oam

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// Client handles communication with the OpenAerialMap catalog API.
type Client struct {
	baseURL string
	timeout time.Duration
	rest    *resty.Client
	logger  *slog.Logger
}

// NewClient creates a new OpenAerialMap API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := &Client{baseURL: baseURL, timeout: timeout}
	return c.WithLogger(slog.Default())
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	c.rest = backend.NewRESTClient(backend.RESTOptions{
		Provider: imagery.ProviderOAM,
		BaseURL:  c.baseURL,
		Timeout:  c.timeout,
		Logger:   logger,
	})
	return c
}

// Search queries the /meta endpoint.
func (c *Client) Search(ctx context.Context, params url.Values) (*MetaResponse, error) {
	c.logger.DebugContext(ctx, "executing OAM search", slog.String("query", params.Encode()))

	body, err := backend.Body(c.rest.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParamsFromValues(params).
		Get("/meta"))
	if err != nil {
		return nil, fmt.Errorf("OAM API request failed: %w", err)
	}

	var result MetaResponse
	if err := backend.DecodeJSON(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode OAM response: %w", err)
	}

	c.logger.DebugContext(ctx, "OAM search completed", slog.Int("result_count", len(result.Results)))
	return &result, nil
}
