package eos

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

const searchPath = "/api/v5/allsensors"

// Client handles communication with the EOS all-sensors search API.
type Client struct {
	baseURL string
	timeout time.Duration
	rest    *resty.Client
	logger  *slog.Logger
}

// NewClient creates a new EOS API client. timeout is enforced on every
// search request on top of the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := &Client{baseURL: baseURL, timeout: timeout}
	return c.WithLogger(slog.Default())
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	c.rest = backend.NewRESTClient(backend.RESTOptions{
		Provider: imagery.ProviderEOS,
		BaseURL:  c.baseURL,
		Timeout:  c.timeout,
		Logger:   logger,
	})
	return c
}

// Timeout returns the hard request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Search posts a search request.
func (c *Client) Search(ctx context.Context, apiKey string, req *SearchRequest) (*SearchResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.DebugContext(ctx, "executing EOS search",
		slog.Int("page", req.Page),
		slog.Any("satellites", req.Search.Satellites),
	)

	body, err := backend.Body(c.rest.R().
		SetContext(ctx).
		SetQueryParam("api_key", apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(searchPath))
	if err != nil {
		return nil, fmt.Errorf("EOS API request failed: %w", err)
	}

	var result SearchResponse
	if err := backend.DecodeJSON(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode EOS response: %w", err)
	}

	c.logger.DebugContext(ctx, "EOS search completed", slog.Int("result_count", len(result.Results)))
	return &result, nil
}
