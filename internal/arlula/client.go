package arlula

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

const searchPath = "/api/archive/search"

// Client handles communication with the Arlula archive API.
type Client struct {
	baseURL string
	timeout time.Duration
	rest    *resty.Client
	logger  *slog.Logger
}

// NewClient creates a new Arlula client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := &Client{baseURL: baseURL, timeout: timeout}
	return c.WithLogger(slog.Default())
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	c.rest = backend.NewRESTClient(backend.RESTOptions{
		Provider: imagery.ProviderArlula,
		BaseURL:  c.baseURL,
		Timeout:  c.timeout,
		Logger:   logger,
	})
	return c
}

// Search fetches one page of archive results using HTTP Basic key:secret.
func (c *Client) Search(ctx context.Context, key, secret string, params url.Values) (*SearchResponse, error) {
	c.logger.DebugContext(ctx, "executing Arlula search", slog.Bool("continuation", params.Get("next") != ""))

	body, err := backend.Body(c.rest.R().
		SetContext(ctx).
		SetBasicAuth(key, secret).
		SetQueryParamsFromValues(params).
		Get(searchPath))
	if err != nil {
		return nil, fmt.Errorf("Arlula request failed: %w", err)
	}

	var resp SearchResponse
	if err := backend.DecodeJSON(body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("%w: Arlula errors: %s", backend.ErrUpstreamStatus, strings.Join(resp.Errors, "; "))
	}
	return &resp, nil
}
