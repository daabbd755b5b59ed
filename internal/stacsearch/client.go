package stacsearch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/stac"
)

const searchPath = "/search"

// Client handles communication with a STAC API.
type Client struct {
	baseURL string
	timeout time.Duration
	rest    *resty.Client
	logger  *slog.Logger
}

// NewClient creates a new STAC API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := &Client{baseURL: baseURL, timeout: timeout}
	return c.WithLogger(slog.Default())
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	c.rest = backend.NewRESTClient(backend.RESTOptions{
		Provider: imagery.ProviderSTAC,
		BaseURL:  c.baseURL,
		Timeout:  c.timeout,
		Logger:   logger,
	})
	return c
}

// Search fetches the first page of an item search.
func (c *Client) Search(ctx context.Context, params url.Values) (*stac.ItemCollection, error) {
	c.logger.DebugContext(ctx, "executing STAC search", slog.String("query", params.Encode()))
	return c.fetch(ctx, c.rest.R().SetQueryParamsFromValues(params), searchPath)
}

// Next follows a rel=next href.
func (c *Client) Next(ctx context.Context, href string) (*stac.ItemCollection, error) {
	c.logger.DebugContext(ctx, "following STAC next link", slog.String("href", href))
	return c.fetch(ctx, c.rest.R(), href)
}

func (c *Client) fetch(ctx context.Context, req *resty.Request, target string) (*stac.ItemCollection, error) {
	body, err := backend.Body(req.SetContext(ctx).
		SetHeader("Accept", "application/geo+json").
		Get(target))
	if err != nil {
		return nil, fmt.Errorf("STAC request failed: %w", err)
	}
	ic, err := stac.DecodeItemCollection(body)
	if err != nil {
		return nil, backend.Malformed(err)
	}
	return ic, nil
}
