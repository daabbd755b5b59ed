package up42

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/stac"
)

const searchPath = "/catalog/stac/search"

// Client handles communication with the UP42 catalog.
type Client struct {
	baseURL string
	timeout time.Duration
	rest    *resty.Client
	tokens  *TokenCache
	logger  *slog.Logger
}

// NewClient creates a new UP42 client sharing tokens through cache.
func NewClient(baseURL string, timeout time.Duration, cache *TokenCache) *Client {
	c := &Client{baseURL: baseURL, timeout: timeout, tokens: cache}
	return c.WithLogger(slog.Default())
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	c.rest = backend.NewRESTClient(backend.RESTOptions{
		Provider: imagery.ProviderUP42,
		BaseURL:  c.baseURL,
		Timeout:  c.timeout,
		Logger:   logger,
	})
	return c
}

// Search posts one search page.
func (c *Client) Search(ctx context.Context, token string, req *SearchRequest) (*stac.ItemCollection, error) {
	c.logger.DebugContext(ctx, "executing UP42 search", slog.Bool("continuation", req.Next != ""))

	body, err := backend.Body(c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(req).
		Post(searchPath))
	if err != nil {
		return nil, fmt.Errorf("UP42 request failed: %w", err)
	}

	ic, err := stac.DecodeItemCollection(body)
	if err != nil {
		return nil, backend.Malformed(err)
	}
	return ic, nil
}

// Quicklook downloads an image and returns it as a data URI.
func (c *Client) Quicklook(ctx context.Context, token, href string) (string, error) {
	body, err := backend.Body(c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Accept", "image/*").
		Get(href))
	if err != nil {
		return "", fmt.Errorf("UP42 quicklook request failed: %w", err)
	}
	if len(body) == 0 {
		return "", backend.Malformed(fmt.Errorf("empty quicklook"))
	}
	return "data:" + http.DetectContentType(body) + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}
