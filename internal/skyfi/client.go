package skyfi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

const archivesPath = "/api/archive-available"

// Client handles communication with the SkyFi platform API.
type Client struct {
	baseURL string
	timeout time.Duration
	rest    *resty.Client
	logger  *slog.Logger
}

// NewClient creates a new SkyFi client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := &Client{baseURL: baseURL, timeout: timeout}
	return c.WithLogger(slog.Default())
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	c.rest = backend.NewRESTClient(backend.RESTOptions{
		Provider: imagery.ProviderSkyFi,
		BaseURL:  c.baseURL,
		Timeout:  c.timeout,
		Logger:   logger,
	})
	return c
}

// Archives fetches one page of available archives.
func (c *Client) Archives(ctx context.Context, apiKey string, req *ArchiveRequest) (*ArchiveResponse, error) {
	c.logger.DebugContext(ctx, "executing SkyFi archive search",
		slog.Int("page", req.Page),
		slog.Int("page_size", req.PageSize),
	)

	body, err := backend.Body(c.rest.R().
		SetContext(ctx).
		SetHeader("X-Skyfi-Api-Key", apiKey).
		SetBody(req).
		Post(archivesPath))
	if err != nil {
		return nil, fmt.Errorf("SkyFi request failed: %w", err)
	}

	var resp ArchiveResponse
	if err := backend.DecodeJSON(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
