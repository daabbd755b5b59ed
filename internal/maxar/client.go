package maxar

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

const queryPath = "/arcgis/rest/services/Archive/ImageServer/query"

// Client handles communication with the Maxar archive ImageServer.
type Client struct {
	baseURL string
	timeout time.Duration
	rest    *resty.Client
	logger  *slog.Logger
}

// NewClient creates a new Maxar archive client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := &Client{baseURL: baseURL, timeout: timeout}
	return c.WithLogger(slog.Default())
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	c.rest = backend.NewRESTClient(backend.RESTOptions{
		Provider: imagery.ProviderMaxar,
		BaseURL:  c.baseURL,
		Timeout:  c.timeout,
		Logger:   logger,
	})
	return c
}

// Query posts one form-encoded query page.
func (c *Client) Query(ctx context.Context, apiKey string, form url.Values) (*QueryResponse, error) {
	c.logger.DebugContext(ctx, "executing Maxar query",
		slog.String("where", form.Get("where")),
		slog.String("offset", form.Get("resultOffset")),
	)

	body, err := backend.Body(c.rest.R().
		SetContext(ctx).
		SetHeader("x-api-key", apiKey).
		SetFormDataFromValues(form).
		Post(queryPath))
	if err != nil {
		return nil, fmt.Errorf("Maxar request failed: %w", err)
	}

	var resp QueryResponse
	if err := backend.DecodeJSON(body, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: Maxar error %d: %s", backend.ErrUpstreamStatus, resp.Error.Code, resp.Error.Message)
	}
	return &resp, nil
}
