package head

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

const searchPath = "/search"

// sceneListMarker precedes the JSON scene array in the response body.
const sceneListMarker = "jsonscenelist="

// ErrMissingSceneList is returned when the body has no scene list marker.
var ErrMissingSceneList = errors.New("response has no scene list")

// Client handles communication with the HEAD Aerospace catalog.
type Client struct {
	baseURL string
	timeout time.Duration
	rest    *resty.Client
	logger  *slog.Logger
}

// NewClient creates a new HEAD Aerospace catalog client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := &Client{baseURL: baseURL, timeout: timeout}
	return c.WithLogger(slog.Default())
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	c.rest = backend.NewRESTClient(backend.RESTOptions{
		Provider: imagery.ProviderHEAD,
		BaseURL:  c.baseURL,
		Timeout:  c.timeout,
		Logger:   logger,
	})
	return c
}

// Search sends the signed query and extracts the scene list. The query is
// sent verbatim so the signed bytes reach the server unchanged.
func (c *Client) Search(ctx context.Context, signedQuery string) ([]Scene, error) {
	searchURL := c.baseURL + searchPath + "?" + signedQuery

	c.logger.DebugContext(ctx, "executing HEAD search", slog.String("url", searchURL))

	body, err := backend.Body(c.rest.R().
		SetContext(ctx).
		Get(searchURL))
	if err != nil {
		return nil, fmt.Errorf("HEAD request failed: %w", err)
	}

	scenes, err := ParseSceneList(body)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "HEAD search completed", slog.Int("scene_count", len(scenes)))
	return scenes, nil
}

// ParseSceneList extracts the JSON array that follows "jsonscenelist=".
func ParseSceneList(body []byte) ([]Scene, error) {
	idx := bytes.Index(body, []byte(sceneListMarker))
	if idx < 0 {
		return nil, backend.Malformed(ErrMissingSceneList)
	}

	dec := json.NewDecoder(bytes.NewReader(body[idx+len(sceneListMarker):]))
	var scenes []Scene
	if err := dec.Decode(&scenes); err != nil {
		return nil, backend.Malformed(fmt.Errorf("decode scene list: %w", err))
	}
	return scenes, nil
}
