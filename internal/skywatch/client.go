package skywatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

const searchPath = "/archive/search"

// Client handles communication with the SkyWatch EarthCache API.
type Client struct {
	baseURL string
	timeout time.Duration
	rest    *resty.Client
	logger  *slog.Logger
}

// NewClient creates a new SkyWatch client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := &Client{baseURL: baseURL, timeout: timeout}
	return c.WithLogger(slog.Default())
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	c.rest = backend.NewRESTClient(backend.RESTOptions{
		Provider: imagery.ProviderSkyWatch,
		BaseURL:  c.baseURL,
		Timeout:  c.timeout,
		Logger:   logger,
	})
	return c
}

// authorize sets the bearer token when present, the API key header otherwise.
func authorize(req *resty.Request, creds backend.Credentials) *resty.Request {
	if creds.Token != "" {
		return req.SetAuthToken(creds.Token)
	}
	return req.SetHeader("x-api-key", creds.APIKey)
}

// CreateSearch starts an archive search job and returns its id.
func (c *Client) CreateSearch(ctx context.Context, creds backend.Credentials, req *SearchRequest) (string, error) {
	body, err := backend.Body(authorize(c.rest.R(), creds).
		SetContext(ctx).
		SetBody(req).
		Post(searchPath))
	if err != nil {
		return "", fmt.Errorf("SkyWatch search creation failed: %w", err)
	}

	var job SearchJob
	if err := backend.DecodeJSON(body, &job); err != nil {
		return "", err
	}
	if job.Data.ID == "" {
		return "", backend.Malformed(fmt.Errorf("search job has no id"))
	}

	c.logger.DebugContext(ctx, "SkyWatch search job created", slog.String("job_id", job.Data.ID))
	return job.Data.ID, nil
}

// Results fetches the results of a job. ready is false while the job is
// still running (HTTP 202).
func (c *Client) Results(ctx context.Context, creds backend.Credentials, jobID string) (results *SearchResults, ready bool, err error) {
	resp, err := authorize(c.rest.R(), creds).
		SetContext(ctx).
		Get(searchPath + "/" + url.PathEscape(jobID) + "/search_results")
	if err != nil {
		return nil, false, fmt.Errorf("SkyWatch results request failed: %w", backend.TransportError(err))
	}
	if resp.StatusCode() == http.StatusAccepted {
		return nil, false, nil
	}

	body, err := backend.Body(resp, nil)
	if err != nil {
		return nil, false, fmt.Errorf("SkyWatch results request failed: %w", err)
	}

	var out SearchResults
	if err := backend.DecodeJSON(body, &out); err != nil {
		return nil, false, err
	}
	return &out, true, nil
}
