// Package skywatch searches the SkyWatch EarthCache archive. Searches are
// asynchronous jobs: one request creates the job, then its results are polled.
package skywatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/metrics"
	"github.com/robert-malhotra/eo-search/internal/poll"
)

// Adapter implements backend.Adapter for SkyWatch.
type Adapter struct {
	client     *Client
	normalizer *backend.Normalizer
	policy     poll.Policy
	logger     *slog.Logger
}

// NewAdapter creates a new SkyWatch adapter polling with policy.
func NewAdapter(client *Client, cat *catalog.Catalog, policy poll.Policy, logger *slog.Logger) *Adapter {
	return &Adapter{
		client:     client,
		normalizer: backend.NewNormalizer(cat, imagery.ProviderSkyWatch, logger),
		policy:     policy,
		logger:     logger,
	}
}

// ID returns the provider id.
func (a *Adapter) ID() imagery.ProviderID {
	return imagery.ProviderSkyWatch
}

// Search creates a search job and polls it until ready. When every poll
// reports the job as running, the search fails with a timeout notice.
func (a *Adapter) Search(ctx context.Context, q *backend.Query) (*backend.Result, error) {
	if q.Credentials.APIKey == "" && q.Credentials.Token == "" {
		return backend.Failed(), fmt.Errorf("%w: SkyWatch requires an API key or token", backend.ErrAuth)
	}

	req, err := BuildRequest(q.Settings, q.Polygon)
	if err != nil {
		return backend.Failed(), err
	}

	jobID, err := a.client.CreateSearch(ctx, q.Credentials, req)
	if err != nil {
		return backend.Failed(), err
	}

	var results *SearchResults
	stats, err := a.policy.Run(ctx, func(ctx context.Context, attempt int) (bool, error) {
		metrics.IncPollAttempt(string(imagery.ProviderSkyWatch))
		r, ready, err := a.client.Results(ctx, q.Credentials, jobID)
		if err != nil {
			return false, err
		}
		if !ready {
			a.logger.DebugContext(ctx, "SkyWatch search still running",
				slog.String("job_id", jobID),
				slog.Int("attempt", attempt),
			)
			return false, nil
		}
		results = r
		return true, nil
	})
	if errors.Is(err, poll.ErrExhausted) {
		notice := imagery.NewNotice(imagery.ProviderSkyWatch, imagery.NoticeError,
			fmt.Sprintf("search on %s timed out after %d ms", imagery.ProviderSkyWatch.DisplayName(), stats.Waited.Milliseconds()))
		return backend.Failed(notice), fmt.Errorf("%w: SkyWatch job %s not ready after %d attempts: %w",
			backend.ErrTimeout, jobID, stats.Attempts, err)
	}
	if err != nil {
		return backend.Failed(), fmt.Errorf("SkyWatch polling failed: %w", err)
	}

	candidates := make([]backend.Candidate, 0, len(results.Data))
	for i := range results.Data {
		c, err := toCandidate(&results.Data[i])
		if err != nil {
			a.logger.Warn("failed to translate SkyWatch result",
				slog.String("result_id", results.Data[i].ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		candidates = append(candidates, c)
	}

	return backend.Succeeded(a.normalizer.NormalizeAll(candidates, q.Polygon)), nil
}
