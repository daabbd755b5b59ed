// Package skyfi searches the SkyFi archive marketplace.
package skyfi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// Adapter implements backend.Adapter for SkyFi.
type Adapter struct {
	client     *Client
	normalizer *backend.Normalizer
	pageSize   int
	maxPages   int
	logger     *slog.Logger
}

// NewAdapter creates a new SkyFi adapter.
func NewAdapter(client *Client, cat *catalog.Catalog, pageSize, maxPages int, logger *slog.Logger) *Adapter {
	if pageSize <= 0 {
		pageSize = 25
	}
	if maxPages <= 0 {
		maxPages = 1
	}
	return &Adapter{
		client:     client,
		normalizer: backend.NewNormalizer(cat, imagery.ProviderSkyFi, logger),
		pageSize:   pageSize,
		maxPages:   maxPages,
		logger:     logger,
	}
}

// ID returns the provider id.
func (a *Adapter) ID() imagery.ProviderID {
	return imagery.ProviderSkyFi
}

// Search requests pages in order until the pages fetched cover
// numTotalArchives or the page limit is reached.
func (a *Adapter) Search(ctx context.Context, q *backend.Query) (*backend.Result, error) {
	if q.Credentials.APIKey == "" {
		return backend.Failed(), fmt.Errorf("%w: SkyFi requires an API key", backend.ErrAuth)
	}

	var archives []Archive
	for page := 0; page < a.maxPages; page++ {
		resp, err := a.client.Archives(ctx, q.Credentials.APIKey, BuildRequest(q.Settings, q.Polygon, page, a.pageSize))
		if err != nil {
			return backend.Failed(), fmt.Errorf("SkyFi search failed on page %d: %w", page, err)
		}
		archives = append(archives, resp.Archives...)

		if (page+1)*a.pageSize >= resp.NumTotalArchives || len(resp.Archives) == 0 {
			break
		}
	}

	candidates := make([]backend.Candidate, 0, len(archives))
	for i := range archives {
		c, err := toCandidate(&archives[i])
		if err != nil {
			a.logger.Warn("failed to translate SkyFi archive",
				slog.String("archive_id", archives[i].ArchiveID),
				slog.String("error", err.Error()),
			)
			continue
		}
		candidates = append(candidates, c)
	}

	return backend.Succeeded(a.normalizer.NormalizeAll(candidates, q.Polygon)), nil
}
