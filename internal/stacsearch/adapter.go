// Package stacsearch searches any STAC API item search endpoint.
package stacsearch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/stac"
)

// Adapter implements backend.Adapter for a STAC API.
type Adapter struct {
	client     *Client
	normalizer *backend.Normalizer
	opts       Options
	maxPages   int
	logger     *slog.Logger
}

// NewAdapter creates a new STAC adapter.
func NewAdapter(client *Client, cat *catalog.Catalog, opts Options, maxPages int, logger *slog.Logger) *Adapter {
	if maxPages <= 0 {
		maxPages = 1
	}
	return &Adapter{
		client:     client,
		normalizer: backend.NewNormalizer(cat, imagery.ProviderSTAC, logger),
		opts:       opts,
		maxPages:   maxPages,
		logger:     logger,
	}
}

// ID returns the provider id.
func (a *Adapter) ID() imagery.ProviderID {
	return imagery.ProviderSTAC
}

// Search executes an item search and follows rel=next links. Items outside
// the cloud cover or resolution bounds are dropped, since the GET search has
// no property filter.
func (a *Adapter) Search(ctx context.Context, q *backend.Query) (*backend.Result, error) {
	ic, err := a.client.Search(ctx, BuildParams(q.Settings, q.Polygon, a.opts))
	if err != nil {
		return backend.Failed(), fmt.Errorf("STAC search failed: %w", err)
	}

	var items []*stac.Item
	for page := 1; ; page++ {
		items = append(items, ic.Features...)

		next := ic.NextLink()
		if next == nil || page >= a.maxPages || len(ic.Features) == 0 {
			break
		}
		ic, err = a.client.Next(ctx, next.Href)
		if err != nil {
			return backend.Failed(), fmt.Errorf("STAC search failed on page %d: %w", page+1, err)
		}
	}

	candidates := make([]backend.Candidate, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		c, err := toCandidate(item)
		if err != nil {
			a.logger.Warn("failed to translate STAC item",
				slog.String("item_id", item.Id),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !accept(c, q.Settings) {
			continue
		}
		candidates = append(candidates, c)
	}

	return backend.Succeeded(a.normalizer.NormalizeAll(candidates, q.Polygon)), nil
}

func accept(c backend.Candidate, s imagery.SearchSettings) bool {
	if cc := c.Feature.Properties.CloudCoverage; cc != nil && *cc > s.CloudCoverage {
		return false
	}
	if c.Resolution > 0 && !s.GSD.Contains(c.Resolution) {
		return false
	}
	return true
}
