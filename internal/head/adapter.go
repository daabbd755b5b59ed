// Package head searches the HEAD Aerospace scene catalog through its
// checksum-signed query interface.
package head

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// Adapter implements backend.Adapter for HEAD Aerospace.
type Adapter struct {
	client     *Client
	catalog    *catalog.Catalog
	normalizer *backend.Normalizer
	category   string
	logger     *slog.Logger
}

// NewAdapter creates a new HEAD Aerospace adapter.
func NewAdapter(client *Client, cat *catalog.Catalog, category string, logger *slog.Logger) *Adapter {
	return &Adapter{
		client:     client,
		catalog:    cat,
		normalizer: backend.NewNormalizer(cat, imagery.ProviderHEAD, logger),
		category:   category,
		logger:     logger,
	}
}

// ID returns the provider id.
func (a *Adapter) ID() imagery.ProviderID {
	return imagery.ProviderHEAD
}

// Search executes a search against HEAD Aerospace.
func (a *Adapter) Search(ctx context.Context, q *backend.Query) (*backend.Result, error) {
	satellites := a.catalog.SatellitesWithin(imagery.ProviderHEAD, q.Settings.GSD)
	if len(satellites) == 0 {
		a.logger.DebugContext(ctx, "no HEAD satellites within resolution range")
		return backend.Succeeded(nil), nil
	}

	scenes, err := a.client.Search(ctx, BuildQuery(a.category, q.Settings, q.Polygon, satellites))
	if err != nil {
		return backend.Failed(), fmt.Errorf("HEAD search failed: %w", err)
	}

	candidates := make([]backend.Candidate, 0, len(scenes))
	for i := range scenes {
		c, err := toCandidate(&scenes[i])
		if err != nil {
			a.logger.Warn("failed to translate HEAD scene",
				slog.String("scene_id", scenes[i].ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		candidates = append(candidates, c)
	}

	return backend.Succeeded(a.normalizer.NormalizeAll(candidates, q.Polygon)), nil
}
