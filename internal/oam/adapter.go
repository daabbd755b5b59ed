// Package oam searches the OpenAerialMap catalog of openly licensed imagery.
package oam

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// Adapter implements backend.Adapter for OpenAerialMap.
type Adapter struct {
	client     *Client
	normalizer *backend.Normalizer
	limit      int
	logger     *slog.Logger
}

// NewAdapter creates a new OpenAerialMap adapter.
func NewAdapter(client *Client, cat *catalog.Catalog, limit int, logger *slog.Logger) *Adapter {
	return &Adapter{
		client:     client,
		normalizer: backend.NewNormalizer(cat, imagery.ProviderOAM, logger),
		limit:      limit,
		logger:     logger,
	}
}

// ID returns the provider id.
func (a *Adapter) ID() imagery.ProviderID {
	return imagery.ProviderOAM
}

// Search executes a search against OpenAerialMap.
func (a *Adapter) Search(ctx context.Context, q *backend.Query) (*backend.Result, error) {
	resp, err := a.client.Search(ctx, BuildParams(q.Settings, q.Polygon, a.limit))
	if err != nil {
		return backend.Failed(), fmt.Errorf("OAM search failed: %w", err)
	}

	candidates := make([]backend.Candidate, 0, len(resp.Results))
	for i := range resp.Results {
		c, err := toCandidate(&resp.Results[i])
		if err != nil {
			a.logger.Warn("failed to translate OAM result",
				slog.String("result_id", resp.Results[i].ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		candidates = append(candidates, c)
	}

	return backend.Succeeded(a.normalizer.NormalizeAll(candidates, q.Polygon)), nil
}
