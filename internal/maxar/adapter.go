// Package maxar searches the Maxar archive through its ArcGIS ImageServer.
package maxar

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// Adapter implements backend.Adapter for Maxar.
type Adapter struct {
	client     *Client
	catalog    *catalog.Catalog
	normalizer *backend.Normalizer
	maxPages   int
	logger     *slog.Logger
}

// NewAdapter creates a new Maxar adapter. maxPages bounds the number of
// query pages fetched per search.
func NewAdapter(client *Client, cat *catalog.Catalog, maxPages int, logger *slog.Logger) *Adapter {
	if maxPages <= 0 {
		maxPages = 1
	}
	return &Adapter{
		client:     client,
		catalog:    cat,
		normalizer: backend.NewNormalizer(cat, imagery.ProviderMaxar, logger),
		maxPages:   maxPages,
		logger:     logger,
	}
}

// ID returns the provider id.
func (a *Adapter) ID() imagery.ProviderID {
	return imagery.ProviderMaxar
}

// Search executes a search against the Maxar archive, following
// exceededTransferLimit with resultOffset.
func (a *Adapter) Search(ctx context.Context, q *backend.Query) (*backend.Result, error) {
	if q.Credentials.APIKey == "" {
		return backend.Failed(), fmt.Errorf("%w: Maxar requires an API key", backend.ErrAuth)
	}

	vehicles := a.catalog.SatellitesWithin(imagery.ProviderMaxar, q.Settings.GSD)
	if len(vehicles) == 0 {
		a.logger.DebugContext(ctx, "no Maxar vehicles within resolution range")
		return backend.Succeeded(nil), nil
	}

	var candidates []backend.Candidate
	offset := 0
	for page := 1; page <= a.maxPages; page++ {
		form, err := BuildForm(q.Settings, q.Polygon, vehicles, offset)
		if err != nil {
			return backend.Failed(), err
		}

		resp, err := a.client.Query(ctx, q.Credentials.APIKey, form)
		if err != nil {
			return backend.Failed(), fmt.Errorf("Maxar search failed on page %d: %w", page, err)
		}

		for i := range resp.Features {
			c, err := toCandidate(&resp.Features[i])
			if err != nil {
				a.logger.Warn("failed to translate Maxar record",
					slog.String("catalog_id", resp.Features[i].Attributes.CatalogID),
					slog.String("error", err.Error()),
				)
				continue
			}
			candidates = append(candidates, c)
		}

		if !resp.ExceededTransferLimit || len(resp.Features) == 0 {
			break
		}
		offset += len(resp.Features)
	}

	return backend.Succeeded(a.normalizer.NormalizeAll(candidates, q.Polygon)), nil
}
