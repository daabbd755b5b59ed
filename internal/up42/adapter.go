// Package up42 searches the UP42 catalog. Authentication is an OAuth2
// client credentials exchange per project; quicklooks require the bearer
// token and are resolved after the primary results.
package up42

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// Adapter implements backend.Adapter and backend.PreviewEnricher for UP42.
type Adapter struct {
	client     *Client
	catalog    *catalog.Catalog
	normalizer *backend.Normalizer
	maxPages   int
	logger     *slog.Logger
}

// NewAdapter creates a new UP42 adapter.
func NewAdapter(client *Client, cat *catalog.Catalog, maxPages int, logger *slog.Logger) *Adapter {
	if maxPages <= 0 {
		maxPages = 1
	}
	return &Adapter{
		client:     client,
		catalog:    cat,
		normalizer: backend.NewNormalizer(cat, imagery.ProviderUP42, logger),
		maxPages:   maxPages,
		logger:     logger,
	}
}

// ID returns the provider id.
func (a *Adapter) ID() imagery.ProviderID {
	return imagery.ProviderUP42
}

// Search exchanges credentials for a token and pages through the catalog.
func (a *Adapter) Search(ctx context.Context, q *backend.Query) (*backend.Result, error) {
	producers := a.catalog.ProducersWithin(imagery.ProviderUP42, q.Settings.GSD)
	if len(producers) == 0 {
		a.logger.DebugContext(ctx, "no UP42 producers within resolution range")
		return backend.Succeeded(nil), nil
	}

	token, err := a.client.Token(ctx, q.Credentials)
	if err != nil {
		return backend.Failed(), err
	}

	req, err := BuildRequest(q.Settings, q.Polygon, producers)
	if err != nil {
		return backend.Failed(), err
	}

	var candidates []backend.Candidate
	for page := 1; page <= a.maxPages; page++ {
		ic, err := a.client.Search(ctx, token, req)
		if err != nil {
			return backend.Failed(), fmt.Errorf("UP42 search failed on page %d: %w", page, err)
		}

		for _, item := range ic.Features {
			if item == nil {
				continue
			}
			c, err := toCandidate(item)
			if err != nil {
				a.logger.Warn("failed to translate UP42 item",
					slog.String("item_id", item.Id),
					slog.String("error", err.Error()),
				)
				continue
			}
			candidates = append(candidates, c)
		}

		next := ic.NextToken()
		if next == "" || next == req.Next {
			break
		}
		req.Next = next
	}

	return backend.Succeeded(a.normalizer.NormalizeAll(candidates, q.Polygon)), nil
}

// EnrichPreviews downloads the quicklook of each feature and reports it as a
// data URI. Failures leave the feature's preview unchanged.
func (a *Adapter) EnrichPreviews(ctx context.Context, q *backend.Query, features []imagery.Feature, resolved func(id, preview, thumbnail string)) {
	token, err := a.client.Token(ctx, q.Credentials)
	if err != nil {
		a.logger.Warn("skipping UP42 previews", slog.String("error", err.Error()))
		return
	}

	for _, f := range features {
		href := f.Properties.PreviewURI
		if href == "" || strings.HasPrefix(href, "data:") {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		uri, err := a.client.Quicklook(ctx, token, href)
		if err != nil {
			a.logger.Warn("failed to fetch UP42 quicklook",
				slog.String("feature_id", f.Properties.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		resolved(f.Properties.ID, uri, uri)
	}
}
