// Package eos searches the EOS all-sensors archive.
package eos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// Adapter implements backend.Adapter for EOS.
type Adapter struct {
	client     *Client
	catalog    *catalog.Catalog
	normalizer *backend.Normalizer
	logger     *slog.Logger
}

// NewAdapter creates a new EOS adapter.
func NewAdapter(client *Client, cat *catalog.Catalog, logger *slog.Logger) *Adapter {
	return &Adapter{
		client:     client,
		catalog:    cat,
		normalizer: backend.NewNormalizer(cat, imagery.ProviderEOS, logger),
		logger:     logger,
	}
}

// ID returns the provider id.
func (a *Adapter) ID() imagery.ProviderID {
	return imagery.ProviderEOS
}

// Search executes a search against EOS. The request is abandoned after the
// client timeout and reported with a timeout notice.
func (a *Adapter) Search(ctx context.Context, q *backend.Query) (*backend.Result, error) {
	if q.Credentials.APIKey == "" {
		return backend.Failed(), fmt.Errorf("%w: EOS requires an API key", backend.ErrAuth)
	}

	satellites := a.catalog.SatellitesWithin(imagery.ProviderEOS, q.Settings.GSD)
	if len(satellites) == 0 {
		a.logger.DebugContext(ctx, "no EOS satellites within resolution range",
			slog.Float64("gsd_min", q.Settings.GSD.Min),
			slog.Float64("gsd_max", q.Settings.GSD.Max),
		)
		return backend.Succeeded(nil), nil
	}

	req, err := BuildRequest(q.Settings, q.Polygon, satellites)
	if err != nil {
		return backend.Failed(), fmt.Errorf("failed to build EOS request: %w", err)
	}

	resp, err := a.client.Search(ctx, q.Credentials.APIKey, req)
	if err != nil {
		if errors.Is(err, backend.ErrTimeout) {
			notice := imagery.NewNotice(imagery.ProviderEOS, imagery.NoticeError,
				fmt.Sprintf("search on %s timed out after %s", imagery.ProviderEOS.DisplayName(), a.client.Timeout()))
			return backend.Failed(notice), fmt.Errorf("EOS search failed: %w", err)
		}
		return backend.Failed(), fmt.Errorf("EOS search failed: %w", err)
	}

	candidates := make([]backend.Candidate, 0, len(resp.Results))
	for i := range resp.Results {
		c, err := toCandidate(&resp.Results[i])
		if err != nil {
			a.logger.Warn("failed to translate EOS scene",
				slog.String("scene_id", resp.Results[i].SceneID),
				slog.String("error", err.Error()),
			)
			continue
		}
		candidates = append(candidates, c)
	}

	return backend.Succeeded(a.normalizer.NormalizeAll(candidates, q.Polygon)), nil
}
