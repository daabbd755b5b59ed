// Package arlula searches the Arlula multi-supplier archive.
package arlula

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// Adapter implements backend.Adapter for Arlula.
type Adapter struct {
	client     *Client
	normalizer *backend.Normalizer
	maxPages   int
	logger     *slog.Logger
}

// NewAdapter creates a new Arlula adapter.
func NewAdapter(client *Client, cat *catalog.Catalog, maxPages int, logger *slog.Logger) *Adapter {
	if maxPages <= 0 {
		maxPages = 1
	}
	return &Adapter{
		client:     client,
		normalizer: backend.NewNormalizer(cat, imagery.ProviderArlula, logger),
		maxPages:   maxPages,
		logger:     logger,
	}
}

// ID returns the provider id.
func (a *Adapter) ID() imagery.ProviderID {
	return imagery.ProviderArlula
}

// Search executes a search against Arlula, following the next token.
func (a *Adapter) Search(ctx context.Context, q *backend.Query) (*backend.Result, error) {
	if q.Credentials.APIKey == "" || q.Credentials.Secret == "" {
		return backend.Failed(), fmt.Errorf("%w: Arlula requires an API key and secret", backend.ErrAuth)
	}

	var scenes []Scene
	next := ""
	for page := 1; page <= a.maxPages; page++ {
		params, err := BuildParams(q.Settings, q.Polygon, next)
		if err != nil {
			return backend.Failed(), err
		}

		resp, err := a.client.Search(ctx, q.Credentials.APIKey, q.Credentials.Secret, params)
		if err != nil {
			return backend.Failed(), fmt.Errorf("Arlula search failed on page %d: %w", page, err)
		}
		scenes = append(scenes, resp.Results...)

		if resp.Next == "" || resp.Next == next {
			break
		}
		next = resp.Next
	}

	candidates := make([]backend.Candidate, 0, len(scenes))
	for i := range scenes {
		c, err := toCandidate(&scenes[i])
		if err != nil {
			a.logger.Warn("failed to translate Arlula scene",
				slog.String("scene_id", scenes[i].SceneID),
				slog.String("error", err.Error()),
			)
			continue
		}
		candidates = append(candidates, c)
	}

	return backend.Succeeded(a.normalizer.NormalizeAll(candidates, q.Polygon)), nil
}
