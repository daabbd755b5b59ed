// Package providers wires the configured provider adapters into the sealed
// registry the search orchestrator runs against.
package providers

import (
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/eo-search/internal/arlula"
	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/config"
	"github.com/robert-malhotra/eo-search/internal/eos"
	"github.com/robert-malhotra/eo-search/internal/head"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/maxar"
	"github.com/robert-malhotra/eo-search/internal/oam"
	"github.com/robert-malhotra/eo-search/internal/poll"
	"github.com/robert-malhotra/eo-search/internal/skyfi"
	"github.com/robert-malhotra/eo-search/internal/skywatch"
	"github.com/robert-malhotra/eo-search/internal/stac"
	"github.com/robert-malhotra/eo-search/internal/stacsearch"
	"github.com/robert-malhotra/eo-search/internal/up42"
)

// Set is the registry together with the default credentials from config.
type Set struct {
	Registry *backend.Registry
	Defaults map[imagery.ProviderID]backend.Credentials
}

// Credentials converts the credential fields of a provider section.
func Credentials(pc config.ProviderConfig) backend.Credentials {
	return backend.Credentials{
		APIKey:     pc.APIKey,
		Secret:     pc.Secret,
		ProjectID:  pc.ProjectID,
		ProjectKey: pc.ProjectKey,
		Token:      pc.Token,
	}
}

// Build creates an adapter for every enabled provider section.
func Build(cfg *config.Config, cat *catalog.Catalog, logger *slog.Logger) (*Set, error) {
	set := &Set{Defaults: make(map[imagery.ProviderID]backend.Credentials)}
	var adapters []backend.Adapter

	add := func(id imagery.ProviderID, pc config.ProviderConfig, build func(logger *slog.Logger) (backend.Adapter, error)) error {
		if !pc.Enabled {
			logger.Info("provider disabled", slog.String("provider", string(id)))
			return nil
		}
		if !cat.Has(id) {
			return fmt.Errorf("provider %s has no catalog entry", id)
		}
		a, err := build(logger.With(slog.String("provider", string(id))))
		if err != nil {
			return fmt.Errorf("failed to build %s adapter: %w", id, err)
		}
		adapters = append(adapters, a)
		set.Defaults[id] = Credentials(pc)
		return nil
	}

	steps := []struct {
		id    imagery.ProviderID
		pc    config.ProviderConfig
		build func(logger *slog.Logger) (backend.Adapter, error)
	}{
		{imagery.ProviderUP42, cfg.UP42.ProviderConfig, func(l *slog.Logger) (backend.Adapter, error) {
			cache, err := up42.NewTokenCache(cfg.UP42.TokenCacheSize)
			if err != nil {
				return nil, err
			}
			client := up42.NewClient(cfg.UP42.BaseURL, cfg.UP42.Timeout, cache).WithLogger(l)
			return up42.NewAdapter(client, cat, cfg.UP42.MaxPages, l), nil
		}},
		{imagery.ProviderEOS, cfg.EOS.ProviderConfig, func(l *slog.Logger) (backend.Adapter, error) {
			client := eos.NewClient(cfg.EOS.BaseURL, cfg.EOS.Timeout).WithLogger(l)
			return eos.NewAdapter(client, cat, l), nil
		}},
		{imagery.ProviderHEAD, cfg.HEAD.ProviderConfig, func(l *slog.Logger) (backend.Adapter, error) {
			client := head.NewClient(cfg.HEAD.BaseURL, cfg.HEAD.Timeout).WithLogger(l)
			return head.NewAdapter(client, cat, cfg.HEAD.Category, l), nil
		}},
		{imagery.ProviderMaxar, cfg.Maxar.ProviderConfig, func(l *slog.Logger) (backend.Adapter, error) {
			client := maxar.NewClient(cfg.Maxar.BaseURL, cfg.Maxar.Timeout).WithLogger(l)
			return maxar.NewAdapter(client, cat, cfg.Maxar.MaxPages, l), nil
		}},
		{imagery.ProviderOAM, cfg.OAM.ProviderConfig, func(l *slog.Logger) (backend.Adapter, error) {
			client := oam.NewClient(cfg.OAM.BaseURL, cfg.OAM.Timeout).WithLogger(l)
			return oam.NewAdapter(client, cat, cfg.OAM.Limit, l), nil
		}},
		{imagery.ProviderSkyFi, cfg.SkyFi.ProviderConfig, func(l *slog.Logger) (backend.Adapter, error) {
			client := skyfi.NewClient(cfg.SkyFi.BaseURL, cfg.SkyFi.Timeout).WithLogger(l)
			return skyfi.NewAdapter(client, cat, cfg.SkyFi.PageSize, cfg.SkyFi.MaxPages, l), nil
		}},
		{imagery.ProviderSkyWatch, cfg.SkyWatch.ProviderConfig, func(l *slog.Logger) (backend.Adapter, error) {
			client := skywatch.NewClient(cfg.SkyWatch.BaseURL, cfg.SkyWatch.Timeout).WithLogger(l)
			policy := poll.Policy{
				MaxAttempts: cfg.SkyWatch.PollAttempts,
				Initial:     cfg.SkyWatch.PollInitialDelay,
				Multiplier:  cfg.SkyWatch.PollMultiplier,
			}
			return skywatch.NewAdapter(client, cat, policy, l), nil
		}},
		{imagery.ProviderArlula, cfg.Arlula.ProviderConfig, func(l *slog.Logger) (backend.Adapter, error) {
			client := arlula.NewClient(cfg.Arlula.BaseURL, cfg.Arlula.Timeout).WithLogger(l)
			return arlula.NewAdapter(client, cat, cfg.Arlula.MaxPages, l), nil
		}},
		{imagery.ProviderSTAC, cfg.STAC.ProviderConfig, func(l *slog.Logger) (backend.Adapter, error) {
			sortby, err := stac.ParseSortby(cfg.STAC.SortBy)
			if err != nil {
				return nil, fmt.Errorf("invalid STAC sortby: %w", err)
			}
			client := stacsearch.NewClient(cfg.STAC.BaseURL, cfg.STAC.Timeout).WithLogger(l)
			opts := stacsearch.Options{Collections: cfg.STAC.Collections, Limit: cfg.STAC.Limit, Sortby: sortby}
			return stacsearch.NewAdapter(client, cat, opts, cfg.STAC.MaxPages, l), nil
		}},
	}

	for _, s := range steps {
		if err := add(s.id, s.pc, s.build); err != nil {
			return nil, err
		}
	}

	registry, err := backend.NewRegistry(adapters...)
	if err != nil {
		return nil, err
	}
	set.Registry = registry

	logger.Info("provider registry built", slog.Int("providers", registry.Len()))
	return set, nil
}
