package api

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/search"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

// maxBodyBytes bounds request bodies; exports carry whole result sets.
const maxBodyBytes = 32 << 20

// SearchRequestBody is the JSON form of a search request.
type SearchRequestBody struct {
	Polygons    []*geojson.Geometry            `json:"polygons"`
	Filters     *search.Filters                `json:"filters"`
	Credentials map[string]backend.Credentials `json:"credentials,omitempty"`

	// Providers limits the search. Omitted or null selects every provider
	// with credentials, an empty list selects none.
	Providers []string `json:"providers"`
}

// decodeSearchRequest reads a search request. Filters missing from the body
// keep their defaults.
func decodeSearchRequest(r io.Reader, now time.Time, lookback time.Duration) (search.Request, error) {
	filters := search.DefaultFilters(now, lookback)
	body := SearchRequestBody{Filters: &filters}

	dec := json.NewDecoder(io.LimitReader(r, maxBodyBytes))
	if err := dec.Decode(&body); err != nil && err != io.EOF {
		return search.Request{}, fmt.Errorf("invalid request body: %w", err)
	}
	return body.toRequest(filters)
}

func (b SearchRequestBody) toRequest(filters search.Filters) (search.Request, error) {
	if b.Filters != nil {
		filters = *b.Filters
	}
	req := search.Request{Filters: filters}

	for i, g := range b.Polygons {
		p, err := g.Polygon()
		if err != nil {
			return search.Request{}, fmt.Errorf("polygon %d: %w", i, err)
		}
		req.Polygons = append(req.Polygons, p)
	}

	if len(b.Credentials) > 0 {
		req.Credentials = make(map[imagery.ProviderID]backend.Credentials, len(b.Credentials))
		for k, c := range b.Credentials {
			id, err := imagery.ParseProviderID(k)
			if err != nil {
				return search.Request{}, fmt.Errorf("credentials: %w", err)
			}
			req.Credentials[id] = c
		}
	}

	if b.Providers != nil {
		req.Providers = make([]imagery.ProviderID, 0, len(b.Providers))
		for _, s := range b.Providers {
			id, err := imagery.ParseProviderID(s)
			if err != nil {
				return search.Request{}, fmt.Errorf("providers: %w", err)
			}
			req.Providers = append(req.Providers, id)
		}
	}
	return req, nil
}

// ExportRequestBody is the input of POST /export.
type ExportRequestBody struct {
	Polygon  *geojson.Geometry `json:"searchPolygon"`
	Filters  *search.Filters   `json:"filters"`
	Features []imagery.Feature `json:"features"`
}

func decodeExportRequest(r io.Reader, now time.Time, lookback time.Duration) (imagery.SearchPolygon, []imagery.Feature, error) {
	filters := search.DefaultFilters(now, lookback)
	body := ExportRequestBody{Filters: &filters}

	if err := json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(&body); err != nil {
		return imagery.SearchPolygon{}, nil, fmt.Errorf("invalid request body: %w", err)
	}
	if body.Polygon == nil {
		return imagery.SearchPolygon{}, nil, fmt.Errorf("searchPolygon is required")
	}
	p, err := body.Polygon.Polygon()
	if err != nil {
		return imagery.SearchPolygon{}, nil, fmt.Errorf("searchPolygon: %w", err)
	}
	if body.Filters != nil {
		filters = *body.Filters
	}
	settings, err := filters.Settings(orb.Polygon{p[0]})
	if err != nil {
		return imagery.SearchPolygon{}, nil, err
	}
	return imagery.NewSearchPolygon(settings), body.Features, nil
}
