package oam

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/logging"
)

var aoi = orb.Polygon{{{13.3, 52.4}, {13.5, 52.4}, {13.5, 52.55}, {13.3, 52.55}, {13.3, 52.4}}}

func testQuery() *backend.Query {
	return &backend.Query{
		Settings: imagery.SearchSettings{
			StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
			GSD:           imagery.Range{Min: 0, Max: 1},
			CloudCoverage: 20,
			Coordinates:   aoi,
		},
		Polygon: aoi,
	}
}

const metaBody = `{
	"meta": {"found": 2, "limit": 100, "page": 1},
	"results": [
		{
			"_id": "5f1",
			"title": "Berlin drone flight",
			"provider": "Berlin Mapping Club",
			"platform": "uav",
			"gsd": 0.05,
			"acquisition_start": "2024-03-02T09:00:00.000Z",
			"acquisition_end": "2024-03-02T10:00:00.000Z",
			"geojson": {"type": "Polygon", "coordinates": [[[13.35,52.45],[13.45,52.45],[13.45,52.5],[13.35,52.5],[13.35,52.45]]]},
			"properties": {"thumbnail": "https://tiles.openaerialmap.org/5f1/thumb.png"}
		},
		{
			"_id": "broken",
			"platform": "uav",
			"geojson": {"type": "Point", "coordinates": [13.4, 52.5]}
		}
	]
}`

func TestSearch(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/meta" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(metaBody))
	}))
	defer server.Close()

	a := NewAdapter(NewClient(server.URL, 5*time.Second).WithLogger(logging.Discard()), catalog.MustLoad(), 100, logging.Discard())
	result, err := a.Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	if gotQuery["bbox"] != "13.3,52.4,13.5,52.55" {
		t.Errorf("unexpected bbox %q", gotQuery["bbox"])
	}
	if gotQuery["gsd_to"] != "1" || gotQuery["acquisition_from"] != "2024-01-01T00:00:00.000Z" {
		t.Errorf("unexpected query %v", gotQuery)
	}

	if len(result.Features) != 1 {
		t.Fatalf("expected 1 feature (broken record skipped), got %d", len(result.Features))
	}
	p := result.Features[0].Properties
	if p.ID != "5f1" || p.Constellation != "OpenAerialMap" || p.ProviderName != "Berlin Mapping Club" {
		t.Errorf("unexpected properties %+v", p)
	}
	if p.Price == nil || *p.Price != 0 {
		t.Errorf("expected free price 0, got %v", p.Price)
	}
	if p.Resolution == nil || *p.Resolution != 0.05 {
		t.Errorf("expected resolution 0.05, got %v", p.Resolution)
	}
	if p.CloudCoverage != nil {
		t.Errorf("expected null cloud coverage, got %v", *p.CloudCoverage)
	}
	if p.ShapeIntersection == nil || *p.ShapeIntersection <= 0 || *p.ShapeIntersection >= 100 {
		t.Errorf("expected partial overlap, got %v", p.ShapeIntersection)
	}
	if result.ErrorOnFetch {
		t.Error("expected successful fetch")
	}
}

func TestSearch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	a := NewAdapter(NewClient(server.URL, 5*time.Second).WithLogger(logging.Discard()), catalog.MustLoad(), 100, logging.Discard())
	result, err := a.Search(context.Background(), testQuery())
	if !errors.Is(err, backend.ErrUpstreamStatus) {
		t.Errorf("expected ErrUpstreamStatus, got %v", err)
	}
	if result == nil || !result.ErrorOnFetch || len(result.Features) != 0 {
		t.Errorf("expected empty failed result, got %+v", result)
	}
}

func TestSearch_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	a := NewAdapter(NewClient(server.URL, 5*time.Second).WithLogger(logging.Discard()), catalog.MustLoad(), 100, logging.Discard())
	_, err := a.Search(context.Background(), testQuery())
	if !errors.Is(err, backend.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}
