package maxar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
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
			EndDate:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			GSD:           imagery.Range{Min: 0.3, Max: 0.45},
			CloudCoverage: 20,
			SunElevation:  imagery.Range{Min: 0, Max: 90},
			OffNadirAngle: imagery.Range{Min: 0, Max: 30},
			Coordinates:   aoi,
		},
		Polygon:     aoi,
		Credentials: backend.Credentials{APIKey: "maxar-key"},
	}
}

func newAdapter(url string, maxPages int) *Adapter {
	client := NewClient(url, 5*time.Second).WithLogger(logging.Discard())
	return NewAdapter(client, catalog.MustLoad(), maxPages, logging.Discard())
}

const pageOne = `{
	"exceededTransferLimit": true,
	"features": [{
		"attributes": {
			"catalog_id": "10300100A1B2C300",
			"vehicle_name": "WV03",
			"acquisition_date": 1704888000000,
			"cloud_cover": 0.05,
			"off_nadir_avg": 14.2,
			"sun_elevation_avg": 18.5,
			"browse_url": "https://maxar.example/browse.png"
		},
		"geometry": {"rings": [[[13.2,52.3],[13.6,52.3],[13.6,52.6],[13.2,52.6],[13.2,52.3]]]}
	}]
}`

const pageTwo = `{
	"exceededTransferLimit": false,
	"features": [{
		"attributes": {"catalog_id": "1050010012345600", "vehicle_name": "GE01", "acquisition_date": 1705000000000, "gsd_avg": 0.44},
		"geometry": {"rings": [[[13.3,52.4],[13.4,52.4],[13.4,52.55],[13.3,52.55],[13.3,52.4]]]}
	}]
}`

func TestWhere(t *testing.T) {
	got := Where(testQuery().Settings, []string{"WV03", "GE01"})
	for _, want := range []string{
		"acquisition_date >= timestamp '2024-01-01 00:00:00'",
		"acquisition_date <= timestamp '2024-02-01 00:00:00'",
		"cloud_cover <= 0.2",
		"off_nadir_avg <= 30",
		"vehicle_name IN ('WV03','GE01')",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("where clause %q missing %q", got, want)
		}
	}
}

func TestSearch_Paginates(t *testing.T) {
	var offsets []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "maxar-key" {
			t.Errorf("missing api key header")
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
			return
		}
		if r.PostForm.Get("geometryType") != "esriGeometryPolygon" || r.PostForm.Get("f") != "json" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		if !strings.Contains(r.PostForm.Get("geometry"), `"wkid":4326`) {
			t.Errorf("geometry is not esri json: %s", r.PostForm.Get("geometry"))
		}
		offset := r.PostForm.Get("resultOffset")
		offsets = append(offsets, offset)
		if offset == "" {
			w.Write([]byte(pageOne))
			return
		}
		w.Write([]byte(pageTwo))
	}))
	defer server.Close()

	result, err := newAdapter(server.URL, 5).Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	if len(offsets) != 2 || offsets[1] != "1" {
		t.Errorf("expected two pages with offset 1, got %v", offsets)
	}
	if len(result.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(result.Features))
	}

	first := result.Features[0].Properties
	if first.Constellation != "WorldView-3" {
		t.Errorf("expected WorldView-3, got %s", first.Constellation)
	}
	if first.CloudCoverage == nil || *first.CloudCoverage != 5 {
		t.Errorf("expected cloud cover 5%%, got %v", first.CloudCoverage)
	}
	if first.AcquisitionDate != "2024-01-10T12:00:00.000Z" {
		t.Errorf("unexpected acquisition date %s", first.AcquisitionDate)
	}
	if first.Resolution == nil || *first.Resolution != 0.31 {
		t.Errorf("expected catalog resolution 0.31, got %v", first.Resolution)
	}
	if first.ShapeIntersection == nil || *first.ShapeIntersection != 100 {
		t.Errorf("expected overlap 100, got %v", first.ShapeIntersection)
	}

	second := result.Features[1].Properties
	if second.Constellation != "GeoEye-1" || second.Resolution == nil || *second.Resolution != 0.44 {
		t.Errorf("unexpected second feature %+v", second)
	}
	if second.CloudCoverage != nil {
		t.Errorf("expected nil cloud cover, got %v", *second.CloudCoverage)
	}
}

func TestSearch_PageLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(pageOne))
	}))
	defer server.Close()

	result, err := newAdapter(server.URL, 3).Search(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if calls != 3 || len(result.Features) != 3 {
		t.Errorf("expected 3 pages and 3 features, got %d calls and %d features", calls, len(result.Features))
	}
}

func TestSearch_ErrorInBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"code": 400, "message": "Invalid where clause"}}`))
	}))
	defer server.Close()

	result, err := newAdapter(server.URL, 1).Search(context.Background(), testQuery())
	if !errors.Is(err, backend.ErrUpstreamStatus) {
		t.Fatalf("expected upstream status error, got %v", err)
	}
	if !result.ErrorOnFetch {
		t.Error("expected ErrorOnFetch")
	}
}

func TestSearch_MissingKey(t *testing.T) {
	q := testQuery()
	q.Credentials = backend.Credentials{}

	_, err := newAdapter("http://127.0.0.1:1", 1).Search(context.Background(), q)
	if !errors.Is(err, backend.ErrAuth) {
		t.Errorf("expected auth error, got %v", err)
	}
}
