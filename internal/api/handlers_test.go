package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/logging"
	"github.com/robert-malhotra/eo-search/internal/search"
)

var aoi = orb.Polygon{{{13.3, 52.4}, {13.5, 52.4}, {13.5, 52.55}, {13.3, 52.55}, {13.3, 52.4}}}

// mockAdapter returns a fixed number of features or an error.
type mockAdapter struct {
	id    imagery.ProviderID
	count int
	err   error
	block chan struct{}
}

func (m *mockAdapter) ID() imagery.ProviderID { return m.id }

func (m *mockAdapter) Search(ctx context.Context, q *backend.Query) (*backend.Result, error) {
	if m.block != nil {
		<-m.block
	}
	if m.err != nil {
		return backend.Failed(), m.err
	}
	features := make([]imagery.Feature, m.count)
	for i := range features {
		features[i] = imagery.Feature{
			Geometry: q.Polygon,
			Properties: imagery.Properties{
				ID:               fmt.Sprintf("%s-%d", m.id, i),
				Provider:         string(m.id),
				ProviderPlatform: string(m.id),
				AcquisitionDate:  "2024-02-01T10:00:00.000Z",
			},
		}
	}
	return backend.Succeeded(features), nil
}

// outcomeBody mirrors search.Outcome without the search polygon feature.
type outcomeBody struct {
	ID       string                  `json:"id"`
	Done     bool                    `json:"done"`
	Settings *imagery.SearchSettings `json:"settings"`
	States   []search.ProviderStatus `json:"states"`
	Notices  []imagery.Notice        `json:"notices"`
	Features []imagery.Feature       `json:"features"`
}

type streamEvent struct {
	Type    search.EventType `json:"type"`
	Outcome *outcomeBody     `json:"outcome"`
}

func newTestServer(t *testing.T, adapters ...backend.Adapter) *httptest.Server {
	t.Helper()
	reg, err := backend.NewRegistry(adapters...)
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}
	cat := catalog.MustLoad()
	logger := logging.Discard()
	now := func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	orch := search.New(reg, cat, nil, search.Options{StatusExpiry: 5 * time.Second, Now: now}, logger)
	h := NewHandlers(orch, cat, reg, Options{DefaultLookback: 30 * 24 * time.Hour, Now: now}, logger)
	srv := httptest.NewServer(NewRouter(h, logger))
	t.Cleanup(func() {
		srv.Close()
		orch.Close()
	})
	return srv
}

func searchBody(t *testing.T, polygons int, providers ...string) []byte {
	t.Helper()
	ring := [][]float64{}
	for _, pt := range aoi[0] {
		ring = append(ring, []float64{pt[0], pt[1]})
	}
	geom := map[string]any{"type": "Polygon", "coordinates": [][][]float64{ring}}
	polys := make([]any, polygons)
	for i := range polys {
		polys[i] = geom
	}
	body := map[string]any{"polygons": polys, "providers": providers}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	return data
}

func post(t *testing.T, url string, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func TestHandlers_Search(t *testing.T) {
	srv := newTestServer(t,
		&mockAdapter{id: imagery.ProviderMaxar, count: 2},
		&mockAdapter{id: imagery.ProviderEOS, err: fmt.Errorf("%w: status 503", backend.ErrUpstreamStatus)},
	)

	resp := post(t, srv.URL+"/search", searchBody(t, 1, "maxar", "eos"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var out outcomeBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode outcome: %v", err)
	}
	if !out.Done {
		t.Error("expected finished outcome")
	}
	if len(out.Features) != 2 {
		t.Errorf("expected 2 features, got %d", len(out.Features))
	}
	if len(out.States) != 2 {
		t.Fatalf("expected 2 states, got %d", len(out.States))
	}
	for _, st := range out.States {
		if st.Provider == imagery.ProviderEOS && st.State != search.StateFailed {
			t.Errorf("expected eos failed, got %+v", st)
		}
	}
	if out.Settings == nil || out.Settings.CloudCoverage != 100 {
		t.Errorf("expected default filters in settings, got %+v", out.Settings)
	}
}

func TestHandlers_Search_TooManyPolygons(t *testing.T) {
	srv := newTestServer(t, &mockAdapter{id: imagery.ProviderMaxar, count: 1})

	resp := post(t, srv.URL+"/search", searchBody(t, 2, "maxar"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if errResp.Code != ErrCodeInvalidSearch {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidSearch, errResp.Code)
	}
	if len(errResp.Notices) != 1 || errResp.Notices[0].Message != "more than one polygon drawn" {
		t.Errorf("unexpected notices %+v", errResp.Notices)
	}
}

func TestHandlers_Search_UnknownProvider(t *testing.T) {
	srv := newTestServer(t, &mockAdapter{id: imagery.ProviderMaxar})

	resp := post(t, srv.URL+"/search", searchBody(t, 1, "planet"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestHandlers_Search_InvalidBody(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/search", []byte(`{"polygons": [`))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestHandlers_AsyncSearch(t *testing.T) {
	block := make(chan struct{})
	srv := newTestServer(t, &mockAdapter{id: imagery.ProviderOAM, count: 3, block: block})

	resp := post(t, srv.URL+"/searches", searchBody(t, 1, "oam"))
	var accepted SearchAccepted
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", resp.StatusCode)
	}
	if accepted.ID == "" || resp.Header.Get("Location") != accepted.Href {
		t.Fatalf("unexpected accepted response %+v", accepted)
	}

	out := getOutcome(t, srv.URL+accepted.Href)
	if out.Done || out.States[0].State != search.StatePending {
		t.Errorf("expected pending search, got %+v", out.States)
	}

	close(block)
	deadline := time.Now().Add(5 * time.Second)
	for !out.Done && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
		out = getOutcome(t, srv.URL+accepted.Href)
	}
	if !out.Done || len(out.Features) != 3 {
		t.Fatalf("expected finished search with 3 features, got done=%v features=%d", out.Done, len(out.Features))
	}

	resp, err := http.Get(srv.URL + accepted.Href + "/export")
	if err != nil {
		t.Fatalf("GET export failed: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("expected geo+json content type, got %s", ct)
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), accepted.ID) {
		t.Errorf("expected attachment named after the search, got %q", resp.Header.Get("Content-Disposition"))
	}
	var fc struct {
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		t.Fatalf("failed to decode export: %v", err)
	}
	if len(fc.Features) != 4 || fc.Features[0].Properties["type"] != "searchPolygon" {
		t.Errorf("expected search polygon followed by 3 features, got %d features", len(fc.Features))
	}
}

func getOutcome(t *testing.T, url string) outcomeBody {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: expected status 200, got %d", url, resp.StatusCode)
	}
	var out outcomeBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode outcome: %v", err)
	}
	return out
}

func TestHandlers_GetSearch_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/searches/does-not-exist")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp.StatusCode)
	}
}

func TestHandlers_Export(t *testing.T) {
	srv := newTestServer(t)

	body := `{
		"searchPolygon": {"type": "Polygon", "coordinates": [[[13.3,52.4],[13.5,52.4],[13.5,52.55],[13.3,52.55],[13.3,52.4]]]},
		"features": [{
			"type": "Feature",
			"geometry": {"type": "Polygon", "coordinates": [[[13.3,52.4],[13.4,52.4],[13.4,52.5],[13.3,52.4]]]},
			"properties": {"id": "scene-1", "provider": "oam", "providerPlatform": "oam", "price": null}
		}]
	}`
	resp := post(t, srv.URL+"/export", []byte(body))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	var fc struct {
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		t.Fatalf("failed to decode export: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}
	if fc.Features[1].Properties["id"] != "scene-1" {
		t.Errorf("expected scene-1 second, got %v", fc.Features[1].Properties["id"])
	}
}

func TestHandlers_Export_MissingPolygon(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/export", []byte(`{"features": []}`))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestHandlers_Providers(t *testing.T) {
	srv := newTestServer(t, &mockAdapter{id: imagery.ProviderMaxar})

	resp, err := http.Get(srv.URL + "/providers")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Providers []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Enabled bool   `json:"enabled"`
		} `json:"providers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode providers: %v", err)
	}
	if len(body.Providers) != len(imagery.AllProviders) {
		t.Fatalf("expected %d providers, got %d", len(imagery.AllProviders), len(body.Providers))
	}
	for _, p := range body.Providers {
		if want := p.ID == "maxar"; p.Enabled != want {
			t.Errorf("provider %s: enabled=%v, want %v", p.ID, p.Enabled, want)
		}
	}
}

func TestHandlers_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: expected status 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestHandlers_Stream(t *testing.T) {
	srv := newTestServer(t,
		&mockAdapter{id: imagery.ProviderMaxar, count: 2},
		&mockAdapter{id: imagery.ProviderOAM, count: 1},
	)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/search/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, searchBody(t, 1, "maxar", "oam")); err != nil {
		t.Fatalf("failed to send request: %v", err)
	}

	counts := map[search.EventType]int{}
	var final *outcomeBody
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for final == nil {
		var e streamEvent
		if err := conn.ReadJSON(&e); err != nil {
			t.Fatalf("stream ended before finished event: %v", err)
		}
		counts[e.Type]++
		if e.Type == search.EventFinished {
			final = e.Outcome
		}
	}

	// Two pending plus two terminal transitions.
	if counts[search.EventState] != 4 {
		t.Errorf("expected 4 state events, got %d", counts[search.EventState])
	}
	if counts[search.EventFeatures] != 2 {
		t.Errorf("expected 2 features events, got %d", counts[search.EventFeatures])
	}
	if final == nil || !final.Done || len(final.Features) != 3 {
		t.Errorf("unexpected final outcome %+v", final)
	}

	// The server closes the stream after the finished event.
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("expected normal closure, got %v", err)
	}
}

func TestCheckOrigin(t *testing.T) {
	h := &Handlers{opts: Options{AllowedOrigins: []string{"https://app.example.com"}}}

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"https://app.example.com", true},
		{"https://evil.example.com", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/search/stream", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := h.checkOrigin(req); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}
