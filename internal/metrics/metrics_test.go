package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsHandler_Smoke(t *testing.T) {
	ExposeBuildInfo("test")
	ObserveHTTP("POST", "/search", 200, 0.001)
	ObserveUpstream("maxar", 200, 0.2)
	ObserveUpstream("eos", 0, 20)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, name := range []string{"eo_search_build_info", "eo_search_http_requests_total", "eo_search_upstream_requests_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics payload missing %s", name)
		}
	}
}

func TestSearchStarted(t *testing.T) {
	before := testutil.ToFloat64(activeSearches)
	done := SearchStarted()
	if got := testutil.ToFloat64(activeSearches); got != before+1 {
		t.Errorf("active searches = %f, want %f", got, before+1)
	}

	completed := testutil.ToFloat64(searchesTotal.WithLabelValues("completed"))
	done("completed")
	if got := testutil.ToFloat64(activeSearches); got != before {
		t.Errorf("active searches = %f, want %f", got, before)
	}
	if got := testutil.ToFloat64(searchesTotal.WithLabelValues("completed")); got != completed+1 {
		t.Errorf("completed searches = %f, want %f", got, completed+1)
	}
}

func TestObserveProvider(t *testing.T) {
	before := testutil.ToFloat64(providerFeaturesTotal.WithLabelValues("skyfi"))
	ObserveProvider("skyfi", "succeeded", 1.5, 60)
	ObserveProvider("skyfi", "failed", 0.1, 0)
	if got := testutil.ToFloat64(providerFeaturesTotal.WithLabelValues("skyfi")); got != before+60 {
		t.Errorf("features = %f, want %f", got, before+60)
	}
}
