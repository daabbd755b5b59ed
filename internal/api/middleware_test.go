package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robert-malhotra/eo-search/internal/logging"
)

func TestRecovery(t *testing.T) {
	tests := []struct {
		name    string
		panicV  any
		wantLog string
	}{
		{"error value", errors.New("adapter exploded"), "adapter exploded"},
		{"string value", "index out of range", "index out of range"},
		{"other value", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logBuf, nil))

			handler := middleware.RequestID(Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tt.panicV)
			})))

			req := httptest.NewRequest(http.MethodPost, "/searches", nil)
			req.Header.Set("X-Request-Id", "req-7")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", w.Code)
			}

			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Code != ErrCodeServerError {
				t.Errorf("expected code %s, got %s", ErrCodeServerError, resp.Code)
			}
			if resp.RequestID != "req-7" {
				t.Errorf("expected request id req-7, got %q", resp.RequestID)
			}

			out := logBuf.String()
			for _, want := range []string{"panic recovered", tt.wantLog, "/searches"} {
				if !strings.Contains(out, want) {
					t.Errorf("log missing %q: %s", want, out)
				}
			}
		})
	}
}

func TestRecovery_PassesThrough(t *testing.T) {
	handler := Recovery(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("unexpected response %d %q", w.Code, w.Body.String())
	}
}

func TestContentTypeJSON(t *testing.T) {
	tests := []struct {
		name     string
		override string
		want     string
	}{
		{"default", "", "application/json"},
		{"geojson export", "application/geo+json", "application/geo+json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.override != "" {
					w.Header().Set("Content-Type", tt.override)
				}
				w.WriteHeader(http.StatusOK)
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/providers", nil))

			if got := w.Header().Get("Content-Type"); got != tt.want {
				t.Errorf("expected Content-Type %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	handler := middleware.RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})))

	req := httptest.NewRequest(http.MethodPost, "/searches?wait=false", nil)
	req.Header.Set("User-Agent", "eo-client")
	req.Header.Set("X-Request-Id", "req-42")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	out := logBuf.String()
	for _, field := range []string{
		"http request",
		"request_id=req-42",
		"method=POST",
		"path=/searches",
		"query=wait=false",
		"status=202",
		"duration=",
		"user_agent=eo-client",
	} {
		if !strings.Contains(out, field) {
			t.Errorf("log missing %q: %s", field, out)
		}
	}
}

func TestRequestLogger_RequestIDReachesHandlerLogs(t *testing.T) {
	var logBuf bytes.Buffer
	logger := logging.New(logging.Config{Level: "info", Format: "json"}, &logBuf)

	handler := middleware.RequestID(RequestLogger(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.InfoContext(r.Context(), "search accepted")
		w.WriteHeader(http.StatusAccepted)
	})))

	req := httptest.NewRequest(http.MethodPost, "/searches", nil)
	req.Header.Set("X-Request-Id", "req-99")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(logBuf.Bytes()), &line); err != nil {
		t.Fatalf("failed to decode log line %q: %v", logBuf.String(), err)
	}
	if line["msg"] != "search accepted" {
		t.Errorf("unexpected message %v", line["msg"])
	}
	if line["request_id"] != "req-99" {
		t.Errorf("expected request_id req-99 in zerolog output, got %v", line["request_id"])
	}
}

func TestRoutePattern(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Get("/searches/{searchId}", func(w http.ResponseWriter, r *http.Request) {
		got = routePattern(r)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/searches/0b6e", nil))
	if got != "/searches/{searchId}" {
		t.Errorf("expected route /searches/{searchId}, got %q", got)
	}

	if p := routePattern(httptest.NewRequest(http.MethodGet, "/anything", nil)); p != "unmatched" {
		t.Errorf("expected unmatched without a chi route, got %q", p)
	}
}

func TestRequestLogger_RecordsRouteMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(RequestLogger(logging.Discard()))
	r.Delete("/searches/{searchId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/searches/0b6e", nil))

	plain := RequestLogger(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	plain.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPatch, "/nowhere", nil))

	w := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	for _, want := range []string{
		`eo_search_http_requests_total{method="DELETE",route="/searches/{searchId}",status="204"}`,
		`eo_search_http_requests_total{method="PATCH",route="unmatched",status="418"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestRequestIDResponse(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{"generated", ""},
		{"propagated", "client-id-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := middleware.RequestID(RequestIDResponse(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			})))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.incoming != "" {
				req.Header.Set("X-Request-Id", tt.incoming)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			header := w.Header().Get(RequestIDHeader)
			if header == "" || header != seen {
				t.Errorf("header %q does not match context id %q", header, seen)
			}
			if tt.incoming != "" && header != tt.incoming {
				t.Errorf("expected %s, got %s", tt.incoming, header)
			}
		})
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	if id := GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()); id != "" {
		t.Errorf("expected empty request id, got %q", id)
	}
}
