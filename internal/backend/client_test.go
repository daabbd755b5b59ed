package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/robert-malhotra/eo-search/internal/imagery"
)

func TestBody(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"ok", http.StatusOK, nil},
		{"unauthorized", http.StatusUnauthorized, ErrAuth},
		{"forbidden", http.StatusForbidden, ErrAuth},
		{"server error", http.StatusInternalServerError, ErrUpstreamStatus},
		{"gateway timeout", http.StatusGatewayTimeout, ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("User-Agent") != DefaultUserAgent {
					t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"ok":true}`))
			}))
			defer server.Close()

			client := NewRESTClient(RESTOptions{Provider: imagery.ProviderMaxar, BaseURL: server.URL, Timeout: 5 * time.Second})
			body, err := Body(client.R().Get("/"))

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(body) != `{"ok":true}` {
					t.Errorf("unexpected body %s", body)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBody_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewRESTClient(RESTOptions{Provider: imagery.ProviderEOS, BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	_, err := Body(client.R().Get("/"))
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestTransportError(t *testing.T) {
	if TransportError(nil) != nil {
		t.Error("expected nil for nil error")
	}
	if err := TransportError(context.DeadlineExceeded); !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
	if err := TransportError(errors.New("connection refused")); !errors.Is(err, ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct{ A int }
	if err := DecodeJSON([]byte(`{"A":1}`), &v); err != nil || v.A != 1 {
		t.Errorf("DecodeJSON() = %v, A=%d", err, v.A)
	}
	if err := DecodeJSON([]byte(`<html>`), &v); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestReason(t *testing.T) {
	if got := Reason(StatusError(401, nil)); got != "authentication failed" {
		t.Errorf("unexpected reason %q", got)
	}
	if got := Reason(errors.New("boom")); got != "boom" {
		t.Errorf("unexpected reason %q", got)
	}
}

func TestStatusError_TruncatesAtRuneBoundary(t *testing.T) {
	// 255 ASCII bytes followed by a three-byte rune straddling the limit.
	body := []byte(strings.Repeat("a", 255) + "€" + strings.Repeat("b", 10))

	err := StatusError(http.StatusBadGateway, body)
	if !errors.Is(err, ErrUpstreamStatus) {
		t.Fatalf("expected ErrUpstreamStatus, got %v", err)
	}
	msg := err.Error()
	if !utf8.ValidString(msg) {
		t.Errorf("error message is not valid UTF-8: %q", msg)
	}
	if strings.Contains(msg, "€") || !strings.HasSuffix(msg, strings.Repeat("a", 255)) {
		t.Errorf("unexpected snippet in %q", msg)
	}

	short := StatusError(http.StatusUnauthorized, []byte("bad key ü"))
	if !strings.HasSuffix(short.Error(), "bad key ü") {
		t.Errorf("short body was altered: %q", short.Error())
	}
}

type stubAdapter struct{ id imagery.ProviderID }

func (s stubAdapter) ID() imagery.ProviderID { return s.id }
func (s stubAdapter) Search(context.Context, *Query) (*Result, error) {
	return Succeeded(nil), nil
}

func TestRegistry(t *testing.T) {
	r, err := NewRegistry(stubAdapter{imagery.ProviderOAM}, stubAdapter{imagery.ProviderEOS})
	if err != nil {
		t.Fatalf("NewRegistry() failed: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("expected 2 adapters, got %d", r.Len())
	}
	if ids := r.IDs(); ids[0] != imagery.ProviderOAM || ids[1] != imagery.ProviderEOS {
		t.Errorf("unexpected order %v", ids)
	}
	if _, ok := r.Get(imagery.ProviderMaxar); ok {
		t.Error("expected maxar to be missing")
	}

	if _, err := NewRegistry(stubAdapter{imagery.ProviderOAM}, stubAdapter{imagery.ProviderOAM}); err == nil {
		t.Error("expected error for duplicate adapter")
	}
}

func TestCredentialsMerge(t *testing.T) {
	c := Credentials{APIKey: "caller"}.Merge(Credentials{APIKey: "default", Secret: "s"})
	if c.APIKey != "caller" || c.Secret != "s" {
		t.Errorf("unexpected merge result %+v", c)
	}
	if !(Credentials{}).Empty() {
		t.Error("expected zero credentials to be empty")
	}
}
