package up42

import (
	"testing"
	"time"
)

func TestTokenCache_Expiry(t *testing.T) {
	cache, err := NewTokenCache(2)
	if err != nil {
		t.Fatalf("NewTokenCache() error: %v", err)
	}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Put("project-a", "tok-a", 5*time.Minute)
	if tok, ok := cache.Get("project-a"); !ok || tok != "tok-a" {
		t.Fatalf("expected cached token, got %q %v", tok, ok)
	}

	// renewed one margin before the server side expiry
	now = now.Add(5*time.Minute - expiryMargin)
	if _, ok := cache.Get("project-a"); ok {
		t.Error("expected token to be expired")
	}
	if cache.Len() != 0 {
		t.Errorf("expected expired token to be evicted, len=%d", cache.Len())
	}
}

func TestTokenCache_Eviction(t *testing.T) {
	cache, _ := NewTokenCache(2)
	cache.Put("a", "1", time.Hour)
	cache.Put("b", "2", time.Hour)
	cache.Put("c", "3", time.Hour)

	if _, ok := cache.Get("a"); ok {
		t.Error("expected least recently used project to be evicted")
	}
	if tok, ok := cache.Get("c"); !ok || tok != "3" {
		t.Errorf("expected newest token, got %q %v", tok, ok)
	}
}
