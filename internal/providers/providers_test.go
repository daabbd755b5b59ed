package providers

import (
	"testing"

	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/config"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/logging"
)

func TestBuild_AllProviders(t *testing.T) {
	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("config.Parse() error: %v", err)
	}

	set, err := Build(cfg, catalog.MustLoad(), logging.Discard())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if set.Registry.Len() != len(imagery.AllProviders) {
		t.Errorf("expected %d adapters, got %d", len(imagery.AllProviders), set.Registry.Len())
	}
	for _, id := range imagery.AllProviders {
		a, ok := set.Registry.Get(id)
		if !ok {
			t.Errorf("provider %s not registered", id)
			continue
		}
		if a.ID() != id {
			t.Errorf("adapter registered as %s reports %s", id, a.ID())
		}
	}
}

func TestBuild_DisabledAndDefaults(t *testing.T) {
	t.Setenv("HEAD_ENABLED", "false")
	t.Setenv("MAXAR_API_KEY", "default-maxar-key")

	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("config.Parse() error: %v", err)
	}

	set, err := Build(cfg, catalog.MustLoad(), logging.Discard())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if _, ok := set.Registry.Get(imagery.ProviderHEAD); ok {
		t.Error("expected HEAD to be disabled")
	}
	if set.Defaults[imagery.ProviderMaxar].APIKey != "default-maxar-key" {
		t.Errorf("expected default Maxar key, got %+v", set.Defaults[imagery.ProviderMaxar])
	}
}

func TestBuild_InvalidSortby(t *testing.T) {
	t.Setenv("STAC_SORTBY", "-")

	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("config.Parse() error: %v", err)
	}
	if _, err := Build(cfg, catalog.MustLoad(), logging.Discard()); err == nil {
		t.Error("expected error for invalid sortby")
	}
}
