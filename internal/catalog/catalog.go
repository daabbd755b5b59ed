// Package catalog is the static registry of providers, the constellations
// each provider distributes, their satellites, ground sample distance and
// archive price, and the per-provider constellation name translations.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/pricing"
)

//go:embed data/*.json
var dataFS embed.FS

// Constellation is a group of satellites sharing a resolution.
type Constellation struct {
	Name       string             `json:"name"`
	Satellites []string           `json:"satellites,omitempty"`
	GSD        float64            `json:"gsd"`
	Producer   string             `json:"producer,omitempty"`
	Price      *pricing.PriceInfo `json:"price,omitempty"`
}

// Capabilities describe which derived fields a provider reports itself.
type Capabilities struct {
	// SuppliesOverlap means the provider returns the AOI overlap percentage.
	SuppliesOverlap bool `json:"supplies_overlap"`
	// SuppliesPrice means the provider returns an authoritative price.
	SuppliesPrice bool `json:"supplies_price"`
	// Free means every result costs nothing.
	Free bool `json:"free"`
}

// Provider is the catalog entry of one imagery provider.
type Provider struct {
	ID             imagery.ProviderID `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description,omitempty"`
	URL            string             `json:"url,omitempty"`
	Credentials    string             `json:"credentials"`
	Capabilities   Capabilities       `json:"capabilities"`
	Constellations []Constellation    `json:"constellations"`

	// Translations maps provider specific names (lower-cased) to canonical
	// constellation names.
	Translations map[string]string `json:"translations,omitempty"`

	byName map[string]*Constellation
}

// Credential kinds a provider can require.
const (
	CredentialsNone       = "none"
	CredentialsAPIKey     = "api_key"
	CredentialsKeySecret  = "key_secret"
	CredentialsProjectKey = "project_key"
)

// Catalog holds all provider entries indexed by id.
type Catalog struct {
	providers map[imagery.ProviderID]*Provider
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{providers: make(map[imagery.ProviderID]*Provider)}
}

// Load reads the built-in provider definitions.
func Load() (*Catalog, error) {
	return LoadFS(dataFS, "data")
}

// MustLoad is Load for package initialisation; the built-in data is validated by tests.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFS loads every .json provider definition in dir of fsys.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory %q: %w", dir, err)
	}

	c := New()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}

		filePath := path.Join(dir, entry.Name())
		p, err := loadProviderFile(fsys, filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load provider from %q: %w", filePath, err)
		}
		if err := c.Add(p); err != nil {
			return nil, fmt.Errorf("failed to add provider from %q: %w", filePath, err)
		}
	}

	if c.Count() == 0 {
		return nil, fmt.Errorf("no provider files found in %q", dir)
	}
	return c, nil
}

func loadProviderFile(fsys fs.FS, filePath string) (*Provider, error) {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var p Provider
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := validateProvider(&p); err != nil {
		return nil, fmt.Errorf("invalid provider configuration: %w", err)
	}
	return &p, nil
}

func validateProvider(p *Provider) error {
	if !p.ID.Valid() {
		return fmt.Errorf("unknown provider id %q", p.ID)
	}
	if p.Title == "" {
		return fmt.Errorf("provider title is required")
	}
	switch p.Credentials {
	case CredentialsNone, CredentialsAPIKey, CredentialsKeySecret, CredentialsProjectKey:
	default:
		return fmt.Errorf("unknown credentials kind %q", p.Credentials)
	}

	seen := make(map[string]bool)
	for i, c := range p.Constellations {
		if c.Name == "" {
			return fmt.Errorf("constellation[%d] has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate constellation %q", c.Name)
		}
		seen[c.Name] = true
		if c.GSD < 0 {
			return fmt.Errorf("constellation %q has negative gsd", c.Name)
		}
		if c.Price != nil && (c.Price.PricePerSqKm < 0 || c.Price.MinAreaSqKm < 0) {
			return fmt.Errorf("constellation %q has a negative price entry", c.Name)
		}
	}

	for alias, target := range p.Translations {
		if !seen[target] {
			return fmt.Errorf("translation %q points to unknown constellation %q", alias, target)
		}
	}
	return nil
}

// Add registers a provider entry.
func (c *Catalog) Add(p *Provider) error {
	if p == nil {
		return fmt.Errorf("cannot add nil provider")
	}
	if _, exists := c.providers[p.ID]; exists {
		return fmt.Errorf("provider %q already exists", p.ID)
	}

	p.byName = make(map[string]*Constellation, len(p.Constellations))
	for i := range p.Constellations {
		p.byName[strings.ToLower(p.Constellations[i].Name)] = &p.Constellations[i]
	}
	lowered := make(map[string]string, len(p.Translations))
	for alias, target := range p.Translations {
		lowered[strings.ToLower(alias)] = target
	}
	p.Translations = lowered

	c.providers[p.ID] = p
	return nil
}

// Provider returns the entry for id, or nil.
func (c *Catalog) Provider(id imagery.ProviderID) *Provider {
	return c.providers[id]
}

// Has reports whether the provider is registered.
func (c *Catalog) Has(id imagery.ProviderID) bool {
	_, ok := c.providers[id]
	return ok
}

// All returns every provider sorted by id.
func (c *Catalog) All() []*Provider {
	out := make([]*Provider, 0, len(c.providers))
	for _, p := range c.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of providers.
func (c *Catalog) Count() int {
	return len(c.providers)
}

// Translate maps a provider specific satellite, sensor or constellation code
// to the canonical constellation name. Unknown names are returned unchanged.
func (c *Catalog) Translate(id imagery.ProviderID, name string) string {
	p := c.Provider(id)
	if p == nil || name == "" {
		return name
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if target, ok := p.Translations[key]; ok {
		return target
	}
	if cons, ok := p.byName[key]; ok {
		return cons.Name
	}
	return name
}

// Constellation resolves a provider name to its constellation entry, or nil.
func (c *Catalog) Constellation(id imagery.ProviderID, name string) *Constellation {
	p := c.Provider(id)
	if p == nil {
		return nil
	}
	return p.byName[strings.ToLower(c.Translate(id, name))]
}

// GSD returns the catalog resolution of a constellation, or nil when unknown.
func (c *Catalog) GSD(id imagery.ProviderID, name string) *float64 {
	cons := c.Constellation(id, name)
	if cons == nil {
		return nil
	}
	return imagery.PositiveFloat(cons.GSD)
}

// Price returns the price table entry of a constellation, or nil.
func (c *Catalog) Price(id imagery.ProviderID, name string) *pricing.PriceInfo {
	cons := c.Constellation(id, name)
	if cons == nil || cons.Price == nil {
		return nil
	}
	info := *cons.Price
	return &info
}

// Within returns the constellations of a provider whose GSD lies in gsd.
func (c *Catalog) Within(id imagery.ProviderID, gsd imagery.Range) []Constellation {
	p := c.Provider(id)
	if p == nil {
		return nil
	}
	var out []Constellation
	for _, cons := range p.Constellations {
		if gsd.Contains(cons.GSD) {
			out = append(out, cons)
		}
	}
	return out
}

// SatellitesWithin returns the satellite codes of every constellation in range.
func (c *Catalog) SatellitesWithin(id imagery.ProviderID, gsd imagery.Range) []string {
	var out []string
	for _, cons := range c.Within(id, gsd) {
		out = append(out, cons.Satellites...)
	}
	return out
}

// ProducersWithin returns the distinct producers of constellations in range.
func (c *Catalog) ProducersWithin(id imagery.ProviderID, gsd imagery.Range) []string {
	seen := make(map[string]bool)
	var out []string
	for _, cons := range c.Within(id, gsd) {
		if cons.Producer == "" || seen[cons.Producer] {
			continue
		}
		seen[cons.Producer] = true
		out = append(out, cons.Producer)
	}
	return out
}
