// Package backend defines the contract every imagery provider adapter
// implements, the shared error taxonomy, the HTTP client they are built on
// and the normalizer that derives canonical result properties.
package backend

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// Adapter searches one provider catalog.
// Provider-side failures never panic: Search returns a non-nil Result with
// ErrorOnFetch set together with an error wrapping one of the sentinels in
// errors.go. Zero features without an error is a successful search.
type Adapter interface {
	// ID returns the provider this adapter serves.
	ID() imagery.ProviderID

	// Search runs the provider query and returns normalized features.
	Search(ctx context.Context, q *Query) (*Result, error)
}

// PreviewEnricher is implemented by adapters whose preview images are
// resolved in a second, slower pass after the primary results are merged.
type PreviewEnricher interface {
	// EnrichPreviews resolves previews of features and reports each one
	// through resolved. It must not block the primary result.
	EnrichPreviews(ctx context.Context, q *Query, features []imagery.Feature, resolved func(id, preview, thumbnail string))
}

// Credentials are the provider secrets a caller supplies per search.
// Which fields are used depends on the provider.
type Credentials struct {
	APIKey     string `json:"apiKey,omitempty"`
	Secret     string `json:"secret,omitempty"`
	ProjectID  string `json:"projectId,omitempty"`
	ProjectKey string `json:"projectKey,omitempty"`
	Token      string `json:"token,omitempty"`
}

// Empty reports whether no credential field is set.
func (c Credentials) Empty() bool {
	return c == Credentials{}
}

// Merge returns c with empty fields filled from fallback.
func (c Credentials) Merge(fallback Credentials) Credentials {
	if c.APIKey == "" {
		c.APIKey = fallback.APIKey
	}
	if c.Secret == "" {
		c.Secret = fallback.Secret
	}
	if c.ProjectID == "" {
		c.ProjectID = fallback.ProjectID
	}
	if c.ProjectKey == "" {
		c.ProjectKey = fallback.ProjectKey
	}
	if c.Token == "" {
		c.Token = fallback.Token
	}
	return c
}

// Query is the input of one adapter search. Settings are shared read-only
// between all adapters of a search.
type Query struct {
	Settings    imagery.SearchSettings
	Polygon     orb.Polygon
	Credentials Credentials
}

// Result is the outcome of one adapter search.
type Result struct {
	Features     []imagery.Feature
	ErrorOnFetch bool
	Notices      []imagery.Notice
}

// Succeeded wraps normalized features into a successful result.
func Succeeded(features []imagery.Feature, notices ...imagery.Notice) *Result {
	if features == nil {
		features = []imagery.Feature{}
	}
	return &Result{Features: features, Notices: notices}
}

// Failed returns the empty result an adapter reports alongside its error.
func Failed(notices ...imagery.Notice) *Result {
	return &Result{Features: []imagery.Feature{}, ErrorOnFetch: true, Notices: notices}
}
