package imagery

import (
	"sync"

	"github.com/paulmach/orb/geojson"
)

// Collection is the running, append-only result set of one search.
// Features keep arrival order across providers. It is safe for concurrent use.
type Collection struct {
	mu       sync.RWMutex
	features []Feature
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{features: make([]Feature, 0)}
}

// Append merges features at the end of the collection and returns the new length.
func (c *Collection) Append(features ...Feature) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.features = append(c.features, features...)
	return len(c.features)
}

// Len returns the number of merged features.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.features)
}

// Snapshot returns a copy of the merged features.
func (c *Collection) Snapshot() []Feature {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Feature, len(c.features))
	copy(out, c.features)
	return out
}

// UpdatePreview rewrites the preview and thumbnail of the feature with the
// given platform and id. Empty values leave the current field unchanged.
func (c *Collection) UpdatePreview(platform ProviderID, id, preview, thumbnail string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.features {
		p := &c.features[i].Properties
		if p.ProviderPlatform != string(platform) || p.ID != id {
			continue
		}
		if preview != "" {
			p.PreviewURI = preview
		}
		if thumbnail != "" {
			p.ThumbnailURI = thumbnail
		}
		return true
	}
	return false
}

// Export builds the downloadable FeatureCollection: the search polygon first,
// followed by every result feature in order.
func Export(polygon SearchPolygon, features []Feature) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	fc.Append(polygon.Feature())
	for _, f := range features {
		gf, err := f.GeoJSON()
		if err != nil {
			return nil, err
		}
		fc.Append(gf)
	}
	return fc, nil
}
