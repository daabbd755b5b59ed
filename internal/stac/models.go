// Package stac decodes STAC API item searches, wrapping planetlabs/go-stac
// for core types and adding the search response envelope.
package stac

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/paulmach/orb"
	gostac "github.com/planetlabs/go-stac"

	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

// Re-export core types from planetlabs/go-stac for convenience
type (
	Item  = gostac.Item
	Asset = gostac.Asset
	Link  = gostac.Link
)

// ItemCollection is a STAC ItemCollection (GeoJSON FeatureCollection) with
// the pagination fields of the item search API.
type ItemCollection struct {
	Type           string         `json:"type"` // "FeatureCollection"
	Features       []*gostac.Item `json:"features"`
	Links          []*gostac.Link `json:"links"`
	NumberMatched  *int           `json:"numberMatched,omitempty"`
	NumberReturned int            `json:"numberReturned"`
	Context        *Context       `json:"context,omitempty"`
}

// Context provides additional metadata about the response (STAC Context extension)
type Context struct {
	Returned int  `json:"returned"`
	Limit    int  `json:"limit,omitempty"`
	Matched  *int `json:"matched,omitempty"`
}

// DecodeItemCollection parses a search response body.
func DecodeItemCollection(data []byte) (*ItemCollection, error) {
	var ic ItemCollection
	if err := json.Unmarshal(data, &ic); err != nil {
		return nil, fmt.Errorf("failed to decode item collection: %w", err)
	}
	if ic.Type != "" && ic.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unexpected response type %q", ic.Type)
	}
	return &ic, nil
}

// NextLink returns the rel=next link, or nil on the last page.
func (ic *ItemCollection) NextLink() *Link {
	for _, l := range ic.Links {
		if l != nil && l.Rel == "next" && l.Href != "" {
			return l
		}
	}
	return nil
}

// NextToken returns the continuation token of the next link. It is read from
// the "next" or "token" query parameter of its href.
func (ic *ItemCollection) NextToken() string {
	l := ic.NextLink()
	if l == nil {
		return ""
	}
	u, err := url.Parse(l.Href)
	if err != nil {
		return ""
	}
	q := u.Query()
	if v := q.Get("next"); v != "" {
		return v
	}
	return q.Get("token")
}

// Footprint returns the item geometry as a polygon.
func Footprint(item *Item) (orb.Polygon, error) {
	if item.Geometry == nil {
		if len(item.Bbox) == 4 {
			if err := ValidateBBox(item.Bbox); err != nil {
				return nil, fmt.Errorf("item %s: %w", item.Id, err)
			}
			return geojson.PolygonFromBBox(item.Bbox)
		}
		return nil, fmt.Errorf("item %s has no geometry", item.Id)
	}
	data, err := json.Marshal(item.Geometry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item geometry: %w", err)
	}
	var g geojson.Geometry
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to decode item geometry: %w", err)
	}
	return g.Polygon()
}

// PropFloat returns the first numeric property among keys, or nil.
func PropFloat(props map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		switch v := props[k].(type) {
		case float64:
			if !math.IsNaN(v) {
				return &v
			}
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return &f
			}
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// PropString returns the first non-empty string property among keys.
func PropString(props map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := props[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// AssetHref returns the href of the first existing asset among keys.
func AssetHref(item *Item, keys ...string) string {
	for _, k := range keys {
		if a, ok := item.Assets[k]; ok && a != nil && a.Href != "" {
			return a.Href
		}
	}
	return ""
}

// RawProperties re-encodes item properties for the canonical raw field.
func RawProperties(item *Item) json.RawMessage {
	data, err := json.Marshal(item.Properties)
	if err != nil {
		return nil
	}
	return data
}
