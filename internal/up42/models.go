package up42

import "github.com/robert-malhotra/eo-search/pkg/geojson"

// SearchRequest is the body of POST /catalog/stac/search.
type SearchRequest struct {
	Datetime   string            `json:"datetime"`
	Intersects *geojson.Geometry `json:"intersects"`
	Limit      int               `json:"limit"`
	Query      Query             `json:"query"`
	Next       string            `json:"next,omitempty"`
}

// Query holds the property filters of a search.
type Query struct {
	CloudCoverage Comparison `json:"cloudCoverage"`
	Resolution    Comparison `json:"resolution"`
	Producer      *InFilter  `json:"producer,omitempty"`
}

// Comparison is a numeric bound filter.
type Comparison struct {
	GTE *float64 `json:"gte,omitempty"`
	LTE *float64 `json:"lte,omitempty"`
}

// InFilter matches any of the listed values.
type InFilter struct {
	In []string `json:"in"`
}
