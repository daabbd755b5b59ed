package eos

import (
	"encoding/json"

	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

// SearchRequest is the body of POST /api/v5/allsensors.
type SearchRequest struct {
	Search Search            `json:"search"`
	Sort   map[string]string `json:"sort,omitempty"`
	Fields []string          `json:"fields,omitempty"`
	Limit  int               `json:"limit"`
	Page   int               `json:"page"`
}

// Search holds the filter block.
type Search struct {
	Satellites    []string          `json:"satellites"`
	Date          DateRange         `json:"date"`
	CloudCoverage NumberRange       `json:"cloudCoverage"`
	SunElevation  NumberRange       `json:"sunElevation"`
	Shape         *geojson.Geometry `json:"shape"`
}

// DateRange is an inclusive YYYY-MM-DD interval.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NumberRange is an inclusive numeric interval.
type NumberRange struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// SearchResponse is the search result page.
type SearchResponse struct {
	Meta    Meta    `json:"meta"`
	Results []Scene `json:"results"`
}

// Meta carries paging information.
type Meta struct {
	Found int `json:"found"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Scene is one archive scene.
type Scene struct {
	SceneID       string            `json:"sceneID"`
	SatelliteName string            `json:"satelliteName"`
	SensorName    string            `json:"sensor"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	CloudCoverage *float64          `json:"cloudCoverage"`
	SunElevation  *float64          `json:"sunElevation"`
	SunAzimuth    *float64          `json:"sunAzimuth"`
	ViewAngle     *float64          `json:"viewAngle"`
	AzimuthAngle  *float64          `json:"azimuthAngle"`
	Resolution    float64           `json:"resolution"`
	DataGeometry  *geojson.Geometry `json:"dataGeometry"`
	Thumbnail     string            `json:"thumbnail"`
	BrowseURL     string            `json:"browseURL"`
}

func (s Scene) raw() json.RawMessage {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return data
}
