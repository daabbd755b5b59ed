package oam

import (
	"encoding/json"

	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

// MetaResponse is the body of GET /meta.
type MetaResponse struct {
	Meta    Meta     `json:"meta"`
	Results []Result `json:"results"`
}

// Meta carries paging information.
type Meta struct {
	Found int `json:"found"`
	Limit int `json:"limit"`
	Page  int `json:"page"`
}

// Result is one uploaded image.
type Result struct {
	ID               string            `json:"_id"`
	UUID             string            `json:"uuid"`
	Title            string            `json:"title"`
	Provider         string            `json:"provider"`
	Platform         string            `json:"platform"`
	Sensor           string            `json:"sensor"`
	GSD              float64           `json:"gsd"`
	AcquisitionStart string            `json:"acquisition_start"`
	AcquisitionEnd   string            `json:"acquisition_end"`
	GeoJSON          *geojson.Geometry `json:"geojson"`
	Properties       ResultProperties  `json:"properties"`
}

// ResultProperties hold the rendered derivatives of an image.
type ResultProperties struct {
	Thumbnail string `json:"thumbnail"`
	TMS       string `json:"tms"`
	WMTS      string `json:"wmts"`
}

func (r Result) raw() json.RawMessage {
	data, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return data
}
