package arlula

import "encoding/json"

// SearchResponse is one page of archive results.
type SearchResponse struct {
	State   string   `json:"state"`
	Errors  []string `json:"errors"`
	Results []Scene  `json:"results"`
	Next    string   `json:"next"`
}

// Scene is one archive scene.
type Scene struct {
	SceneID   string        `json:"sceneID"`
	Supplier  string        `json:"supplier"`
	Platform  string        `json:"platform"`
	Date      string        `json:"date"`
	Cloud     *float64      `json:"cloud"`
	OffNadir  *float64      `json:"offNadir"`
	GSD       float64       `json:"gsd"`
	Bounding  [][][]float64 `json:"bounding"`
	Overlap   *Overlap      `json:"overlap"`
	Thumbnail string        `json:"thumbnail"`
}

// Overlap is the intersection with the requested polygon.
type Overlap struct {
	Area    float64  `json:"area"`
	Percent *Percent `json:"percent"`
}

// Percent is the overlap relative to the search and the scene.
type Percent struct {
	Search *float64 `json:"search"`
	Scene  *float64 `json:"scene"`
}

func (s Scene) raw() json.RawMessage {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return data
}
