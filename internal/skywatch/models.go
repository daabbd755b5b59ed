package skywatch

import (
	"encoding/json"

	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

// SearchRequest creates an archive search job.
type SearchRequest struct {
	Location       *geojson.Geometry `json:"location"`
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	Resolution     []string          `json:"resolution,omitempty"`
	Coverage       float64           `json:"coverage"`
	IntervalLength int               `json:"interval_length"`
	OrderBy        []string          `json:"order_by,omitempty"`
}

// SearchJob is the response to a job creation.
type SearchJob struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// SearchResults is the payload of a finished job.
type SearchResults struct {
	Data []Result `json:"data"`
}

// Result is one archive record.
type Result struct {
	ID                         string            `json:"id"`
	ProductName                string            `json:"product_name"`
	Source                     string            `json:"source"`
	StartTime                  string            `json:"start_time"`
	EndTime                    string            `json:"end_time"`
	PreviewURI                 string            `json:"preview_uri"`
	ThumbnailURI               string            `json:"thumbnail_uri"`
	Location                   *geojson.Geometry `json:"location"`
	Resolution                 float64           `json:"resolution"`
	LocationCoveragePercentage *float64          `json:"location_coverage_percentage"`
	AreaSqKm                   float64           `json:"area_sq_km"`
	Cost                       *float64          `json:"cost"`
	CloudCoverPercentage       *float64          `json:"result_cloud_cover_percentage"`
}

func (r Result) raw() json.RawMessage {
	data, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return data
}
