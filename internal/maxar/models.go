package maxar

import "encoding/json"

// QueryResponse is the ImageServer query response.
type QueryResponse struct {
	Features              []Feature `json:"features"`
	ExceededTransferLimit bool      `json:"exceededTransferLimit"`
	Error                 *APIError `json:"error,omitempty"`
}

// APIError is returned by ArcGIS services inside a 200 response.
type APIError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Feature is one archive record.
type Feature struct {
	Attributes Attributes   `json:"attributes"`
	Geometry   EsriGeometry `json:"geometry"`
}

// EsriGeometry holds polygon rings in [x, y] order.
type EsriGeometry struct {
	Rings [][][]float64 `json:"rings"`
}

// Attributes are the archive fields of one record.
type Attributes struct {
	CatalogID       string   `json:"catalog_id"`
	VehicleName     string   `json:"vehicle_name"`
	AcquisitionDate int64    `json:"acquisition_date"` // epoch ms
	CloudCover      *float64 `json:"cloud_cover"`      // fraction 0-1
	OffNadirAvg     *float64 `json:"off_nadir_avg"`
	SunElevationAvg *float64 `json:"sun_elevation_avg"`
	SunAzimuthAvg   *float64 `json:"sun_azimuth_avg"`
	TargetAzimuth   *float64 `json:"target_azimuth_avg"`
	GSDAvg          float64  `json:"gsd_avg"`
	BrowseURL       string   `json:"browse_url"`
	ThumbnailURL    string   `json:"thumbnail_url"`
}

func (a Attributes) raw() json.RawMessage {
	data, err := json.Marshal(a)
	if err != nil {
		return nil
	}
	return data
}
