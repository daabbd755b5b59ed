package skyfi

import "encoding/json"

// ArchiveRequest is the body of POST /api/archive-available.
type ArchiveRequest struct {
	ImageCropping           ImageCropping `json:"imageCropping"`
	FromDate                string        `json:"fromDate"`
	ToDate                  string        `json:"toDate"`
	Resolutions             []string      `json:"resolutions,omitempty"`
	MaxCloudCoveragePercent float64       `json:"maxCloudCoveragePercent"`
	MaxOffNadirAngle        float64       `json:"maxOffNadirAngle"`
	Page                    int           `json:"page"`
	PageSize                int           `json:"pageSize"`
}

// ImageCropping carries the AOI as WKT.
type ImageCropping struct {
	WKTString string `json:"wktString"`
}

// ArchiveResponse is one page of available archives.
type ArchiveResponse struct {
	Archives            []Archive `json:"archives"`
	NumReturnedArchives int       `json:"numReturnedArchives"`
	NumTotalArchives    int       `json:"numTotalArchives"`
}

// Archive is one purchasable archive image.
type Archive struct {
	ArchiveID            string            `json:"archiveId"`
	Provider             string            `json:"provider"`
	Constellation        string            `json:"constellation"`
	ProductType          string            `json:"productType"`
	CaptureTimestamp     string            `json:"captureTimestamp"`
	CloudCoveragePercent *float64          `json:"cloudCoveragePercent"`
	OffNadirAngle        *float64          `json:"offNadirAngle"`
	GSD                  float64           `json:"gsd"`
	Footprint            string            `json:"footprint"` // WKT
	PriceForOneSquareKm  *float64          `json:"priceForOneSquareKm"`
	MinSqKm              float64           `json:"minSqKm"`
	ThumbnailURLs        map[string]string `json:"thumbnailUrls"`
}

func (a Archive) raw() json.RawMessage {
	data, err := json.Marshal(a)
	if err != nil {
		return nil
	}
	return data
}
