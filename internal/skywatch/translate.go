package skywatch

import (
	"fmt"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

func toCandidate(r *Result) (backend.Candidate, error) {
	if r.Location == nil {
		return backend.Candidate{}, fmt.Errorf("result has no location")
	}
	footprint, err := r.Location.Polygon()
	if err != nil {
		return backend.Candidate{}, fmt.Errorf("invalid location: %w", err)
	}

	return backend.Candidate{
		Feature: imagery.Feature{
			Geometry: footprint,
			Properties: imagery.Properties{
				ID:                  r.ID,
				Constellation:       r.Source,
				Sensor:              r.ProductName,
				AcquisitionDate:     r.StartTime,
				CloudCoverage:       r.CloudCoverPercentage,
				PreviewURI:          r.PreviewURI,
				ThumbnailURI:        r.ThumbnailURI,
				RawResultProperties: r.raw(),
			},
		},
		Resolution: r.Resolution,
		Overlap:    r.LocationCoveragePercentage,
		Price:      r.Cost,
	}, nil
}
