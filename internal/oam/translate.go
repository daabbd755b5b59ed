package oam

import (
	"fmt"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

func toCandidate(r *Result) (backend.Candidate, error) {
	footprint, err := r.GeoJSON.Polygon()
	if err != nil {
		return backend.Candidate{}, fmt.Errorf("invalid footprint: %w", err)
	}

	acquired := r.AcquisitionStart
	if acquired == "" {
		acquired = r.AcquisitionEnd
	}

	return backend.Candidate{
		Feature: imagery.Feature{
			Geometry: footprint,
			Properties: imagery.Properties{
				ID:                  r.ID,
				Provider:            string(imagery.ProviderOAM),
				ProviderName:        r.Provider,
				Constellation:       r.Platform,
				Sensor:              r.Sensor,
				AcquisitionDate:     acquired,
				PreviewURI:          r.Properties.Thumbnail,
				ThumbnailURI:        r.Properties.Thumbnail,
				RawResultProperties: r.raw(),
			},
		},
		Resolution: r.GSD,
	}, nil
}
