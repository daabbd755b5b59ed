package head

import (
	"fmt"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

func toCandidate(s *Scene) (backend.Candidate, error) {
	footprint, err := geojson.FromLatLonPairs(s.Footprint)
	if err != nil {
		return backend.Candidate{}, fmt.Errorf("invalid footprint: %w", err)
	}

	thumb := s.Thumb
	if thumb == "" {
		thumb = s.Quicklook
	}

	return backend.Candidate{
		Feature: imagery.Feature{
			Geometry: footprint,
			Properties: imagery.Properties{
				ID:              s.ID,
				Constellation:   s.Satellite,
				AcquisitionDate: s.Date,
				CloudCoverage:   s.Cloud,
				PreviewURI:      s.Quicklook,
				ThumbnailURI:    thumb,
				ProviderProperties: imagery.ProviderProperties{
					IlluminationElevationAngle: s.SunElevation,
					IlluminationAzimuthAngle:   s.SunAzimuth,
					IncidenceAngle:             s.OffNadir,
				},
				RawResultProperties: s.raw(),
			},
		},
		Resolution: s.Resolution,
	}, nil
}
