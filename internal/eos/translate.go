package eos

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
)

func toCandidate(s *Scene) (backend.Candidate, error) {
	footprint, err := s.DataGeometry.Polygon()
	if err != nil {
		return backend.Candidate{}, fmt.Errorf("invalid footprint: %w", err)
	}

	acquired := s.Date
	if s.Time != "" && !strings.Contains(s.Date, "T") {
		acquired = s.Date + "T" + s.Time
	}

	return backend.Candidate{
		Feature: imagery.Feature{
			Geometry: footprint,
			Properties: imagery.Properties{
				ID:              s.SceneID,
				Constellation:   s.SatelliteName,
				Sensor:          s.SensorName,
				AcquisitionDate: acquired,
				CloudCoverage:   s.CloudCoverage,
				PreviewURI:      s.BrowseURL,
				ThumbnailURI:    s.Thumbnail,
				ProviderProperties: imagery.ProviderProperties{
					IlluminationElevationAngle: s.SunElevation,
					IlluminationAzimuthAngle:   s.SunAzimuth,
					IncidenceAngle:             s.ViewAngle,
					AzimuthAngle:               s.AzimuthAngle,
				},
				RawResultProperties: s.raw(),
			},
		},
		Resolution: s.Resolution,
	}, nil
}
