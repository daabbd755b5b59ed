package arlula

import (
	"fmt"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

func toCandidate(s *Scene) (backend.Candidate, error) {
	if len(s.Bounding) == 0 {
		return backend.Candidate{}, fmt.Errorf("scene has no bounding polygon")
	}
	footprint, err := geojson.FromRing(s.Bounding[0])
	if err != nil {
		return backend.Candidate{}, fmt.Errorf("invalid bounding polygon: %w", err)
	}

	var overlap *float64
	if s.Overlap != nil && s.Overlap.Percent != nil {
		overlap = s.Overlap.Percent.Search
	}

	return backend.Candidate{
		Feature: imagery.Feature{
			Geometry: footprint,
			Properties: imagery.Properties{
				ID:              s.SceneID,
				ProviderName:    s.Supplier,
				Constellation:   s.Platform,
				AcquisitionDate: s.Date,
				CloudCoverage:   s.Cloud,
				PreviewURI:      s.Thumbnail,
				ThumbnailURI:    s.Thumbnail,
				ProviderProperties: imagery.ProviderProperties{
					IncidenceAngle: s.OffNadir,
				},
				RawResultProperties: s.raw(),
			},
		},
		Resolution: s.GSD,
		Overlap:    overlap,
	}, nil
}
