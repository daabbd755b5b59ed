package maxar

import (
	"fmt"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

func toCandidate(f *Feature) (backend.Candidate, error) {
	footprint, err := geojson.FromEsriRings(f.Geometry.Rings)
	if err != nil {
		return backend.Candidate{}, fmt.Errorf("invalid footprint: %w", err)
	}

	a := f.Attributes
	var cloud *float64
	if a.CloudCover != nil {
		cloud = imagery.Float(*a.CloudCover * 100)
	}

	var acquired string
	if a.AcquisitionDate != 0 {
		acquired = imagery.FormatISO(imagery.TimeFromMillis(a.AcquisitionDate))
	}

	thumb := a.ThumbnailURL
	if thumb == "" {
		thumb = a.BrowseURL
	}

	return backend.Candidate{
		Feature: imagery.Feature{
			Geometry: footprint,
			Properties: imagery.Properties{
				ID:              a.CatalogID,
				Constellation:   a.VehicleName,
				AcquisitionDate: acquired,
				CloudCoverage:   cloud,
				PreviewURI:      a.BrowseURL,
				ThumbnailURI:    thumb,
				ProviderProperties: imagery.ProviderProperties{
					IlluminationElevationAngle: a.SunElevationAvg,
					IlluminationAzimuthAngle:   a.SunAzimuthAvg,
					IncidenceAngle:             a.OffNadirAvg,
					AzimuthAngle:               a.TargetAzimuth,
				},
				RawResultProperties: a.raw(),
			},
		},
		Resolution: a.GSDAvg,
	}, nil
}
