package stacsearch

import (
	"fmt"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/stac"
)

func toCandidate(item *stac.Item) (backend.Candidate, error) {
	footprint, err := stac.Footprint(item)
	if err != nil {
		return backend.Candidate{}, fmt.Errorf("invalid geometry: %w", err)
	}

	props := item.Properties
	constellation := stac.PropString(props, "constellation", "platform")
	if constellation == "" {
		constellation = item.Collection
	}

	var gsd float64
	if v := stac.PropFloat(props, "gsd", "eo:gsd"); v != nil {
		gsd = *v
	}

	return backend.Candidate{
		Feature: imagery.Feature{
			Geometry: footprint,
			Properties: imagery.Properties{
				ID:              item.Id,
				ProviderName:    item.Collection,
				Constellation:   constellation,
				Sensor:          stac.PropString(props, "instruments"),
				AcquisitionDate: stac.PropString(props, "datetime", "start_datetime"),
				CloudCoverage:   stac.PropFloat(props, "eo:cloud_cover"),
				PreviewURI:      stac.AssetHref(item, "rendered_preview", "overview", "visual", "thumbnail"),
				ThumbnailURI:    stac.AssetHref(item, "thumbnail", "rendered_preview", "overview"),
				ProviderProperties: imagery.ProviderProperties{
					IlluminationElevationAngle: stac.PropFloat(props, "view:sun_elevation"),
					IlluminationAzimuthAngle:   stac.PropFloat(props, "view:sun_azimuth"),
					IncidenceAngle:             stac.PropFloat(props, "view:incidence_angle", "view:off_nadir"),
					AzimuthAngle:               stac.PropFloat(props, "view:azimuth"),
				},
				RawResultProperties: stac.RawProperties(item),
			},
		},
		Resolution: gsd,
	}, nil
}
