package up42

import (
	"fmt"
	"net/url"

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
	producer := stac.PropString(props, "producer")
	provider := string(imagery.ProviderUP42)
	if producer != "" {
		provider += "/" + producer
	}

	var resolution float64
	if r := stac.PropFloat(props, "resolution"); r != nil {
		resolution = *r
	}

	return backend.Candidate{
		Feature: imagery.Feature{
			Geometry: footprint,
			Properties: imagery.Properties{
				ID:              item.Id,
				Provider:        provider,
				ProviderName:    stac.PropString(props, "providerName", "producer"),
				Constellation:   stac.PropString(props, "constellation"),
				AcquisitionDate: stac.PropString(props, "acquisitionDate", "datetime"),
				CloudCoverage:   stac.PropFloat(props, "cloudCoverage", "eo:cloud_cover"),
				PreviewURI:      quicklookHref(item),
				ProviderProperties: imagery.ProviderProperties{
					IlluminationElevationAngle: stac.PropFloat(props, "sunElevation", "view:sun_elevation"),
					IlluminationAzimuthAngle:   stac.PropFloat(props, "sunAzimuth", "view:sun_azimuth"),
					IncidenceAngle:             stac.PropFloat(props, "incidenceAngle", "view:incidence_angle"),
				},
				RawResultProperties: stac.RawProperties(item),
			},
		},
		Resolution: resolution,
	}, nil
}

// quicklookHref returns the quicklook asset, or the catalog image path
// derived from the producer host and scene id.
func quicklookHref(item *stac.Item) string {
	if href := stac.AssetHref(item, "quicklook", "thumbnail"); href != "" {
		return href
	}
	host := stac.PropString(item.Properties, "producer")
	scene := stac.PropString(item.Properties, "sceneId")
	if host == "" || scene == "" {
		return ""
	}
	return "/catalog/" + url.PathEscape(host) + "/image/" + url.PathEscape(scene) + "/quicklook"
}
