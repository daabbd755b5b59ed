package eos

import (
	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

// PageLimit is the number of scenes requested.
const PageLimit = 500

// BuildRequest converts search settings into an EOS search body.
func BuildRequest(s imagery.SearchSettings, aoi orb.Polygon, satellites []string) (*SearchRequest, error) {
	shape, err := geojson.NewGeometry(aoi)
	if err != nil {
		return nil, err
	}

	return &SearchRequest{
		Search: Search{
			Satellites: satellites,
			Date: DateRange{
				From: imagery.FormatDay(s.StartDate),
				To:   imagery.FormatDay(s.EndDate),
			},
			CloudCoverage: NumberRange{From: 0, To: s.CloudCoverage},
			SunElevation:  NumberRange{From: s.SunElevation.Min, To: s.SunElevation.Max},
			Shape:         shape,
		},
		Sort:  map[string]string{"date": "desc"},
		Limit: PageLimit,
		Page:  1,
	}, nil
}
