package up42

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/stac"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

// PageLimit is the number of items requested per page.
const PageLimit = 500

// BuildRequest builds the first page request.
func BuildRequest(s imagery.SearchSettings, aoi orb.Polygon, producers []string) (*SearchRequest, error) {
	intersects, err := geojson.NewGeometry(aoi)
	if err != nil {
		return nil, fmt.Errorf("failed to encode intersects: %w", err)
	}

	req := &SearchRequest{
		Datetime:   stac.DatetimeInterval(s.StartDate, s.EndDate),
		Intersects: intersects,
		Limit:      PageLimit,
		Query: Query{
			CloudCoverage: Comparison{LTE: imagery.Float(s.CloudCoverage)},
			Resolution:    Comparison{GTE: imagery.Float(s.GSD.Min), LTE: imagery.Float(s.GSD.Max)},
		},
	}
	if len(producers) > 0 {
		req.Query.Producer = &InFilter{In: producers}
	}
	return req, nil
}
