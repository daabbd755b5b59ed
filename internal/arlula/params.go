package arlula

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

// BuildParams builds the archive search query. A non-empty next token
// requests the following page.
func BuildParams(s imagery.SearchSettings, aoi orb.Polygon, next string) (url.Values, error) {
	polygon, err := json.Marshal([][][]float64{geojson.RingPositions(aoi)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode polygon: %w", err)
	}

	params := url.Values{}
	params.Set("start", imagery.FormatDay(s.StartDate))
	params.Set("end", imagery.FormatDay(s.EndDate))
	params.Set("gsd", strconv.FormatFloat(s.GSD.Max, 'f', -1, 64))
	params.Set("cloud", strconv.FormatFloat(s.CloudCoverage, 'f', -1, 64))
	params.Set("off-nadir", strconv.FormatFloat(s.OffNadirAngle.Max, 'f', -1, 64))
	params.Set("polygon", string(polygon))
	if next != "" {
		params.Set("next", next)
	}
	return params, nil
}
