package oam

import (
	"net/url"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

// BuildParams converts search settings to /meta query parameters.
func BuildParams(s imagery.SearchSettings, aoi orb.Polygon, limit int) url.Values {
	v := url.Values{}
	v.Set("bbox", geojson.BBoxParam(aoi))
	v.Set("gsd_from", strconv.FormatFloat(s.GSD.Min, 'f', -1, 64))
	v.Set("gsd_to", strconv.FormatFloat(s.GSD.Max, 'f', -1, 64))
	v.Set("acquisition_from", imagery.FormatISO(s.StartDate))
	v.Set("acquisition_to", imagery.FormatISO(s.EndDate))
	v.Set("order_by", "acquisition_end")
	v.Set("sort", "desc")
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	return v
}
