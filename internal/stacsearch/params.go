package stacsearch

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/stac"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

// Options are the deployment specific parameters of the STAC search.
type Options struct {
	Collections []string
	Limit       int
	Sortby      []stac.SortbyItem
}

// BuildParams builds the GET /search query.
func BuildParams(s imagery.SearchSettings, aoi orb.Polygon, opts Options) url.Values {
	params := url.Values{}
	params.Set("datetime", stac.DatetimeInterval(s.StartDate, s.EndDate))
	params.Set("bbox", geojson.BBoxParam(aoi))
	if len(opts.Collections) > 0 {
		params.Set("collections", strings.Join(opts.Collections, ","))
	}
	if len(opts.Sortby) > 0 {
		params.Set("sortby", stac.FormatSortby(opts.Sortby))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	return params
}
