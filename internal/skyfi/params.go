package skyfi

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

// resolutionClasses maps SkyFi resolution classes to GSD intervals in meters.
var resolutionClasses = []struct {
	name string
	gsd  imagery.Range
}{
	{"ULTRA HIGH", imagery.Range{Min: 0, Max: 0.3}},
	{"SUPER HIGH", imagery.Range{Min: 0.3, Max: 0.5}},
	{"VERY HIGH", imagery.Range{Min: 0.5, Max: 1}},
	{"HIGH", imagery.Range{Min: 1, Max: 5}},
	{"MEDIUM", imagery.Range{Min: 5, Max: 15}},
	{"LOW", imagery.Range{Min: 15, Max: math.MaxFloat64}},
}

// Resolutions returns the classes whose interval intersects gsd.
func Resolutions(gsd imagery.Range) []string {
	var out []string
	for _, c := range resolutionClasses {
		if c.gsd.Min <= gsd.Max && gsd.Min <= c.gsd.Max {
			out = append(out, c.name)
		}
	}
	return out
}

// BuildRequest builds the request for page (zero based).
func BuildRequest(s imagery.SearchSettings, aoi orb.Polygon, page, pageSize int) *ArchiveRequest {
	return &ArchiveRequest{
		ImageCropping:           ImageCropping{WKTString: geojson.ToWKT(aoi)},
		FromDate:                imagery.FormatISO(s.StartDate),
		ToDate:                  imagery.FormatISO(s.EndDate),
		Resolutions:             Resolutions(s.GSD),
		MaxCloudCoveragePercent: s.CloudCoverage,
		MaxOffNadirAngle:        s.OffNadirAngle.Max,
		Page:                    page,
		PageSize:                pageSize,
	}
}
