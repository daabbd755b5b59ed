package skywatch

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

// Resolution classes accepted by the archive search, with their upper GSD bound.
var resolutionClasses = []struct {
	name string
	max  float64
}{
	{"very_high", 1},
	{"high", 5},
	{"medium", 15},
	{"low", 1e9},
}

// Resolutions returns the classes that can hold imagery inside gsd.
func Resolutions(gsd imagery.Range) []string {
	var out []string
	lower := 0.0
	for _, c := range resolutionClasses {
		if lower <= gsd.Max && gsd.Min <= c.max {
			out = append(out, c.name)
		}
		lower = c.max
	}
	return out
}

// BuildRequest builds the job creation body.
func BuildRequest(s imagery.SearchSettings, aoi orb.Polygon) (*SearchRequest, error) {
	location, err := geojson.NewGeometry(aoi)
	if err != nil {
		return nil, fmt.Errorf("failed to encode location: %w", err)
	}
	return &SearchRequest{
		Location:   location,
		StartDate:  imagery.FormatISO(s.StartDate),
		EndDate:    imagery.FormatISO(s.EndDate),
		Resolution: Resolutions(s.GSD),
		Coverage:   s.AOICoverage,
		OrderBy:    []string{"date"},
	}, nil
}
