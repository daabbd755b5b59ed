package imagery

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Range is a closed numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// SearchSettings are the filters shared by every provider query of one search.
// A value is built once per search and never mutated afterwards.
type SearchSettings struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	// GSD bounds in meters per pixel.
	GSD Range `json:"gsd"`

	// CloudCoverage is the maximum accepted cloud cover percentage (0-100).
	CloudCoverage float64 `json:"cloudCoverage"`

	// AOICoverage is the minimum accepted AOI overlap percentage (0-100).
	AOICoverage float64 `json:"aoiCoverage"`

	SunElevation  Range `json:"sunElevation"`
	OffNadirAngle Range `json:"offNadirAngle"`

	Coordinates orb.Polygon `json:"-"`
}

// Validate checks the ranges of the settings.
func (s SearchSettings) Validate() error {
	if s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("end date %s is before start date %s", FormatISO(s.EndDate), FormatISO(s.StartDate))
	}
	if s.GSD.Min < 0 || s.GSD.Max < s.GSD.Min {
		return fmt.Errorf("invalid gsd range [%g, %g]", s.GSD.Min, s.GSD.Max)
	}
	if s.CloudCoverage < 0 || s.CloudCoverage > 100 {
		return fmt.Errorf("cloud coverage must be between 0 and 100, got %g", s.CloudCoverage)
	}
	if s.AOICoverage < 0 || s.AOICoverage > 100 {
		return fmt.Errorf("aoi coverage must be between 0 and 100, got %g", s.AOICoverage)
	}
	if s.SunElevation.Max < s.SunElevation.Min {
		return fmt.Errorf("invalid sun elevation range [%g, %g]", s.SunElevation.Min, s.SunElevation.Max)
	}
	if s.OffNadirAngle.Max < s.OffNadirAngle.Min {
		return fmt.Errorf("invalid off-nadir range [%g, %g]", s.OffNadirAngle.Min, s.OffNadirAngle.Max)
	}
	if len(s.Coordinates) != 1 {
		return fmt.Errorf("search polygon must have exactly one ring, got %d", len(s.Coordinates))
	}
	if len(s.Coordinates[0]) < 4 {
		return fmt.Errorf("search polygon ring needs at least 4 positions, got %d", len(s.Coordinates[0]))
	}
	return nil
}

// SearchPolygon is the AOI of one search. It carries the settings so the
// polygon can be exported together with its results.
type SearchPolygon struct {
	Geometry orb.Polygon
	Settings SearchSettings
}

// NewSearchPolygon ties a single-ring polygon to the settings used for it.
func NewSearchPolygon(settings SearchSettings) SearchPolygon {
	return SearchPolygon{Geometry: settings.Coordinates, Settings: settings}
}

// Feature converts the polygon into a GeoJSON feature whose properties hold the settings.
func (p SearchPolygon) Feature() *geojson.Feature {
	f := geojson.NewFeature(p.Geometry)
	f.Properties["type"] = "searchPolygon"
	f.Properties["startDate"] = FormatISO(p.Settings.StartDate)
	f.Properties["endDate"] = FormatISO(p.Settings.EndDate)
	f.Properties["gsd"] = map[string]float64{"min": p.Settings.GSD.Min, "max": p.Settings.GSD.Max}
	f.Properties["cloudCoverage"] = p.Settings.CloudCoverage
	f.Properties["aoiCoverage"] = p.Settings.AOICoverage
	f.Properties["sunElevation"] = []float64{p.Settings.SunElevation.Min, p.Settings.SunElevation.Max}
	f.Properties["offNadirAngle"] = []float64{p.Settings.OffNadirAngle.Min, p.Settings.OffNadirAngle.Max}
	return f
}

// MarshalJSON encodes the polygon as a GeoJSON feature.
func (p SearchPolygon) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Feature())
}
