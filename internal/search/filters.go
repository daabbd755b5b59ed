package search

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// GSDSteps is the discrete resolution table, in meters per pixel, that the
// GSD range positions of Filters index into.
var GSDSteps = []float64{0.1, 0.3, 0.5, 0.75, 1, 1.5, 2, 3, 5, 10, 15, 30, 60}

// DefaultAOI is searched when the caller draws no polygon: central Berlin.
var DefaultAOI = orb.Polygon{{
	{13.3, 52.4}, {13.5, 52.4}, {13.5, 52.55}, {13.3, 52.55}, {13.3, 52.4},
}}

// Filters is the caller facing form of the search settings.
type Filters struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	// GSDIndex holds the min and max positions in GSDSteps.
	GSDIndex [2]int `json:"gsdIndex"`

	CloudCoverage float64    `json:"cloudCoverage"`
	AOICoverage   float64    `json:"aoiCoverage"`
	SunElevation  [2]float64 `json:"sunElevation"`
	OffNadirAngle [2]float64 `json:"offNadirAngle"`
}

// DefaultFilters returns permissive filters over the lookback window ending at now.
func DefaultFilters(now time.Time, lookback time.Duration) Filters {
	return Filters{
		StartDate:     now.Add(-lookback).UTC(),
		EndDate:       now.UTC(),
		GSDIndex:      [2]int{0, len(GSDSteps) - 1},
		CloudCoverage: 100,
		AOICoverage:   0,
		SunElevation:  [2]float64{0, 90},
		OffNadirAngle: [2]float64{0, 60},
	}
}

// GSDRange resolves two step positions into a resolution range.
func GSDRange(minIdx, maxIdx int) (imagery.Range, error) {
	last := len(GSDSteps) - 1
	if minIdx < 0 || maxIdx > last || minIdx > maxIdx {
		return imagery.Range{}, fmt.Errorf("gsd positions [%d, %d] outside [0, %d]", minIdx, maxIdx, last)
	}
	return imagery.Range{Min: GSDSteps[minIdx], Max: GSDSteps[maxIdx]}, nil
}

// Settings builds the immutable settings of one search over polygon.
func (f Filters) Settings(polygon orb.Polygon) (imagery.SearchSettings, error) {
	gsd, err := GSDRange(f.GSDIndex[0], f.GSDIndex[1])
	if err != nil {
		return imagery.SearchSettings{}, err
	}

	s := imagery.SearchSettings{
		StartDate:     f.StartDate.UTC(),
		EndDate:       f.EndDate.UTC(),
		GSD:           gsd,
		CloudCoverage: f.CloudCoverage,
		AOICoverage:   f.AOICoverage,
		SunElevation:  imagery.Range{Min: f.SunElevation[0], Max: f.SunElevation[1]},
		OffNadirAngle: imagery.Range{Min: f.OffNadirAngle[0], Max: f.OffNadirAngle[1]},
		Coordinates:   polygon.Clone(),
	}
	if err := s.Validate(); err != nil {
		return imagery.SearchSettings{}, err
	}
	return s, nil
}
