package stac

import (
	"fmt"
	"time"

	"github.com/robert-malhotra/eo-search/internal/imagery"
)

// DatetimeInterval formats the closed interval [start, end] as a STAC
// datetime parameter. A zero bound becomes the open marker "..".
func DatetimeInterval(start, end time.Time) string {
	bound := func(t time.Time) string {
		if t.IsZero() {
			return ".."
		}
		return imagery.FormatISO(t)
	}
	return bound(start) + "/" + bound(end)
}

// ValidateBBox validates a 2D bounding box [west, south, east, north].
func ValidateBBox(bbox []float64) error {
	if len(bbox) != 4 {
		return fmt.Errorf("bbox must have 4 coordinates, got %d", len(bbox))
	}
	west, south, east, north := bbox[0], bbox[1], bbox[2], bbox[3]

	if west < -180 || west > 180 || east < -180 || east > 180 {
		return fmt.Errorf("longitudes must be between -180 and 180, got %f and %f", west, east)
	}
	if south < -90 || south > 90 || north < -90 || north > 90 {
		return fmt.Errorf("latitudes must be between -90 and 90, got %f and %f", south, north)
	}
	if west > east {
		return fmt.Errorf("west longitude (%f) must be less than or equal to east longitude (%f)", west, east)
	}
	if south > north {
		return fmt.Errorf("south latitude (%f) must be less than or equal to north latitude (%f)", south, north)
	}
	return nil
}
