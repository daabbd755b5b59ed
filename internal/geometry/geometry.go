// Package geometry provides the area and overlap measures used to derive
// result properties: geodesic polygon area, AOI overlap percentage and
// bounding boxes.
package geometry

import (
	"math"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Area returns the geodesic area of a polygon in square meters.
func Area(p orb.Polygon) float64 {
	if len(p) == 0 {
		return 0
	}
	return math.Abs(geo.Area(p))
}

// AreaSqKm returns the geodesic area of a polygon in square kilometers.
func AreaSqKm(p orb.Polygon) float64 {
	return Area(p) / 1e6
}

// BBox returns [west, south, east, north] of the polygon.
func BBox(p orb.Polygon) [4]float64 {
	b := p.Bound()
	return [4]float64{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()}
}

// Intersection clips a against b. The result may hold several disjoint
// polygons; it is empty when the shapes do not overlap.
func Intersection(a, b orb.Polygon) orb.MultiPolygon {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	if a.Equal(b) {
		return orb.MultiPolygon{a.Clone()}
	}
	clipped := toClip(a).Construct(polyclip.INTERSECTION, toClip(b))

	out := make(orb.MultiPolygon, 0, len(clipped))
	for _, contour := range clipped {
		if len(contour) < 3 {
			continue
		}
		ring := make(orb.Ring, 0, len(contour)+1)
		for _, pt := range contour {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		ring = append(ring, ring[0])
		out = append(out, orb.Polygon{ring})
	}
	return out
}

// IntersectionArea returns the geodesic area of a ∩ b in square meters.
func IntersectionArea(a, b orb.Polygon) float64 {
	var total float64
	for _, p := range Intersection(a, b) {
		total += Area(p)
	}
	return total
}

// Overlap returns round(area(footprint ∩ aoi) / area(aoi) * 100).
// ok is false when the AOI has no area. The value is not clamped; results
// outside [0,100] (self-intersecting input) are the caller's to report.
func Overlap(footprint, aoi orb.Polygon) (pct float64, ok bool) {
	aoiArea := Area(aoi)
	if aoiArea == 0 || math.IsNaN(aoiArea) {
		return 0, false
	}
	pct = math.Round(IntersectionArea(footprint, aoi) / aoiArea * 100)
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0, false
	}
	return pct, true
}

// Clamp limits a percentage to [0,100].
func Clamp(pct float64) float64 {
	return math.Max(0, math.Min(100, pct))
}

func toClip(p orb.Polygon) polyclip.Polygon {
	out := make(polyclip.Polygon, 0, len(p))
	for _, ring := range p {
		n := len(ring)
		if n > 1 && ring[0].Equal(ring[n-1]) {
			n--
		}
		contour := make(polyclip.Contour, 0, n)
		for _, pt := range ring[:n] {
			contour = append(contour, polyclip.Point{X: pt[0], Y: pt[1]})
		}
		out = append(out, contour)
	}
	return out
}
