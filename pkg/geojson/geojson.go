// Package geojson converts footprints between the geometry encodings imagery
// providers speak: GeoJSON, WKT, Esri JSON rings, lat/lon-swapped polygon
// strings and bounding boxes.
package geojson

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	orbjson "github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Geometry is a GeoJSON geometry object as it arrives in provider payloads.
// Coordinates are kept raw until the footprint is needed.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// NewGeometry encodes an orb geometry.
func NewGeometry(g orb.Geometry) (*Geometry, error) {
	data, err := json.Marshal(orbjson.NewGeometry(g))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal geometry: %w", err)
	}
	var out Geometry
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode geometry: %w", err)
	}
	return &out, nil
}

// Orb decodes the raw geometry.
func (g *Geometry) Orb() (orb.Geometry, error) {
	if g == nil {
		return nil, fmt.Errorf("geometry is nil")
	}
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal geometry: %w", err)
	}
	parsed, err := orbjson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s coordinates: %w", g.Type, err)
	}
	return parsed.Geometry(), nil
}

// Polygon returns the footprint polygon. MultiPolygons resolve to their
// largest member; any other geometry type is an error.
func (g *Geometry) Polygon() (orb.Polygon, error) {
	geom, err := g.Orb()
	if err != nil {
		return nil, err
	}
	return AsPolygon(geom)
}

// AsPolygon narrows an orb geometry to a single polygon.
func AsPolygon(geom orb.Geometry) (orb.Polygon, error) {
	switch v := geom.(type) {
	case orb.Polygon:
		if len(v) == 0 || len(v[0]) < 4 {
			return nil, fmt.Errorf("polygon needs a ring of at least 4 positions")
		}
		return v, nil
	case orb.MultiPolygon:
		var best orb.Polygon
		var bestArea float64
		for _, p := range v {
			if len(p) == 0 || len(p[0]) < 4 {
				continue
			}
			if a := planar.Area(p); best == nil || a > bestArea {
				best, bestArea = p, a
			}
		}
		if best == nil {
			return nil, fmt.Errorf("multipolygon has no usable member")
		}
		return best, nil
	case orb.Bound:
		return v.ToPolygon(), nil
	case nil:
		return nil, fmt.Errorf("geometry is nil")
	default:
		return nil, fmt.Errorf("geometry is not a Polygon, got %s", geom.GeoJSONType())
	}
}

// BBox returns [west, south, east, north] of the geometry.
func (g *Geometry) BBox() ([]float64, error) {
	geom, err := g.Orb()
	if err != nil {
		return nil, err
	}
	b := geom.Bound()
	return []float64{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()}, nil
}

// PolygonFromBBox creates a polygon from [west, south, east, north].
func PolygonFromBBox(bbox []float64) (orb.Polygon, error) {
	if len(bbox) != 4 {
		return nil, fmt.Errorf("bbox must have 4 values [west, south, east, north], got %d", len(bbox))
	}
	west, south, east, north := bbox[0], bbox[1], bbox[2], bbox[3]
	return orb.Polygon{{
		{west, south},
		{east, south},
		{east, north},
		{west, north},
		{west, south},
	}}, nil
}

// BBoxParam formats the bounds of p as "west,south,east,north".
func BBoxParam(p orb.Polygon) string {
	b := p.Bound()
	return strings.Join([]string{
		formatFloat(b.Min.Lon()),
		formatFloat(b.Min.Lat()),
		formatFloat(b.Max.Lon()),
		formatFloat(b.Max.Lat()),
	}, ",")
}

// ToWKT encodes a polygon as WKT, e.g. POLYGON((lon lat,lon lat,...)).
func ToWKT(p orb.Polygon) string {
	return wkt.MarshalString(p)
}

// FromWKT parses a POLYGON or MULTIPOLYGON WKT string into a polygon.
func FromWKT(s string) (orb.Polygon, error) {
	geom, err := wkt.Unmarshal(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("failed to parse WKT: %w", err)
	}
	return AsPolygon(geom)
}

// ToLatLonPolygon encodes the outer ring with swapped axes as
// polygon((lat,lon),(lat,lon),...).
func ToLatLonPolygon(p orb.Polygon) string {
	var b strings.Builder
	b.WriteString("polygon(")
	if len(p) > 0 {
		for i, pt := range p[0] {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('(')
			b.WriteString(formatFloat(pt.Lat()))
			b.WriteByte(',')
			b.WriteString(formatFloat(pt.Lon()))
			b.WriteByte(')')
		}
	}
	b.WriteByte(')')
	return b.String()
}

// FromLatLonPairs builds a polygon from [lat, lon] positions, closing the ring if needed.
func FromLatLonPairs(pairs [][]float64) (orb.Polygon, error) {
	ring := make(orb.Ring, 0, len(pairs)+1)
	for i, pair := range pairs {
		if len(pair) < 2 {
			return nil, fmt.Errorf("position %d: expected [lat, lon], got %d values", i, len(pair))
		}
		ring = append(ring, orb.Point{pair[1], pair[0]})
	}
	return closeRing(ring)
}

// SwapAxes returns a copy of p with latitude and longitude exchanged.
func SwapAxes(p orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, ring := range p {
		r := make(orb.Ring, len(ring))
		for j, pt := range ring {
			r[j] = orb.Point{pt[1], pt[0]}
		}
		out[i] = r
	}
	return out
}

// EsriPolygon is the Esri JSON polygon encoding.
type EsriPolygon struct {
	Rings            [][][2]float64       `json:"rings"`
	SpatialReference EsriSpatialReference `json:"spatialReference"`
}

// EsriSpatialReference identifies the coordinate system of an Esri geometry.
type EsriSpatialReference struct {
	WKID int `json:"wkid"`
}

// WGS84 is the EPSG code of geographic lon/lat coordinates.
const WGS84 = 4326

// ToEsri encodes p as Esri JSON rings in WGS84.
func ToEsri(p orb.Polygon) EsriPolygon {
	out := EsriPolygon{
		Rings:            make([][][2]float64, 0, len(p)),
		SpatialReference: EsriSpatialReference{WKID: WGS84},
	}
	for _, ring := range p {
		r := make([][2]float64, len(ring))
		for i, pt := range ring {
			r[i] = [2]float64{pt[0], pt[1]}
		}
		out.Rings = append(out.Rings, r)
	}
	return out
}

// FromEsriRings decodes Esri rings into a polygon. Only the first ring is
// kept as the outer boundary; later rings are holes.
func FromEsriRings(rings [][][]float64) (orb.Polygon, error) {
	if len(rings) == 0 {
		return nil, fmt.Errorf("esri geometry has no rings")
	}
	out := make(orb.Polygon, 0, len(rings))
	for i, r := range rings {
		ring := make(orb.Ring, 0, len(r)+1)
		for _, pt := range r {
			if len(pt) < 2 {
				return nil, fmt.Errorf("ring %d: invalid position", i)
			}
			ring = append(ring, orb.Point{pt[0], pt[1]})
		}
		closed, err := closeRing(ring)
		if err != nil {
			return nil, fmt.Errorf("ring %d: %w", i, err)
		}
		out = append(out, closed[0])
	}
	return out, nil
}

// FromRing builds a polygon from [lon, lat] positions, closing the ring if needed.
func FromRing(positions [][]float64) (orb.Polygon, error) {
	ring := make(orb.Ring, 0, len(positions)+1)
	for i, pos := range positions {
		if len(pos) < 2 {
			return nil, fmt.Errorf("position %d: expected [lon, lat], got %d values", i, len(pos))
		}
		ring = append(ring, orb.Point{pos[0], pos[1]})
	}
	return closeRing(ring)
}

// RingPositions returns the outer ring of p as [lon, lat] pairs.
func RingPositions(p orb.Polygon) [][]float64 {
	if len(p) == 0 {
		return nil
	}
	out := make([][]float64, len(p[0]))
	for i, pt := range p[0] {
		out[i] = []float64{pt[0], pt[1]}
	}
	return out
}

func closeRing(ring orb.Ring) (orb.Polygon, error) {
	if len(ring) < 3 {
		return nil, fmt.Errorf("ring needs at least 3 positions, got %d", len(ring))
	}
	if !ring[0].Equal(ring[len(ring)-1]) {
		ring = append(ring, ring[0])
	}
	if len(ring) < 4 {
		return nil, fmt.Errorf("closed ring needs at least 4 positions, got %d", len(ring))
	}
	return orb.Polygon{ring}, nil
}

// formatFloat formats a float64 without unnecessary decimals.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
