package geojson

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

var square = orb.Polygon{{{13.3, 52.4}, {13.5, 52.4}, {13.5, 52.55}, {13.3, 52.55}, {13.3, 52.4}}}

func TestGeometryPolygon(t *testing.T) {
	g := &Geometry{
		Type:        "Polygon",
		Coordinates: json.RawMessage(`[[[0,0],[1,0],[1,1],[0,1],[0,0]]]`),
	}

	p, err := g.Polygon()
	if err != nil {
		t.Fatalf("Polygon() error: %v", err)
	}
	if len(p) != 1 || len(p[0]) != 5 {
		t.Errorf("Polygon() = %v, want one ring of 5 positions", p)
	}
}

func TestGeometryPolygon_MultiPolygonPicksLargest(t *testing.T) {
	g := &Geometry{
		Type: "MultiPolygon",
		Coordinates: json.RawMessage(`[
			[[[0,0],[1,0],[1,1],[0,1],[0,0]]],
			[[[10,10],[14,10],[14,14],[10,14],[10,10]]]
		]`),
	}

	p, err := g.Polygon()
	if err != nil {
		t.Fatalf("Polygon() error: %v", err)
	}
	if p[0][0] != (orb.Point{10, 10}) {
		t.Errorf("expected the larger member, got %v", p)
	}
}

func TestGeometryPolygon_WrongType(t *testing.T) {
	g := &Geometry{Type: "Point", Coordinates: json.RawMessage(`[1,2]`)}
	if _, err := g.Polygon(); err == nil {
		t.Error("Polygon() should return error for a Point")
	}
}

func TestGeometryPolygon_InvalidCoordinates(t *testing.T) {
	g := &Geometry{Type: "Polygon", Coordinates: json.RawMessage(`"nope"`)}
	if _, err := g.Polygon(); err == nil {
		t.Error("Polygon() should return error for invalid coordinates")
	}
}

func TestGeometryBBox(t *testing.T) {
	g, err := NewGeometry(square)
	if err != nil {
		t.Fatalf("NewGeometry() error: %v", err)
	}
	if g.Type != "Polygon" {
		t.Errorf("expected Polygon type, got %s", g.Type)
	}

	bbox, err := g.BBox()
	if err != nil {
		t.Fatalf("BBox() error: %v", err)
	}
	want := []float64{13.3, 52.4, 13.5, 52.55}
	for i := range want {
		if bbox[i] != want[i] {
			t.Errorf("bbox[%d] = %f, want %f", i, bbox[i], want[i])
		}
	}
}

func TestPolygonFromBBox(t *testing.T) {
	p, err := PolygonFromBBox([]float64{-10, -5, 10, 5})
	if err != nil {
		t.Fatalf("PolygonFromBBox() error: %v", err)
	}
	if len(p[0]) != 5 || p[0][0] != p[0][4] {
		t.Errorf("expected closed ring, got %v", p)
	}

	if _, err := PolygonFromBBox([]float64{1, 2, 3}); err == nil {
		t.Error("expected error for 3-value bbox")
	}
}

func TestBBoxParam(t *testing.T) {
	if got := BBoxParam(square); got != "13.3,52.4,13.5,52.55" {
		t.Errorf("BBoxParam() = %s", got)
	}
}

func TestWKTRoundTrip(t *testing.T) {
	s := ToWKT(square)
	if !strings.HasPrefix(s, "POLYGON((13.3 52.4") {
		t.Errorf("unexpected WKT %s", s)
	}

	p, err := FromWKT(s)
	if err != nil {
		t.Fatalf("FromWKT() error: %v", err)
	}
	if !p.Equal(square) {
		t.Errorf("FromWKT(ToWKT(p)) = %v, want %v", p, square)
	}
}

func TestFromWKT_MultiPolygon(t *testing.T) {
	p, err := FromWKT("MULTIPOLYGON(((0 0,2 0,2 2,0 2,0 0)))")
	if err != nil {
		t.Fatalf("FromWKT() error: %v", err)
	}
	if len(p[0]) != 5 {
		t.Errorf("unexpected ring %v", p[0])
	}
}

func TestFromWKT_Invalid(t *testing.T) {
	tests := []string{"", "POINT (1 2)", "POLYGON ((broken"}
	for _, s := range tests {
		if _, err := FromWKT(s); err == nil {
			t.Errorf("FromWKT(%q) should fail", s)
		}
	}
}

func TestToLatLonPolygon(t *testing.T) {
	p := orb.Polygon{{{13, 52}, {14, 52}, {14, 53}, {13, 52}}}
	want := "polygon((52,13),(52,14),(53,14),(52,13))"
	if got := ToLatLonPolygon(p); got != want {
		t.Errorf("ToLatLonPolygon() = %s, want %s", got, want)
	}
}

func TestFromLatLonPairs(t *testing.T) {
	p, err := FromLatLonPairs([][]float64{{52, 13}, {52, 14}, {53, 14}})
	if err != nil {
		t.Fatalf("FromLatLonPairs() error: %v", err)
	}
	if p[0][0] != (orb.Point{13, 52}) {
		t.Errorf("expected swapped axes, got %v", p[0][0])
	}
	if len(p[0]) != 4 {
		t.Errorf("expected ring to be closed, got %d positions", len(p[0]))
	}

	if _, err := FromLatLonPairs([][]float64{{1}}); err == nil {
		t.Error("expected error for short position")
	}
}

func TestSwapAxes(t *testing.T) {
	swapped := SwapAxes(square)
	if swapped[0][0] != (orb.Point{52.4, 13.3}) {
		t.Errorf("unexpected first point %v", swapped[0][0])
	}
	if !SwapAxes(swapped).Equal(square) {
		t.Error("swapping twice should restore the polygon")
	}
}

func TestEsri(t *testing.T) {
	e := ToEsri(square)
	if e.SpatialReference.WKID != 4326 {
		t.Errorf("expected wkid 4326, got %d", e.SpatialReference.WKID)
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if !strings.Contains(string(data), `"rings":[[[13.3,52.4]`) {
		t.Errorf("unexpected esri JSON %s", data)
	}

	p, err := FromEsriRings([][][]float64{{{13.3, 52.4}, {13.5, 52.4}, {13.5, 52.55}, {13.3, 52.55}}})
	if err != nil {
		t.Fatalf("FromEsriRings() error: %v", err)
	}
	if !p.Equal(square) {
		t.Errorf("FromEsriRings() = %v, want %v", p, square)
	}

	if _, err := FromEsriRings(nil); err == nil {
		t.Error("expected error for no rings")
	}
}

func TestFromRing(t *testing.T) {
	p, err := FromRing(RingPositions(square))
	if err != nil {
		t.Fatalf("FromRing() error: %v", err)
	}
	if !p.Equal(square) {
		t.Errorf("FromRing(RingPositions(p)) = %v", p)
	}

	if _, err := FromRing([][]float64{{0, 0}, {1, 1}}); err == nil {
		t.Error("expected error for two positions")
	}
}
