package geojson_test

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

func ExampleGeometry_BBox() {
	g := &geojson.Geometry{
		Type:        "Polygon",
		Coordinates: json.RawMessage(`[[[-122.5,37.8],[-122.4,37.8],[-122.4,37.9],[-122.5,37.9],[-122.5,37.8]]]`),
	}

	bbox, err := g.BBox()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("BBox: [%f, %f, %f, %f]\n", bbox[0], bbox[1], bbox[2], bbox[3])
	// Output: BBox: [-122.500000, 37.800000, -122.400000, 37.900000]
}

func ExampleToLatLonPolygon() {
	aoi := orb.Polygon{{{13.3, 52.4}, {13.5, 52.4}, {13.5, 52.55}, {13.3, 52.4}}}
	fmt.Println(geojson.ToLatLonPolygon(aoi))
	// Output: polygon((52.4,13.3),(52.4,13.5),(52.55,13.5),(52.4,13.3))
}

func ExampleToWKT() {
	aoi := orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}
	fmt.Println(geojson.ToWKT(aoi))
	// Output: POLYGON((0 0,1 0,1 1,0 0))
}
