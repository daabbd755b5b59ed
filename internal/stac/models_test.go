package stac

import (
	"testing"
)

const sampleSearch = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"stac_version": "1.0.0",
			"id": "S2B_33UUU_20240501_0_L2A",
			"collection": "sentinel-2-l2a",
			"geometry": {"type": "Polygon", "coordinates": [[[13,52],[14,52],[14,53],[13,53],[13,52]]]},
			"bbox": [13, 52, 14, 53],
			"properties": {
				"datetime": "2024-05-01T10:15:59.024000Z",
				"platform": "sentinel-2b",
				"eo:cloud_cover": 3.5,
				"gsd": 10
			},
			"assets": {
				"thumbnail": {"href": "https://example.com/thumb.jpg"}
			},
			"links": []
		}
	],
	"links": [
		{"rel": "self", "href": "https://example.com/search"},
		{"rel": "next", "href": "https://example.com/search?next=abc123"}
	],
	"numberMatched": 42,
	"numberReturned": 1
}`

func TestDecodeItemCollection(t *testing.T) {
	ic, err := DecodeItemCollection([]byte(sampleSearch))
	if err != nil {
		t.Fatalf("DecodeItemCollection() error: %v", err)
	}

	if len(ic.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(ic.Features))
	}
	if ic.NumberMatched == nil || *ic.NumberMatched != 42 {
		t.Errorf("unexpected numberMatched %v", ic.NumberMatched)
	}

	item := ic.Features[0]
	if item.Id != "S2B_33UUU_20240501_0_L2A" {
		t.Errorf("unexpected id %s", item.Id)
	}

	fp, err := Footprint(item)
	if err != nil {
		t.Fatalf("Footprint() error: %v", err)
	}
	if len(fp[0]) != 5 {
		t.Errorf("unexpected footprint %v", fp)
	}

	if cc := PropFloat(item.Properties, "eo:cloud_cover"); cc == nil || *cc != 3.5 {
		t.Errorf("unexpected cloud cover %v", cc)
	}
	if PropFloat(item.Properties, "missing") != nil {
		t.Error("expected nil for missing property")
	}
	if got := PropString(item.Properties, "constellation", "platform"); got != "sentinel-2b" {
		t.Errorf("unexpected platform %s", got)
	}
	if got := AssetHref(item, "overview", "thumbnail"); got != "https://example.com/thumb.jpg" {
		t.Errorf("unexpected asset href %s", got)
	}
}

func TestNextLink(t *testing.T) {
	ic, err := DecodeItemCollection([]byte(sampleSearch))
	if err != nil {
		t.Fatalf("DecodeItemCollection() error: %v", err)
	}
	if l := ic.NextLink(); l == nil || l.Href != "https://example.com/search?next=abc123" {
		t.Errorf("unexpected next link %v", l)
	}
	if tok := ic.NextToken(); tok != "abc123" {
		t.Errorf("unexpected next token %q", tok)
	}

	last := &ItemCollection{Links: []*Link{{Rel: "self", Href: "x"}}}
	if last.NextLink() != nil || last.NextToken() != "" {
		t.Error("expected no next link on last page")
	}
}

func TestDecodeItemCollection_WrongType(t *testing.T) {
	if _, err := DecodeItemCollection([]byte(`{"type":"Feature"}`)); err == nil {
		t.Error("expected error for non-collection response")
	}
	if _, err := DecodeItemCollection([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestFootprint_BBoxFallback(t *testing.T) {
	item := &Item{Id: "x", Bbox: []float64{0, 0, 1, 1}}
	fp, err := Footprint(item)
	if err != nil {
		t.Fatalf("Footprint() error: %v", err)
	}
	if len(fp[0]) != 5 {
		t.Errorf("unexpected bbox footprint %v", fp)
	}

	if _, err := Footprint(&Item{Id: "y"}); err == nil {
		t.Error("expected error for item without geometry")
	}

	if _, err := Footprint(&Item{Id: "z", Bbox: []float64{10, 0, 5, 1}}); err == nil {
		t.Error("expected error for item with inverted bbox")
	}
}
