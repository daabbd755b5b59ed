package imagery

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// ProviderProperties are viewing-geometry values some providers report.
type ProviderProperties struct {
	IlluminationElevationAngle *float64 `json:"illuminationElevationAngle,omitempty"`
	IlluminationAzimuthAngle   *float64 `json:"illuminationAzimuthAngle,omitempty"`
	IncidenceAngle             *float64 `json:"incidenceAngle,omitempty"`
	AzimuthAngle               *float64 `json:"azimuthAngle,omitempty"`
}

// Properties are the canonical properties of one search result.
// Unknown numeric values stay nil and encode as JSON null.
type Properties struct {
	ID string `json:"id"`

	// Provider is "<platform>" or "<platform>/<producer>" for aggregators.
	Provider         string `json:"provider"`
	ProviderPlatform string `json:"providerPlatform"`
	ProviderName     string `json:"providerName,omitempty"`

	Constellation   string `json:"constellation"`
	Sensor          string `json:"sensor,omitempty"`
	AcquisitionDate string `json:"acquisitionDate"`

	Resolution        *float64 `json:"resolution"`
	CloudCoverage     *float64 `json:"cloudCoverage"`
	ShapeIntersection *float64 `json:"shapeIntersection"`
	Price             *float64 `json:"price"`

	PreviewURI   string `json:"previewUri"`
	ThumbnailURI string `json:"thumbnailUri"`

	ProviderProperties  ProviderProperties `json:"providerProperties"`
	RawResultProperties json.RawMessage    `json:"rawResultProperties,omitempty"`
}

// Feature is one normalized imagery search result.
type Feature struct {
	Geometry   orb.Polygon
	Properties Properties
}

type featureJSON struct {
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties Properties        `json:"properties"`
}

// MarshalJSON encodes the feature as a GeoJSON Feature.
func (f Feature) MarshalJSON() ([]byte, error) {
	var geom *geojson.Geometry
	if f.Geometry != nil {
		geom = geojson.NewGeometry(f.Geometry)
	}
	return json.Marshal(featureJSON{
		Type:       "Feature",
		Geometry:   geom,
		Properties: f.Properties,
	})
}

// UnmarshalJSON decodes a GeoJSON Feature with a Polygon geometry.
func (f *Feature) UnmarshalJSON(data []byte) error {
	var raw featureJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Properties = raw.Properties
	f.Geometry = nil
	if raw.Geometry == nil {
		return nil
	}
	poly, ok := raw.Geometry.Geometry().(orb.Polygon)
	if !ok {
		return fmt.Errorf("feature geometry must be a Polygon, got %s", raw.Geometry.Type)
	}
	f.Geometry = poly
	return nil
}

// GeoJSON converts the feature into an orb GeoJSON feature.
func (f Feature) GeoJSON() (*geojson.Feature, error) {
	out := geojson.NewFeature(f.Geometry)
	data, err := json.Marshal(f.Properties)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feature properties: %w", err)
	}
	if err := json.Unmarshal(data, &out.Properties); err != nil {
		return nil, fmt.Errorf("failed to convert feature properties: %w", err)
	}
	out.ID = f.Properties.ID
	return out, nil
}

// FallbackID derives a stable id for providers that do not return one.
func FallbackID(provider ProviderID, acquisitionDate string, geometry orb.Geometry) string {
	h := xxhash.New()
	_, _ = h.WriteString(string(provider))
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(acquisitionDate)
	if geometry != nil {
		_, _ = h.WriteString("|")
		_, _ = h.WriteString(wkt.MarshalString(geometry))
	}
	return string(provider) + "-" + strconv.FormatUint(h.Sum64(), 16)
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

// PositiveFloat returns a pointer to v when v > 0, nil otherwise.
func PositiveFloat(v float64) *float64 {
	if v > 0 {
		return &v
	}
	return nil
}
