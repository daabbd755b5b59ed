package maxar

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

const sqlTimestamp = "2006-01-02 15:04:05"

// Where builds the SQL filter of the ImageServer query.
func Where(s imagery.SearchSettings, vehicles []string) string {
	clauses := []string{
		fmt.Sprintf("acquisition_date >= timestamp '%s'", s.StartDate.UTC().Format(sqlTimestamp)),
		fmt.Sprintf("acquisition_date <= timestamp '%s'", s.EndDate.UTC().Format(sqlTimestamp)),
		"cloud_cover <= " + formatNumber(s.CloudCoverage/100),
		"off_nadir_avg >= " + formatNumber(s.OffNadirAngle.Min),
		"off_nadir_avg <= " + formatNumber(s.OffNadirAngle.Max),
		"sun_elevation_avg >= " + formatNumber(s.SunElevation.Min),
		"sun_elevation_avg <= " + formatNumber(s.SunElevation.Max),
	}

	quoted := make([]string, len(vehicles))
	for i, v := range vehicles {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	clauses = append(clauses, "vehicle_name IN ("+strings.Join(quoted, ",")+")")

	return strings.Join(clauses, " AND ")
}

// BuildForm returns the form body of one query page.
func BuildForm(s imagery.SearchSettings, aoi orb.Polygon, vehicles []string, offset int) (url.Values, error) {
	geometry, err := json.Marshal(geojson.ToEsri(aoi))
	if err != nil {
		return nil, fmt.Errorf("failed to encode esri geometry: %w", err)
	}

	sr := strconv.Itoa(geojson.WGS84)
	form := url.Values{}
	form.Set("where", Where(s, vehicles))
	form.Set("geometry", string(geometry))
	form.Set("geometryType", "esriGeometryPolygon")
	form.Set("spatialRel", "esriSpatialRelIntersects")
	form.Set("inSR", sr)
	form.Set("outSR", sr)
	form.Set("outFields", "*")
	form.Set("returnGeometry", "true")
	form.Set("f", "json")
	if offset > 0 {
		form.Set("resultOffset", strconv.Itoa(offset))
	}
	return form, nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
