package head

import (
	"hash/crc32"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

// checksumStart marks the first byte covered by the request checksum.
const checksumStart = "category="

// BuildQuery assembles the signed query string. Parameter order is fixed:
// the server recomputes the checksum over the same bytes.
func BuildQuery(category string, s imagery.SearchSettings, aoi orb.Polygon, satellites []string) string {
	var b strings.Builder
	b.WriteString(checksumStart)
	b.WriteString(category)
	b.WriteString("&aoi=")
	b.WriteString(geojson.ToLatLonPolygon(aoi))
	b.WriteString("&datestart=")
	b.WriteString(imagery.FormatDay(s.StartDate.AddDate(0, 0, -1)))
	b.WriteString("&dateend=")
	b.WriteString(imagery.FormatDay(s.EndDate.AddDate(0, 0, -1)))
	b.WriteString("&cloudmax=")
	b.WriteString(strconv.FormatFloat(s.CloudCoverage, 'f', -1, 64))
	b.WriteString("&offnadirmax=")
	b.WriteString(strconv.FormatFloat(s.OffNadirAngle.Max, 'f', -1, 64))
	b.WriteString("&satellites=")
	b.WriteString(strings.Join(satellites, "$"))

	return Sign(b.String())
}

// Checksum returns the CRC-32 (IEEE) of the signed part of query: from
// "category=" up to, not including, "&cs=".
func Checksum(query string) uint32 {
	start := strings.Index(query, checksumStart)
	if start < 0 {
		start = 0
	}
	signed := query[start:]
	if end := strings.Index(signed, "&cs="); end >= 0 {
		signed = signed[:end]
	}
	return crc32.ChecksumIEEE([]byte(signed))
}

// Sign appends the checksum parameter as an unsigned decimal.
func Sign(query string) string {
	return query + "&cs=" + strconv.FormatUint(uint64(Checksum(query)), 10)
}
