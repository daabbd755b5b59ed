package skyfi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/robert-malhotra/eo-search/internal/backend"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/pricing"
	"github.com/robert-malhotra/eo-search/pkg/geojson"
)

func toCandidate(a *Archive) (backend.Candidate, error) {
	footprint, err := geojson.FromWKT(a.Footprint)
	if err != nil {
		return backend.Candidate{}, fmt.Errorf("invalid footprint: %w", err)
	}

	var info *pricing.PriceInfo
	if a.PriceForOneSquareKm != nil {
		info = &pricing.PriceInfo{PricePerSqKm: *a.PriceForOneSquareKm, MinAreaSqKm: a.MinSqKm}
	}

	provider := string(imagery.ProviderSkyFi)
	if a.Provider != "" {
		provider += "/" + strings.ToLower(a.Provider)
	}

	thumb := largestThumbnail(a.ThumbnailURLs)
	constellation := a.Constellation
	if constellation == "" {
		constellation = a.Provider
	}

	return backend.Candidate{
		Feature: imagery.Feature{
			Geometry: footprint,
			Properties: imagery.Properties{
				ID:              a.ArchiveID,
				Provider:        provider,
				ProviderName:    a.Provider,
				Constellation:   constellation,
				Sensor:          a.ProductType,
				AcquisitionDate: a.CaptureTimestamp,
				CloudCoverage:   a.CloudCoveragePercent,
				PreviewURI:      thumb,
				ThumbnailURI:    thumb,
				ProviderProperties: imagery.ProviderProperties{
					IncidenceAngle: a.OffNadirAngle,
				},
				RawResultProperties: a.raw(),
			},
		},
		Resolution: a.GSD,
		PriceInfo:  info,
	}, nil
}

// largestThumbnail picks the URL of the "WxH" key with the most pixels.
// Keys that are not dimensions rank last.
func largestThumbnail(urls map[string]string) string {
	if len(urls) == 0 {
		return ""
	}
	keys := make([]string, 0, len(urls))
	for k := range urls {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ai, aj := pixels(keys[i]), pixels(keys[j])
		if ai != aj {
			return ai > aj
		}
		return keys[i] > keys[j]
	})
	return urls[keys[0]]
}

func pixels(key string) int {
	w, h, ok := strings.Cut(strings.ToLower(key), "x")
	if !ok {
		return 0
	}
	wi, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return 0
	}
	hi, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0
	}
	return wi * hi
}
