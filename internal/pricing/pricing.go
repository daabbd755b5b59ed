// Package pricing estimates archive imagery cost from footprint area.
package pricing

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/geometry"
)

// PriceInfo is the price table entry of one constellation.
type PriceInfo struct {
	PricePerSqKm float64 `json:"pricePerSqKm"`
	MinAreaSqKm  float64 `json:"minAreaSqKm"`
}

// Estimate returns round(max(areaSqM/1e6, MinAreaSqKm) * PricePerSqKm).
// A nil table entry yields nil.
func Estimate(areaSqM float64, info *PriceInfo) *float64 {
	if info == nil || math.IsNaN(areaSqM) {
		return nil
	}
	billable := math.Max(areaSqM/1e6, info.MinAreaSqKm)
	price := math.Round(billable * info.PricePerSqKm)
	return &price
}

// EstimateFootprint prices a footprint polygon.
func EstimateFootprint(footprint orb.Polygon, info *PriceInfo) *float64 {
	if info == nil {
		return nil
	}
	return Estimate(geometry.Area(footprint), info)
}

// Table maps constellation names to prices.
type Table map[string]PriceInfo

// Lookup returns the entry for a constellation, or nil.
func (t Table) Lookup(constellation string) *PriceInfo {
	info, ok := t[constellation]
	if !ok {
		return nil
	}
	return &info
}
