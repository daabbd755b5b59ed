package backend

import (
	"log/slog"
	"math"

	"github.com/paulmach/orb"

	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/geometry"
	"github.com/robert-malhotra/eo-search/internal/imagery"
	"github.com/robert-malhotra/eo-search/internal/pricing"
)

// Candidate is a provider record after its format step, before the derived
// properties are filled in.
type Candidate struct {
	// Feature carries the geometry and every property read from the payload.
	Feature imagery.Feature

	// Resolution is the provider reported GSD; zero when unknown.
	Resolution float64

	// Overlap is the provider reported AOI overlap percentage.
	Overlap *float64

	// Price is an authoritative provider price.
	Price *float64

	// PriceInfo is a per-record price table, used when Price is nil.
	PriceInfo *pricing.PriceInfo
}

// Normalizer derives constellation, resolution, overlap and price for one provider.
type Normalizer struct {
	catalog  *catalog.Catalog
	provider imagery.ProviderID
	caps     catalog.Capabilities
	logger   *slog.Logger
}

// NewNormalizer creates a normalizer for provider backed by cat.
func NewNormalizer(cat *catalog.Catalog, provider imagery.ProviderID, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Normalizer{
		catalog:  cat,
		provider: provider,
		logger:   logger.With(slog.String("provider", string(provider))),
	}
	if p := cat.Provider(provider); p != nil {
		n.caps = p.Capabilities
	}
	return n
}

// Capabilities returns the catalog capabilities of the provider.
func (n *Normalizer) Capabilities() catalog.Capabilities {
	return n.caps
}

// Normalize fills the derived properties of c against aoi. It depends only
// on its inputs, so normalizing the same record twice yields the same feature.
func (n *Normalizer) Normalize(c Candidate, aoi orb.Polygon) imagery.Feature {
	f := c.Feature
	p := &f.Properties

	p.ProviderPlatform = string(n.provider)
	if p.Provider == "" {
		p.Provider = string(n.provider)
	}
	p.AcquisitionDate = imagery.NormalizeAcquisitionDate(p.AcquisitionDate)
	if p.ID == "" {
		p.ID = imagery.FallbackID(n.provider, p.AcquisitionDate, f.Geometry)
	}

	rawConstellation := p.Constellation
	p.Constellation = n.catalog.Translate(n.provider, rawConstellation)

	p.Resolution = imagery.PositiveFloat(c.Resolution)
	if p.Resolution == nil {
		p.Resolution = n.catalog.GSD(n.provider, rawConstellation)
	}

	p.CloudCoverage = finite(p.CloudCoverage)
	p.ShapeIntersection = n.overlap(c, f, aoi)
	p.Price = n.price(c, f, rawConstellation)

	return f
}

// NormalizeAll normalizes candidates in order.
func (n *Normalizer) NormalizeAll(candidates []Candidate, aoi orb.Polygon) []imagery.Feature {
	out := make([]imagery.Feature, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, n.Normalize(c, aoi))
	}
	return out
}

func (n *Normalizer) overlap(c Candidate, f imagery.Feature, aoi orb.Polygon) *float64 {
	var pct float64
	switch {
	case n.caps.SuppliesOverlap && c.Overlap != nil && !math.IsNaN(*c.Overlap):
		pct = math.Round(*c.Overlap)
	case len(f.Geometry) == 0:
		return nil
	default:
		v, ok := geometry.Overlap(f.Geometry, aoi)
		if !ok {
			return nil
		}
		pct = v
	}

	if pct < 0 || pct > 100 {
		n.logger.Warn("overlap outside [0,100], clamping",
			slog.String("feature_id", f.Properties.ID),
			slog.Float64("overlap", pct),
		)
		pct = geometry.Clamp(pct)
	}
	return &pct
}

func (n *Normalizer) price(c Candidate, f imagery.Feature, rawConstellation string) *float64 {
	switch {
	case n.caps.Free:
		return imagery.Float(0)
	case c.Price != nil:
		return finite(c.Price)
	case n.caps.SuppliesPrice && c.PriceInfo == nil:
		return nil
	case c.PriceInfo != nil:
		return pricing.EstimateFootprint(f.Geometry, c.PriceInfo)
	default:
		return pricing.EstimateFootprint(f.Geometry, n.catalog.Price(n.provider, rawConstellation))
	}
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	out := *v
	return &out
}
