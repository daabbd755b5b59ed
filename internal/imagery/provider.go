// Package imagery holds the canonical, provider-agnostic search model: search
// settings, the AOI polygon, normalized features and the shared result
// collection.
package imagery

import "fmt"

// ProviderID identifies one imagery catalog provider.
type ProviderID string

const (
	ProviderUP42     ProviderID = "up42"
	ProviderEOS      ProviderID = "eos"
	ProviderHEAD     ProviderID = "head"
	ProviderMaxar    ProviderID = "maxar"
	ProviderOAM      ProviderID = "oam"
	ProviderSkyFi    ProviderID = "skyfi"
	ProviderSkyWatch ProviderID = "skywatch"
	ProviderArlula   ProviderID = "arlula"
	ProviderSTAC     ProviderID = "stac"
)

// AllProviders lists every provider in registry order.
var AllProviders = []ProviderID{
	ProviderUP42,
	ProviderEOS,
	ProviderHEAD,
	ProviderMaxar,
	ProviderOAM,
	ProviderSkyFi,
	ProviderSkyWatch,
	ProviderArlula,
	ProviderSTAC,
}

var providerNames = map[ProviderID]string{
	ProviderUP42:     "UP42",
	ProviderEOS:      "EOS",
	ProviderHEAD:     "HEAD Aerospace",
	ProviderMaxar:    "Maxar",
	ProviderOAM:      "OpenAerialMap",
	ProviderSkyFi:    "SkyFi",
	ProviderSkyWatch: "SkyWatch",
	ProviderArlula:   "Arlula",
	ProviderSTAC:     "STAC",
}

// DisplayName returns the human readable provider name used in notices.
func (p ProviderID) DisplayName() string {
	if name, ok := providerNames[p]; ok {
		return name
	}
	return string(p)
}

// Valid reports whether p is a known provider.
func (p ProviderID) Valid() bool {
	_, ok := providerNames[p]
	return ok
}

// ParseProviderID converts a string into a known ProviderID.
func ParseProviderID(s string) (ProviderID, error) {
	p := ProviderID(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown provider %q", s)
	}
	return p, nil
}
