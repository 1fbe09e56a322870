package domain

import (
	"math"
	"sort"
	"strings"
)

// Medium describes a linear, isotropic medium.
type Medium struct {
	Name                 string
	RelativePermittivity float64 // εr (dimensionless).
	RelativePermeability float64 // μr (dimensionless).
	Conductivity         float64 // σ in S/m. Reported only, formulas assume lossless media.
}

// NewMedium returns a non-magnetic, lossless medium.
func NewMedium(name string, relativePermittivity float64) Medium {
	return Medium{
		Name:                 name,
		RelativePermittivity: relativePermittivity,
		RelativePermeability: 1.0,
	}
}

// RefractiveIndex returns n = √(εr μr).
func (m Medium) RefractiveIndex() float64 {
	return math.Sqrt(m.RelativePermittivity * m.relativePermeability())
}

// WaveSpeed returns the phase velocity c/n in m/s.
func (m Medium) WaveSpeed() float64 {
	return SpeedOfLight / m.RefractiveIndex()
}

// Impedance returns Z = Z0 √(μr/εr) in ohms.
func (m Medium) Impedance() float64 {
	return VacuumImpedance * math.Sqrt(m.relativePermeability()/m.RelativePermittivity)
}

// Valid reports whether the medium has positive material constants.
func (m Medium) Valid() bool {
	return m.Name != "" && m.RelativePermittivity > 0 && m.relativePermeability() > 0 && m.Conductivity >= 0
}

func (m Medium) relativePermeability() float64 {
	if m.RelativePermeability == 0 {
		return 1.0
	}
	return m.RelativePermeability
}

// StandardMedia contains the built-in dielectric catalogue.
var StandardMedia = map[string]Medium{
	// Dry air at STP.
	"Air": NewMedium("Air", 1.00059),
	// Fresh water at microwave frequencies.
	"Water": NewMedium("Water", 80.0),
	// Crown glass, n = 1.5.
	"Glass": NewMedium("Glass", 2.25),
	// n ≈ 2.417.
	"Diamond": NewMedium("Diamond", 5.84),
}

// GetMedium looks up a built-in medium by name, ignoring case.
func GetMedium(name string) (Medium, bool) {
	if m, ok := StandardMedia[name]; ok {
		return m, true
	}
	for key, m := range StandardMedia {
		if strings.EqualFold(key, name) {
			return m, true
		}
	}
	return Medium{}, false
}

// GetAllMedia returns the built-in media sorted by refractive index.
func GetAllMedia() []Medium {
	media := make([]Medium, 0, len(StandardMedia))
	for _, m := range StandardMedia {
		media = append(media, m)
	}
	sort.Slice(media, func(i, j int) bool {
		return media[i].RefractiveIndex() < media[j].RefractiveIndex()
	})
	return media
}
