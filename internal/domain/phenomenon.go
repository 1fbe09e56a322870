package domain

import "fmt"

// Phenomenon identifies one of the visualized wave phenomena.
type Phenomenon string

// Supported phenomena.
const (
	PhenomenonPlaneWave    Phenomenon = "plane_wave"
	PhenomenonStandingWave Phenomenon = "standing_wave"
	PhenomenonReflection   Phenomenon = "reflection"
	PhenomenonInterference Phenomenon = "interference"
	PhenomenonDoppler      Phenomenon = "doppler"
	PhenomenonPolarization Phenomenon = "polarization"
	PhenomenonDipole       Phenomenon = "dipole"
	PhenomenonWaveguide    Phenomenon = "waveguide"
)

// Phenomena lists every phenomenon in menu order.
var Phenomena = []Phenomenon{
	PhenomenonPlaneWave, PhenomenonStandingWave, PhenomenonReflection, PhenomenonInterference,
	PhenomenonDoppler, PhenomenonPolarization, PhenomenonDipole, PhenomenonWaveguide,
}

var phenomenonTitles = map[Phenomenon]string{
	PhenomenonPlaneWave:    "Plane Wave Propagation",
	PhenomenonStandingWave: "Standing Waves",
	PhenomenonReflection:   "Reflection and Refraction",
	PhenomenonInterference: "Wave Interference",
	PhenomenonDoppler:      "Relativistic Doppler Effect",
	PhenomenonPolarization: "Wave Polarization",
	PhenomenonDipole:       "Dipole Antenna Radiation",
	PhenomenonWaveguide:    "Waveguide Modes",
}

// ParsePhenomenon validates a phenomenon name.
func ParsePhenomenon(s string) (Phenomenon, error) {
	p := Phenomenon(s)
	if _, ok := phenomenonTitles[p]; !ok {
		return "", fmt.Errorf("unknown phenomenon: %s", s)
	}
	return p, nil
}

// Title returns the display title.
func (p Phenomenon) Title() string {
	if t, ok := phenomenonTitles[p]; ok {
		return t
	}
	return string(p)
}

// HasFieldGrid reports whether the phenomenon produces a 2-D field map.
func (p Phenomenon) HasFieldGrid() bool {
	switch p {
	case PhenomenonReflection, PhenomenonInterference, PhenomenonWaveguide:
		return true
	}
	return false
}
