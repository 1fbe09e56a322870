// Package domain holds the electromagnetic wave physics used by the visualizer.
// Every function here is a closed-form evaluation without shared state.
package domain

import (
	"errors"
	"math"
)

// Physical constants in SI units.
const (
	// SpeedOfLight is c in m/s (exact).
	SpeedOfLight = 299792458.0
	// VacuumPermittivity is ε0 in F/m.
	VacuumPermittivity = 8.854187817e-12
	// VacuumPermeability is μ0 in H/m.
	VacuumPermeability = 1.25663706212e-6
	// VacuumImpedance is η0 in ohms.
	VacuumImpedance = 376.730313668
)

// Wave holds the source parameters of a monochromatic wave.
type Wave struct {
	FrequencyHz float64 // Source frequency in Hz.
	Amplitude   float64 // Electric field amplitude in V/m.
}

// NewWave validates and returns a wave.
func NewWave(frequencyHz, amplitude float64) (Wave, error) {
	if !(frequencyHz > 0) || math.IsInf(frequencyHz, 0) {
		return Wave{}, errors.New("frequency must be positive")
	}
	if !(amplitude > 0) || math.IsInf(amplitude, 0) {
		return Wave{}, errors.New("amplitude must be positive")
	}
	return Wave{FrequencyHz: frequencyHz, Amplitude: amplitude}, nil
}

// Wavelength returns λ = c/f in meters.
func (w Wave) Wavelength() float64 {
	return SpeedOfLight / w.FrequencyHz
}

// WaveNumber returns k = 2π/λ in rad/m.
func (w Wave) WaveNumber() float64 {
	return 2 * math.Pi / w.Wavelength()
}

// AngularFrequency returns ω = 2πf in rad/s.
func (w Wave) AngularFrequency() float64 {
	return 2 * math.Pi * w.FrequencyHz
}

// Period returns T = 1/f in seconds.
func (w Wave) Period() float64 {
	return 1.0 / w.FrequencyHz
}

// MagneticAmplitude returns B0 = E0/c in tesla.
func (w Wave) MagneticAmplitude() float64 {
	return w.Amplitude / SpeedOfLight
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
