package domain

import (
	"errors"
	"math"
)

// ErrSuperluminal is returned when a source velocity reaches or exceeds c.
var ErrSuperluminal = errors.New("velocity cannot exceed speed of light")

// ShiftKind classifies the sign of a Doppler shift.
type ShiftKind string

const (
	// BlueShift is an increase in observed frequency (approaching source).
	BlueShift ShiftKind = "blue"
	// RedShift is a decrease in observed frequency (receding source).
	RedShift ShiftKind = "red"
	// NoShift is a stationary source.
	NoShift ShiftKind = "none"
)

// DopplerShift is the longitudinal relativistic Doppler result.
type DopplerShift struct {
	SourceVelocity     float64 // m/s, positive when approaching.
	Beta               float64 // v/c.
	Gamma              float64 // 1/√(1-β²).
	SourceFrequency    float64 // Hz.
	ObservedFrequency  float64 // Hz.
	ObservedWavelength float64 // m.
	FrequencyShift     float64 // f' - f in Hz.
	RelativeShift      float64 // (f' - f)/f.
	Kind               ShiftKind
}

// RelativisticDoppler computes the observed frequency for a source moving
// along the line of sight with velocity v (positive = approaching).
//
//	approaching: f' = f √((1+β)/(1-β))
//	receding:    f' = f √((1-|β|)/(1+|β|))
func RelativisticDoppler(frequencyHz, velocity float64) (DopplerShift, error) {
	beta := velocity / SpeedOfLight
	if math.Abs(beta) >= 1.0 || math.IsNaN(beta) {
		return DopplerShift{SourceVelocity: velocity}, ErrSuperluminal
	}

	var observed float64
	kind := NoShift
	switch {
	case velocity > 0:
		observed = frequencyHz * math.Sqrt((1+beta)/(1-beta))
		kind = BlueShift
	case velocity < 0:
		ab := math.Abs(beta)
		observed = frequencyHz * math.Sqrt((1-ab)/(1+ab))
		kind = RedShift
	default:
		observed = frequencyHz
	}

	return DopplerShift{
		SourceVelocity:     velocity,
		Beta:               beta,
		Gamma:              1 / math.Sqrt(1-beta*beta),
		SourceFrequency:    frequencyHz,
		ObservedFrequency:  observed,
		ObservedWavelength: SpeedOfLight / observed,
		FrequencyShift:     observed - frequencyHz,
		RelativeShift:      (observed - frequencyHz) / frequencyHz,
		Kind:               kind,
	}, nil
}
