package domain

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// PolarizationType is the shape traced by the electric field vector.
type PolarizationType string

// Supported polarization states.
const (
	PolarizationLinear     PolarizationType = "linear"
	PolarizationCircular   PolarizationType = "circular"
	PolarizationElliptical PolarizationType = "elliptical"
)

// ParsePolarizationType validates a polarization type name.
func ParsePolarizationType(s string) (PolarizationType, error) {
	switch PolarizationType(s) {
	case PolarizationLinear, PolarizationCircular, PolarizationElliptical:
		return PolarizationType(s), nil
	}
	return "", fmt.Errorf("unknown polarization type: %s", s)
}

// Handedness is the rotation sense of the field vector.
type Handedness string

// Rotation senses. A positive S3 is reported as left-handed.
const (
	HandLeft  Handedness = "left"
	HandRight Handedness = "right"
	HandNone  Handedness = "none"
)

// Polarization is a polarization ellipse with semi-axes Major ≥ Minor whose
// major axis is rotated by Angle (radians) from the x axis.
type Polarization struct {
	Type  PolarizationType
	Angle float64
	Major float64
	Minor float64
}

// NewPolarization builds the ellipse for a type and orientation. Elliptical
// states use a minor axis of half the amplitude.
func NewPolarization(t PolarizationType, angle, amplitude float64) Polarization {
	p := Polarization{Type: t, Angle: angle, Major: amplitude}
	switch t {
	case PolarizationCircular:
		p.Minor = amplitude
	case PolarizationElliptical:
		p.Minor = amplitude / 2
	}
	return p
}

// Jones returns the complex field components (Jx, Jy) with
// E(φ) = Re[J e^{-iφ}], φ = kz - ωt.
func (p Polarization) Jones() (complex128, complex128) {
	c, s := math.Cos(p.Angle), math.Sin(p.Angle)
	jx := complex(p.Major*c, -p.Minor*s)
	jy := complex(p.Major*s, p.Minor*c)
	return jx, jy
}

// Field returns (Ex, Ey) at phase φ.
func (p Polarization) Field(phase float64) (float64, float64) {
	jx, jy := p.Jones()
	rot := cmplx.Exp(complex(0, -phase))
	return real(jx * rot), real(jy * rot)
}

// Stokes holds the Stokes parameters of a fully polarized state and the
// ellipse quantities derived from them.
type Stokes struct {
	S0, S1, S2, S3 float64

	OrientationDeg float64 // ψ in [0, 180).
	EllipticityDeg float64 // χ in [-45, 45].
	AxialRatio     float64 // Minor/major, 0 for linear and 1 for circular.
	DegreeCircular float64 // S3/S0.
	Handedness     Handedness
}

// Stokes evaluates the Stokes parameters from the Jones vector.
func (p Polarization) Stokes() Stokes {
	jx, jy := p.Jones()
	ax, ay := cmplx.Abs(jx), cmplx.Abs(jy)
	cross := cmplx.Conj(jx) * jy

	st := Stokes{
		S0: ax*ax + ay*ay,
		S1: ax*ax - ay*ay,
		S2: 2 * real(cross),
		S3: 2 * imag(cross),
	}
	if st.S0 == 0 {
		st.Handedness = HandNone
		return st
	}

	psi := 0.5 * math.Atan2(st.S2, st.S1)
	if psi < 0 {
		psi += math.Pi
	}
	ratio := math.Max(-1, math.Min(1, st.S3/st.S0))
	chi := 0.5 * math.Asin(ratio)

	st.OrientationDeg = Rad2Deg(psi)
	st.EllipticityDeg = Rad2Deg(chi)
	st.AxialRatio = math.Abs(math.Tan(chi))
	st.DegreeCircular = ratio

	const tol = 1e-12
	switch {
	case ratio > tol:
		st.Handedness = HandLeft
	case ratio < -tol:
		st.Handedness = HandRight
	default:
		st.Handedness = HandNone
	}
	return st
}

// PolarizationTrace samples the field vector along z or t.
type PolarizationTrace struct {
	Axis []float64 // z in m or t in s.
	Ex   []float64
	Ey   []float64
}

// SpatialTrace samples E over two wavelengths at t = 0.
func (p Polarization) SpatialTrace(wave Wave, samples int) PolarizationTrace {
	tr := newTrace(samples)
	floats.Span(tr.Axis, 0, 2*wave.Wavelength())
	k := wave.WaveNumber()
	for i, z := range tr.Axis {
		tr.Ex[i], tr.Ey[i] = p.Field(k * z)
	}
	return tr
}

// TemporalTrace samples E at z = 0 over two periods.
func (p Polarization) TemporalTrace(wave Wave, samples int) PolarizationTrace {
	tr := newTrace(samples)
	floats.Span(tr.Axis, 0, 2*wave.Period())
	w := wave.AngularFrequency()
	for i, t := range tr.Axis {
		tr.Ex[i], tr.Ey[i] = p.Field(-w * t)
	}
	return tr
}

func newTrace(samples int) PolarizationTrace {
	if samples < 2 {
		samples = 2
	}
	return PolarizationTrace{
		Axis: make([]float64, samples),
		Ex:   make([]float64, samples),
		Ey:   make([]float64, samples),
	}
}
