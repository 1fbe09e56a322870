package domain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// halfWaveResistance is the textbook radiation resistance of a thin
// half-wave dipole in ohms.
const halfWaveResistance = 73.13

// patternEpsilon keeps the pattern denominators finite along the dipole axis.
const patternEpsilon = 1e-10

// CurrentDistribution names the assumed current profile along the dipole.
type CurrentDistribution string

// Supported current distributions.
const (
	CurrentUniform    CurrentDistribution = "uniform"
	CurrentSinusoidal CurrentDistribution = "sinusoidal"
	CurrentTriangular CurrentDistribution = "triangular"
)

// ParseCurrentDistribution validates a current distribution name.
func ParseCurrentDistribution(s string) (CurrentDistribution, error) {
	switch CurrentDistribution(s) {
	case CurrentUniform, CurrentSinusoidal, CurrentTriangular:
		return CurrentDistribution(s), nil
	}
	return "", fmt.Errorf("unknown current distribution: %s", s)
}

// DipoleView selects which cut of the radiation pattern is shown.
type DipoleView string

// Supported dipole views.
const (
	DipoleView3D        DipoleView = "3d"
	DipoleViewElevation DipoleView = "2d_elevation"
	DipoleViewAzimuth   DipoleView = "2d_azimuth"
)

// ParseDipoleView validates a view name.
func ParseDipoleView(s string) (DipoleView, error) {
	switch DipoleView(s) {
	case DipoleView3D, DipoleViewElevation, DipoleViewAzimuth:
		return DipoleView(s), nil
	}
	return "", fmt.Errorf("unknown view type: %s", s)
}

// DipoleRegime is the approximation used for the pattern function.
type DipoleRegime string

// Pattern regimes.
const (
	RegimeShort    DipoleRegime = "short"
	RegimeHalfWave DipoleRegime = "half_wave"
	RegimeGeneral  DipoleRegime = "general"
)

// PatternRegime picks the pattern approximation for a dipole of the given
// length in wavelengths.
func PatternRegime(lengthWavelengths float64) DipoleRegime {
	switch {
	case math.Abs(lengthWavelengths-0.5) < 0.1:
		return RegimeHalfWave
	case lengthWavelengths < 0.1:
		return RegimeShort
	default:
		return RegimeGeneral
	}
}

// RadiationResistance returns the radiation resistance in ohms of a centre-fed
// dipole of the given length in wavelengths.
//
//	L/λ ≤ 0.1:          20 (π L/λ)²
//	|L/λ - 0.5| < 0.01: 73.13 Ω
//	otherwise:          80 (π L/λ)²
func RadiationResistance(lengthWavelengths float64) float64 {
	switch {
	case lengthWavelengths <= 0.1:
		return 20 * math.Pow(math.Pi*lengthWavelengths, 2)
	case math.Abs(lengthWavelengths-0.5) < 0.01:
		return halfWaveResistance
	default:
		return 80 * math.Pow(math.Pi*lengthWavelengths, 2)
	}
}

// PatternFactor returns the unnormalized far-field pattern |F(θ)| of a dipole
// along the z axis. θ is the polar angle from the dipole axis.
func PatternFactor(theta, lengthWavelengths float64) float64 {
	switch PatternRegime(lengthWavelengths) {
	case RegimeHalfWave:
		return math.Abs(math.Cos(math.Pi/2*math.Cos(theta)) / (math.Sin(theta) + patternEpsilon))
	case RegimeShort:
		return math.Abs(math.Sin(theta))
	default:
		// kL/2 = π L/λ.
		half := math.Pi * lengthWavelengths
		return math.Abs((math.Cos(half*math.Cos(theta)) - math.Cos(half)) / (math.Sin(theta) + patternEpsilon))
	}
}

// PatternCut samples the normalized pattern on θ ∈ [0, π].
func PatternCut(lengthWavelengths float64, samples int) (theta, pattern []float64) {
	if samples < 3 {
		samples = 3
	}
	theta = make([]float64, samples)
	floats.Span(theta, 0, math.Pi)

	pattern = make([]float64, samples)
	for i, th := range theta {
		pattern[i] = PatternFactor(th, lengthWavelengths)
	}
	if peak := floats.Max(pattern); peak > 0 {
		floats.Scale(1/peak, pattern)
	}
	return theta, pattern
}

// Directivity integrates the normalized pattern over the sphere:
// D = 2 / ∫ F²(θ) sin θ dθ.
func Directivity(lengthWavelengths float64) float64 {
	// Odd sample count keeps Simpson's rule exact on the end points.
	theta, pattern := PatternCut(lengthWavelengths, 2001)
	integrand := make([]float64, len(theta))
	for i := range theta {
		integrand[i] = pattern[i] * pattern[i] * math.Sin(theta[i])
	}
	total := integrate.Simpsons(theta, integrand)
	if total <= 0 {
		return 0
	}
	return 2 / total
}

// DecibelsIsotropic converts a linear directivity to dBi.
func DecibelsIsotropic(d float64) float64 {
	return 10 * math.Log10(d)
}

// DipoleAnalysis summarises a dipole antenna.
type DipoleAnalysis struct {
	LengthWavelengths   float64
	Length              float64 // meters.
	RadiationResistance float64 // ohms.
	Directivity         float64
	DirectivityDBi      float64
	Regime              DipoleRegime
	Current             CurrentDistribution
}

// AnalyzeDipole evaluates the dipole formulas for a given wave.
func AnalyzeDipole(wave Wave, lengthWavelengths float64, current CurrentDistribution) DipoleAnalysis {
	d := Directivity(lengthWavelengths)
	return DipoleAnalysis{
		LengthWavelengths:   lengthWavelengths,
		Length:              lengthWavelengths * wave.Wavelength(),
		RadiationResistance: RadiationResistance(lengthWavelengths),
		Directivity:         d,
		DirectivityDBi:      DecibelsIsotropic(d),
		Regime:              PatternRegime(lengthWavelengths),
		Current:             current,
	}
}
