package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidMode is returned for mode designations that do not exist.
var ErrInvalidMode = errors.New("invalid waveguide mode")

// GuideType is the cross-section of a hollow metal waveguide.
type GuideType string

// Supported cross-sections.
const (
	GuideRectangular GuideType = "rectangular"
	GuideCircular    GuideType = "circular"
)

// ParseGuideType validates a guide type name.
func ParseGuideType(s string) (GuideType, error) {
	switch GuideType(s) {
	case GuideRectangular, GuideCircular:
		return GuideType(s), nil
	}
	return "", fmt.Errorf("unknown guide type: %s", s)
}

// ModeType is TE (Ez = 0) or TM (Hz = 0).
type ModeType string

// Mode families.
const (
	ModeTE ModeType = "TE"
	ModeTM ModeType = "TM"
)

// Mode is a waveguide mode designation.
// For rectangular guides M and N count half-wavelengths across the width and
// height. For circular guides M is the azimuthal order and N the radial root.
type Mode struct {
	Type ModeType
	M    int
	N    int
}

// String returns the designation, e.g. "TE10".
func (m Mode) String() string {
	return fmt.Sprintf("%s%d%d", m.Type, m.M, m.N)
}

var modePattern = regexp.MustCompile(`^(TE|TM)(\d)(\d)$`)

// ParseMode parses and validates a designation such as "TE10" for a guide type.
func ParseMode(s string, guide GuideType) (Mode, error) {
	match := modePattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if match == nil {
		return Mode{}, fmt.Errorf("%w: %q (expected TEmn or TMmn)", ErrInvalidMode, s)
	}
	mode := Mode{
		Type: ModeType(match[1]),
		M:    int(match[2][0] - '0'),
		N:    int(match[3][0] - '0'),
	}

	switch guide {
	case GuideCircular:
		if mode.N < 1 {
			return Mode{}, fmt.Errorf("%w: %s has no radial root (second index must be at least 1; circular guides start at TE11 and TM01)", ErrInvalidMode, mode)
		}
	default:
		if mode.Type == ModeTE && mode.M == 0 && mode.N == 0 {
			return Mode{}, fmt.Errorf("%w: TE00 does not propagate in a hollow guide", ErrInvalidMode)
		}
		if mode.Type == ModeTM && (mode.M == 0 || mode.N == 0) {
			return Mode{}, fmt.Errorf("%w: %s requires both indices to be at least 1", ErrInvalidMode, mode)
		}
	}
	return mode, nil
}

// RectangularCutoff returns fc = c/(2π) √((mπ/a)² + (nπ/b)²) for an a×b guide.
func RectangularCutoff(a, b float64, m, n int) float64 {
	kx := float64(m) * math.Pi / a
	ky := float64(n) * math.Pi / b
	return SpeedOfLight / (2 * math.Pi) * math.Sqrt(kx*kx+ky*ky)
}

// CircularCutoff returns fc = c p / (2π r) for a guide of radius r, where p is
// the N-th zero of J_M' (TE) or J_M (TM).
func CircularCutoff(radius float64, mode Mode) float64 {
	p := BesselZero(mode.M, mode.N, mode.Type == ModeTE)
	return SpeedOfLight * p / (2 * math.Pi * radius)
}

// besselPrime returns J_n'(x).
func besselPrime(n int, x float64) float64 {
	if n == 0 {
		return -math.J1(x)
	}
	return 0.5 * (math.Jn(n-1, x) - math.Jn(n+1, x))
}

// BesselZero returns the k-th positive zero of J_n (derivative=false) or
// J_n' (derivative=true), excluding the trivial zero at the origin.
func BesselZero(n, k int, derivative bool) float64 {
	f := func(x float64) float64 {
		if derivative {
			return besselPrime(n, x)
		}
		return math.Jn(n, x)
	}

	const step = 0.05
	found := 0
	x0 := 1e-3
	f0 := f(x0)
	for x1 := x0 + step; x1 < 200; x1 += step {
		f1 := f(x1)
		if f0 == 0 || math.Signbit(f0) != math.Signbit(f1) {
			found++
			if found == k {
				return bisect(f, x0, x1)
			}
		}
		x0, f0 = x1, f1
	}
	return math.NaN()
}

func bisect(f func(float64) float64, lo, hi float64) float64 {
	flo := f(lo)
	for i := 0; i < 80; i++ {
		mid := 0.5 * (lo + hi)
		fm := f(mid)
		if math.Signbit(fm) == math.Signbit(flo) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

// WaveImpedance returns the modal wave impedance in ohms, or +Inf at or below cutoff.
//
//	TE: η0 / √(1 - (fc/f)²)
//	TM: η0 √(1 - (fc/f)²)
func WaveImpedance(modeType ModeType, frequencyHz, cutoffHz float64) float64 {
	if frequencyHz <= cutoffHz {
		return math.Inf(1)
	}
	factor := math.Sqrt(1 - math.Pow(cutoffHz/frequencyHz, 2))
	if modeType == ModeTE {
		return VacuumImpedance / factor
	}
	return VacuumImpedance * factor
}

// WaveguideAnalysis holds the dispersion results for one mode.
type WaveguideAnalysis struct {
	Guide  GuideType
	Width  float64 // a in meters (diameter for circular guides).
	Height float64 // b in meters (unused for circular guides).
	Mode   Mode

	CutoffFrequency  float64 // Hz.
	CutoffWavelength float64 // m.
	Propagating      bool

	// Set when Propagating.
	PropagationConstant float64 // β in rad/m.
	GuideWavelength     float64 // λg in m.
	PhaseVelocity       float64 // m/s.
	GroupVelocity       float64 // m/s.
	Impedance           float64 // ohms.

	// Set when evanescent.
	AttenuationConstant float64 // α in Np/m.
	DecayLength         float64 // 1/α in m, zero exactly at cutoff.
}

// AnalyzeWaveguide evaluates cutoff and dispersion of a mode at the wave frequency.
func AnalyzeWaveguide(wave Wave, guide GuideType, width, height float64, mode Mode) (WaveguideAnalysis, error) {
	if !(width > 0) {
		return WaveguideAnalysis{}, errors.New("guide width must be positive")
	}
	if guide == GuideRectangular && !(height > 0) {
		return WaveguideAnalysis{}, errors.New("guide height must be positive")
	}

	var fc float64
	switch guide {
	case GuideCircular:
		fc = CircularCutoff(width/2, mode)
	default:
		fc = RectangularCutoff(width, height, mode.M, mode.N)
	}

	res := WaveguideAnalysis{
		Guide:            guide,
		Width:            width,
		Height:           height,
		Mode:             mode,
		CutoffFrequency:  fc,
		CutoffWavelength: SpeedOfLight / fc,
	}

	k := wave.AngularFrequency() / SpeedOfLight
	kc := 2 * math.Pi * fc / SpeedOfLight

	if wave.FrequencyHz > fc {
		beta := math.Sqrt(k*k - kc*kc)
		vp := wave.AngularFrequency() / beta
		res.Propagating = true
		res.PropagationConstant = beta
		res.GuideWavelength = 2 * math.Pi / beta
		res.PhaseVelocity = vp
		res.GroupVelocity = SpeedOfLight * SpeedOfLight / vp
		res.Impedance = WaveImpedance(mode.Type, wave.FrequencyHz, fc)
		return res, nil
	}

	alpha := math.Sqrt(kc*kc - k*k)
	res.AttenuationConstant = alpha
	if alpha > 0 {
		res.DecayLength = 1 / alpha
	}
	return res, nil
}

// DispersionPoint is one sample of β(f).
type DispersionPoint struct {
	FrequencyHz float64
	Beta        float64 // Zero below cutoff.
}

// DispersionCurve samples β(f) = (2πf/c) √(1 - (fc/f)²) from 0.5 fc to 2.5 fc.
func DispersionCurve(cutoffHz float64, samples int) []DispersionPoint {
	if samples < 2 {
		samples = 2
	}
	freqs := make([]float64, samples)
	floats.Span(freqs, 0.5*cutoffHz, 2.5*cutoffHz)

	curve := make([]DispersionPoint, samples)
	for i, f := range freqs {
		curve[i].FrequencyHz = f
		if f > cutoffHz {
			curve[i].Beta = 2 * math.Pi * f / SpeedOfLight * math.Sqrt(1-math.Pow(cutoffHz/f, 2))
		}
	}
	return curve
}

// ModeFieldMagnitude samples |E| of a mode over the guide cross-section.
// Rectangular grids span [0,a]×[0,b]; circular grids span the bounding square
// of the disc and are zero outside the wall.
func ModeFieldMagnitude(guide GuideType, width, height float64, mode Mode, amplitude float64, resolution int) Grid {
	if guide == GuideCircular {
		return circularModeField(width/2, mode, amplitude, resolution)
	}
	return rectangularModeField(width, height, mode, amplitude, resolution)
}

func rectangularModeField(a, b float64, mode Mode, amplitude float64, resolution int) Grid {
	g := NewGrid(0, a, resolution, 0, b, resolution)
	kxm := float64(mode.M) * math.Pi / a
	kyn := float64(mode.N) * math.Pi / b
	kc2 := kxm*kxm + kyn*kyn

	for i, y := range g.Y {
		for j, x := range g.X {
			var ex, ey, ez float64
			if mode.Type == ModeTE {
				ey = amplitude * math.Sin(kxm*x) * math.Cos(kyn*y)
				ex = -amplitude * math.Cos(kxm*x) * math.Sin(kyn*y)
			} else {
				// Transverse field is -∇t Ez / kc².
				ez = amplitude * math.Sin(kxm*x) * math.Sin(kyn*y)
				ex = -kxm / kc2 * amplitude * math.Cos(kxm*x) * math.Sin(kyn*y)
				ey = -kyn / kc2 * amplitude * math.Sin(kxm*x) * math.Cos(kyn*y)
			}
			g.Values[i][j] = math.Sqrt(ex*ex + ey*ey + ez*ez)
		}
	}
	return g
}

func circularModeField(radius float64, mode Mode, amplitude float64, resolution int) Grid {
	g := NewGrid(-radius, radius, resolution, -radius, radius, resolution)
	n := mode.M
	p := BesselZero(n, mode.N, mode.Type == ModeTE)
	kc := p / radius
	nf := float64(n)

	for i, y := range g.Y {
		for j, x := range g.X {
			rho := math.Hypot(x, y)
			if rho > radius {
				continue
			}
			if rho < 1e-9*radius {
				rho = 1e-9 * radius
			}
			phi := math.Atan2(y, x)
			jn := math.Jn(n, kc*rho)
			jnp := besselPrime(n, kc*rho)

			var er, ephi, ez float64
			if mode.Type == ModeTE {
				er = amplitude * nf / (kc * rho) * jn * math.Sin(nf*phi)
				ephi = amplitude * jnp * math.Cos(nf*phi)
			} else {
				ez = amplitude * jn * math.Cos(nf*phi)
				er = -amplitude / kc * jnp * math.Cos(nf*phi)
				ephi = amplitude * nf / (kc * kc * rho) * jn * math.Sin(nf*phi)
			}
			g.Values[i][j] = math.Sqrt(er*er + ephi*ephi + ez*ez)
		}
	}
	return g
}

// EvanescentProfile samples A e^{-αz} over five free-space wavelengths.
func EvanescentProfile(wave Wave, alpha float64, samples int) (z, e []float64) {
	z = make([]float64, samples)
	floats.Span(z, 0, 5*wave.Wavelength())
	e = make([]float64, samples)
	for i, zi := range z {
		e[i] = wave.Amplitude * math.Exp(-alpha*zi)
	}
	return z, e
}
