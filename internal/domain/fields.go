package domain

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// Grid is a regular 2D sample grid. Values[i][j] is the sample at (X[j], Y[i]).
type Grid struct {
	X      []float64
	Y      []float64
	Values [][]float64
}

// NewGrid allocates a zeroed nx×ny grid spanning [x0,x1]×[y0,y1].
func NewGrid(x0, x1 float64, nx int, y0, y1 float64, ny int) Grid {
	if nx < 2 {
		nx = 2
	}
	if ny < 2 {
		ny = 2
	}
	g := Grid{
		X:      make([]float64, nx),
		Y:      make([]float64, ny),
		Values: make([][]float64, ny),
	}
	floats.Span(g.X, x0, x1)
	floats.Span(g.Y, y0, y1)
	for i := range g.Values {
		g.Values[i] = make([]float64, nx)
	}
	return g
}

// MaxAbs returns the largest absolute sample.
func (g Grid) MaxAbs() float64 {
	m := 0.0
	for _, row := range g.Values {
		for _, v := range row {
			if a := math.Abs(v); a > m {
				m = a
			}
		}
	}
	return m
}

// Column returns the samples at X[j] along Y.
func (g Grid) Column(j int) []float64 {
	col := make([]float64, len(g.Y))
	for i := range g.Values {
		col[i] = g.Values[i][j]
	}
	return col
}

// PlaneWaveProfile is a snapshot of a vacuum plane wave at t = 0.
type PlaneWaveProfile struct {
	X              []float64 // m.
	E              []float64 // V/m.
	B              []float64 // T.
	ElectricEnergy []float64 // J/m³.
	MagneticEnergy []float64 // J/m³.
	TotalEnergy    []float64 // J/m³.
}

// SamplePlaneWave samples E = E0 sin(kx), B = E/c and the energy densities
// over three wavelengths.
func SamplePlaneWave(wave Wave, samples int) PlaneWaveProfile {
	return SamplePlaneWaveAt(wave, 0, samples)
}

// SamplePlaneWaveAt samples E = E0 sin(kx - ωt) at time t.
func SamplePlaneWaveAt(wave Wave, t float64, samples int) PlaneWaveProfile {
	p := PlaneWaveProfile{
		X:              make([]float64, samples),
		E:              make([]float64, samples),
		B:              make([]float64, samples),
		ElectricEnergy: make([]float64, samples),
		MagneticEnergy: make([]float64, samples),
		TotalEnergy:    make([]float64, samples),
	}
	floats.Span(p.X, 0, 3*wave.Wavelength())

	k := wave.WaveNumber()
	phase := wave.AngularFrequency() * t
	for i, x := range p.X {
		e := wave.Amplitude * math.Sin(k*x-phase)
		b := e / SpeedOfLight
		p.E[i] = e
		p.B[i] = b
		p.ElectricEnergy[i] = 0.5 * VacuumPermittivity * e * e
		p.MagneticEnergy[i] = 0.5 * b * b / VacuumPermeability
		p.TotalEnergy[i] = p.ElectricEnergy[i] + p.MagneticEnergy[i]
	}
	return p
}

// StandingWave holds samples of E(x,t) = 2E0 cos(kx) cos(ωt) in a cavity of
// length 2.5λ.
type StandingWave struct {
	CavityLength  float64
	X             []float64
	Times         []float64
	Snapshots     [][]float64 // Snapshots[i] is E(x, Times[i]).
	Envelope      []float64   // 2E0 |cos(kx)|.
	EnergyDensity []float64   // Time-averaged (ε0/2) envelope², J/m³.
	Nodes         []float64   // Zero-amplitude positions.
	Antinodes     []float64   // Maximum-amplitude positions.
}

// SampleStandingWave samples the standing wave at `steps` instants over one period.
func SampleStandingWave(wave Wave, samples, steps int) StandingWave {
	lambda := wave.Wavelength()
	length := 2.5 * lambda
	sw := StandingWave{
		CavityLength:  length,
		X:             make([]float64, samples),
		Times:         make([]float64, steps),
		Snapshots:     make([][]float64, steps),
		Envelope:      make([]float64, samples),
		EnergyDensity: make([]float64, samples),
	}
	floats.Span(sw.X, 0, length)
	floats.Span(sw.Times, 0, wave.Period())

	k := wave.WaveNumber()
	for i, x := range sw.X {
		env := 2 * wave.Amplitude * math.Abs(math.Cos(k*x))
		sw.Envelope[i] = env
		sw.EnergyDensity[i] = VacuumPermittivity / 2 * env * env
	}
	for s, t := range sw.Times {
		sw.Snapshots[s] = StandingWaveAt(wave, sw.X, t)
	}

	sw.Nodes, sw.Antinodes = StandingWaveNodes(lambda, length)
	return sw
}

// StandingWaveAt evaluates 2E0 cos(kx) cos(ωt) at the given positions.
func StandingWaveAt(wave Wave, x []float64, t float64) []float64 {
	k := wave.WaveNumber()
	ct := math.Cos(wave.AngularFrequency() * t)
	out := make([]float64, len(x))
	for i, xi := range x {
		out[i] = 2 * wave.Amplitude * math.Cos(k*xi) * ct
	}
	return out
}

// StandingWaveNodes returns the nodes (cos kx = 0, at odd multiples of λ/4)
// and antinodes (multiples of λ/2) inside [0, length].
func StandingWaveNodes(lambda, length float64) (nodes, antinodes []float64) {
	const tol = 1e-12
	for i := 0; ; i++ {
		x := float64(2*i+1) * lambda / 4
		if x > length*(1+tol) {
			break
		}
		nodes = append(nodes, x)
	}
	for i := 0; ; i++ {
		x := float64(i) * lambda / 2
		if x > length*(1+tol) {
			break
		}
		antinodes = append(antinodes, x)
	}
	return nodes, antinodes
}

// ReflectionFieldMap samples the TE electric field around a planar interface
// at y = 0 on a window of ±3 free-space wavelengths. Medium 1 occupies y ≥ 0. Above the
// interface the field is incident + reflected; below it is the transmitted
// wave, or the evanescent field under total internal reflection.
func ReflectionFieldMap(wave Wave, n1, n2, thetaI float64, resolution int) Grid {
	half := 3 * wave.Wavelength()
	g := NewGrid(-half, half, resolution, -half, half, resolution)
	coeffs, refr := Fresnel(n1, n2, thetaI)

	k := wave.WaveNumber()
	k1 := k * n1
	k2 := k * n2
	kix := k1 * math.Sin(thetaI)
	kiy := -k1 * math.Cos(thetaI)
	krx := kix
	kry := -kiy

	rte := coeffs.RTE
	if refr.TotalInternalReflection {
		rte = 1.0
	}
	alpha := EvanescentDecay(k, n1, n2, thetaI)

	for i, y := range g.Y {
		for j, x := range g.X {
			var e float64
			switch {
			case y >= 0:
				e = wave.Amplitude*math.Sin(kix*x+kiy*y) + rte*wave.Amplitude*math.Sin(krx*x+kry*y)
			case refr.TotalInternalReflection:
				e = wave.Amplitude * math.Exp(alpha*y) * math.Sin(kix*x)
			default:
				ktx := k2 * math.Sin(refr.TransmittedAngle)
				kty := -k2 * math.Cos(refr.TransmittedAngle)
				e = coeffs.TTE * wave.Amplitude * math.Sin(ktx*x+kty*y)
			}
			g.Values[i][j] = e
		}
	}
	return g
}

// SourcePosition is a point source location in meters.
type SourcePosition struct {
	X float64
	Y float64
}

// Interference is the intensity pattern of N coherent point sources.
type Interference struct {
	Sources    []SourcePosition
	Separation float64 // m.
	Extent     float64 // Side of the square window, m.
	Intensity  Grid    // Normalized to a maximum of 1.
}

// LineSources places n sources on the y axis, separated by `separation`
// and centred on the origin.
func LineSources(n int, separation float64) []SourcePosition {
	src := make([]SourcePosition, n)
	for i := range src {
		src[i] = SourcePosition{X: 0, Y: (float64(i) - float64(n-1)/2) * separation}
	}
	return src
}

// SampleInterference evaluates I = |Σ E0 e^{ikR}/√(R + λ/10)|² on a square
// of side 10λ and normalizes it.
func SampleInterference(wave Wave, sources int, separationWavelengths float64, resolution int) Interference {
	lambda := wave.Wavelength()
	extent := 10 * lambda
	sep := separationWavelengths * lambda
	pos := LineSources(sources, sep)

	g := NewGrid(-extent/2, extent/2, resolution, -extent/2, extent/2, resolution)
	k := wave.WaveNumber()
	soften := lambda / 10

	for i, y := range g.Y {
		for j, x := range g.X {
			var sum complex128
			for _, s := range pos {
				r := math.Hypot(x-s.X, y-s.Y)
				sum += complex(wave.Amplitude/math.Sqrt(r+soften), 0) * cmplx.Exp(complex(0, k*r))
			}
			a := cmplx.Abs(sum)
			g.Values[i][j] = a * a
		}
	}

	if peak := g.MaxAbs(); peak > 0 {
		for _, row := range g.Values {
			floats.Scale(1/peak, row)
		}
	}

	return Interference{
		Sources:    pos,
		Separation: sep,
		Extent:     extent,
		Intensity:  g,
	}
}

// ScreenProfile returns the intensity along y on the "screen" column at the
// right edge of the window, where the far-field fringes are best developed.
// The profile is normalized to its own maximum.
func (in Interference) ScreenProfile() (y, intensity []float64) {
	intensity = in.Intensity.Column(len(in.Intensity.X) - 1)
	if peak := floats.Max(intensity); peak > 0 {
		floats.Scale(1/peak, intensity)
	}
	return in.Intensity.Y, intensity
}

// AngularFringeSpacing returns the far-field two-source fringe spacing λ/d in radians.
func AngularFringeSpacing(lambda, separation float64) float64 {
	return lambda / separation
}
