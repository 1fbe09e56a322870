package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"go.ngs.io/emwave-api/internal/domain"
	"go.ngs.io/emwave-api/internal/usecase"
)

// figure is a grid of panels under a common title. Panels are row-major;
// a nil panel leaves its tile empty.
type figure struct {
	title  string
	rows   int
	cols   int
	panels []*plot.Plot
}

func (r *Renderer) build(p usecase.Params, cfg *usecase.Configuration) (figure, error) {
	switch p.Phenomenon {
	case domain.PhenomenonPlaneWave:
		return r.planeWave(p)
	case domain.PhenomenonReflection:
		return r.reflection(p, cfg)
	case domain.PhenomenonStandingWave:
		return r.standingWave(p)
	case domain.PhenomenonInterference:
		return r.interference(p, cfg)
	case domain.PhenomenonDoppler:
		return r.doppler(p, cfg)
	case domain.PhenomenonPolarization:
		return r.polarization(p, cfg)
	case domain.PhenomenonDipole:
		return r.dipole(p, cfg)
	case domain.PhenomenonWaveguide:
		return r.waveguide(p, cfg)
	}
	return figure{}, fmt.Errorf("no figure for phenomenon %q", p.Phenomenon)
}

func (r *Renderer) planeWave(p usecase.Params) (figure, error) {
	w := p.Wave
	pw := domain.SamplePlaneWave(w, r.opts.Samples)
	lu := lengthUnit(w.Wavelength())
	xLabel := "x (" + lu.label + ")"

	e := newPanel("Electric Field E(x, t = 0)", xLabel, "E (V/m)")
	b := newPanel("Magnetic Field B(x, t = 0)", xLabel, "B (nT)")
	u := newPanel("Energy Density", xLabel, "u (J/m³)")
	u.Legend.Top = true

	errs := []error{
		addLine(e, xys(pw.X, pw.E, lu.scale, 1), colorE, "", false),
		addLine(b, xys(pw.X, pw.B, lu.scale, 1e9), colorB, "", false),
		addLine(u, xys(pw.X, pw.ElectricEnergy, lu.scale, 1), colorE, "electric", false),
		addLine(u, xys(pw.X, pw.MagneticEnergy, lu.scale, 1), colorB, "magnetic", true),
		addLine(u, xys(pw.X, pw.TotalEnergy, lu.scale, 1), colorTotal, "total", false),
	}
	title := fmt.Sprintf("Plane Wave: f = %s, λ = %s", formatFrequency(w.FrequencyHz), formatLength(w.Wavelength()))
	return figure{title: title, rows: 3, cols: 1, panels: []*plot.Plot{e, b, u}}, errors.Join(errs...)
}

func (r *Renderer) reflection(p usecase.Params, cfg *usecase.Configuration) (figure, error) {
	info := cfg.Physics.ReflectionInfo
	if info == nil {
		return figure{}, errors.New("configuration has no reflection section")
	}
	n1, n2 := info.Media[0].RefractiveIndex, info.Media[1].RefractiveIndex
	thetaI := info.IncidentAngleRad
	lu := lengthUnit(p.Wave.Wavelength())

	field := newPanel("TE Field Ey", "x ("+lu.label+")", "y ("+lu.label+")")
	g := domain.ReflectionFieldMap(p.Wave, n1, n2, thetaI, r.opts.Resolution)
	addHeatMap(field, g, lu.scale, Diverging(paletteSize), true)
	errs := []error{
		addLine(field, plotter.XYs{{X: g.X[0] * lu.scale, Y: 0}, {X: g.X[len(g.X)-1] * lu.scale, Y: 0}}, black, "", false),
	}

	rays := newPanel("Ray Diagram", "", "")
	symmetricRange(rays, 1.1)
	sinI, cosI := math.Sin(thetaI), math.Cos(thetaI)
	errs = append(errs,
		addLine(rays, plotter.XYs{{X: -1.1, Y: 0}, {X: 1.1, Y: 0}}, black, "", false),
		addLine(rays, plotter.XYs{{X: 0, Y: -1}, {X: 0, Y: 1}}, colorMuted, "normal", true),
		addLine(rays, plotter.XYs{{X: -sinI, Y: cosI}, {X: 0, Y: 0}}, colorE, fmt.Sprintf("incident %.1f°", info.IncidentAngleDeg), false),
		addLine(rays, plotter.XYs{{X: 0, Y: 0}, {X: sinI, Y: cosI}}, colorB, "reflected", false),
	)
	if info.TransmittedAngleRad != nil {
		t := *info.TransmittedAngleRad
		errs = append(errs, addLine(rays, plotter.XYs{{X: 0, Y: 0}, {X: math.Sin(t), Y: -math.Cos(t)}}, colorTotal, fmt.Sprintf("transmitted %.1f°", *info.TransmittedAngleDeg), false))
	}

	curves := newPanel("Fresnel Reflectance", "incidence angle (°)", "R")
	curves.Y.Min, curves.Y.Max = 0, 1.05
	curve := domain.ReflectanceCurve(n1, n2, 181)
	te := make(plotter.XYs, len(curve))
	tm := make(plotter.XYs, len(curve))
	for i, c := range curve {
		te[i] = plotter.XY{X: c.AngleDeg, Y: c.TE}
		tm[i] = plotter.XY{X: c.AngleDeg, Y: c.TM}
	}
	errs = append(errs,
		addLine(curves, te, colorE, "R_TE", false),
		addLine(curves, tm, colorB, "R_TM", false),
		addVLine(curves, info.IncidentAngleDeg, 0, 1, colorMuted, "incidence"),
		addVLine(curves, info.BrewsterAngleDeg, 0, 1, colorTotal, "Brewster"),
	)
	if info.CriticalAngleDeg != nil {
		errs = append(errs, addVLine(curves, *info.CriticalAngleDeg, 0, 1, colorAlt, "critical"))
	}

	lines := []string{
		fmt.Sprintf("Medium 1: %s (n = %.3f)", info.Media[0].Name, n1),
		fmt.Sprintf("Medium 2: %s (n = %.3f)", info.Media[1].Name, n2),
		fmt.Sprintf("Incidence: %.1f°", info.IncidentAngleDeg),
		fmt.Sprintf("Brewster angle: %.1f°", info.BrewsterAngleDeg),
	}
	if info.CriticalAngleDeg != nil {
		lines = append(lines, fmt.Sprintf("Critical angle: %.1f°", *info.CriticalAngleDeg))
	}
	f := info.FresnelCoefficients
	if info.TotalInternalReflection {
		lines = append(lines, "Total internal reflection", fmt.Sprintf("Evanescent decay: %.3g 1/m", *info.EvanescentDecay))
	} else {
		lines = append(lines,
			fmt.Sprintf("Refraction: %.1f°", *info.TransmittedAngleDeg),
			fmt.Sprintf("TE: R = %.3f, T = %.3f", f.ReflectanceTE, *f.TransmittanceTE),
			fmt.Sprintf("TM: R = %.3f, T = %.3f", f.ReflectanceTM, *f.TransmittanceTM),
		)
	}
	text, err := infoPanel("Interface", lines)
	errs = append(errs, err)

	title := fmt.Sprintf("Reflection and Refraction: %s to %s", info.Media[0].Name, info.Media[1].Name)
	return figure{title: title, rows: 2, cols: 2, panels: []*plot.Plot{field, rays, curves, text}}, errors.Join(errs...)
}

// standingSnapshots is the number of instants drawn per period.
const standingSnapshots = 8

func (r *Renderer) standingWave(p usecase.Params) (figure, error) {
	sw := domain.SampleStandingWave(p.Wave, r.opts.Samples, standingSnapshots)
	lu := lengthUnit(p.Wave.Wavelength())
	xLabel := "x (" + lu.label + ")"

	snaps := newPanel("E(x, t) over one period", xLabel, "E (V/m)")
	var errs []error
	for i, s := range sw.Snapshots {
		errs = append(errs, addLine(snaps, xys(sw.X, s, lu.scale, 1), seriesColor(i, len(sw.Snapshots)), "", false))
	}
	neg := make([]float64, len(sw.Envelope))
	for i, v := range sw.Envelope {
		neg[i] = -v
	}
	errs = append(errs,
		addLine(snaps, xys(sw.X, sw.Envelope, lu.scale, 1), black, "envelope", true),
		addLine(snaps, xys(sw.X, neg, lu.scale, 1), black, "", true),
	)

	energy := newPanel("Time-averaged energy density", xLabel, "u (J/m³)")
	errs = append(errs, addLine(energy, xys(sw.X, sw.EnergyDensity, lu.scale, 1), colorTotal, "", false))
	nodes := make(plotter.XYs, len(sw.Nodes))
	for i, x := range sw.Nodes {
		nodes[i] = plotter.XY{X: x * lu.scale}
	}
	peak := 0.0
	if len(sw.EnergyDensity) > 0 {
		peak = sw.EnergyDensity[0]
		for _, v := range sw.EnergyDensity {
			peak = math.Max(peak, v)
		}
	}
	anti := make(plotter.XYs, len(sw.Antinodes))
	for i, x := range sw.Antinodes {
		anti[i] = plotter.XY{X: x * lu.scale, Y: peak}
	}
	errs = append(errs,
		addMarkers(energy, nodes, colorB, draw.CircleGlyph{}, "nodes"),
		addMarkers(energy, anti, colorE, draw.TriangleGlyph{}, "antinodes"),
	)

	title := fmt.Sprintf("Standing Wave: node spacing λ/2 = %s", formatLength(p.Wave.Wavelength()/2))
	return figure{title: title, rows: 2, cols: 1, panels: []*plot.Plot{snaps, energy}}, errors.Join(errs...)
}

func (r *Renderer) interference(p usecase.Params, cfg *usecase.Configuration) (figure, error) {
	in := domain.SampleInterference(p.Wave, p.Sources, p.SeparationWavelengths, r.opts.Resolution)
	lu := lengthUnit(p.Wave.Wavelength())

	field := newPanel("Intensity |ΣE|²", "x ("+lu.label+")", "y ("+lu.label+")")
	addHeatMap(field, in.Intensity, lu.scale, Hot(paletteSize), false)
	src := make(plotter.XYs, len(in.Sources))
	for i, s := range in.Sources {
		src[i] = plotter.XY{X: s.X * lu.scale, Y: s.Y * lu.scale}
	}
	errs := []error{addMarkers(field, src, colorE, draw.CircleGlyph{}, "sources")}

	cross := newPanel("Screen cross-section", "y ("+lu.label+")", "I / I_max")
	y, profile := in.ScreenProfile()
	errs = append(errs, addLine(cross, xys(y, profile, lu.scale, 1), colorB, "", false))
	peaks := domain.FindPeaks(y, profile, 0.5)
	bright := make(plotter.XYs, len(peaks))
	for i, pk := range peaks {
		bright[i] = plotter.XY{X: pk.Position * lu.scale, Y: pk.Value}
	}
	errs = append(errs, addMarkers(cross, bright, colorE, draw.TriangleGlyph{}, "bright fringes"))

	title := fmt.Sprintf("Interference: %d sources, d = %.1fλ", p.Sources, p.SeparationWavelengths)
	if info := cfg.Physics.Interference; info != nil && info.MeasuredFringeSpacing != nil {
		title += fmt.Sprintf(", fringe spacing %.2fλ", *info.MeasuredFringeSpacing)
	}
	return figure{title: title, rows: 1, cols: 2, panels: []*plot.Plot{field, cross}}, errors.Join(errs...)
}

func (r *Renderer) doppler(p usecase.Params, cfg *usecase.Configuration) (figure, error) {
	d := cfg.Physics.Doppler
	if d == nil {
		return figure{}, errors.New("configuration has no doppler section")
	}
	if d.Error != "" {
		text, err := infoPanel("Doppler Shift", []string{
			fmt.Sprintf("Source velocity: %.4g m/s", d.SourceVelocity),
			d.Error,
		})
		return figure{title: "Relativistic Doppler Effect", rows: 1, cols: 1, panels: []*plot.Plot{text}}, err
	}

	w := p.Wave
	lu := lengthUnit(w.Wavelength())
	x := make([]float64, r.opts.Samples)
	src := make([]float64, len(x))
	obs := make([]float64, len(x))
	k := w.WaveNumber()
	k2 := 2 * math.Pi * *d.ObservedFrequency / domain.SpeedOfLight
	for i := range x {
		x[i] = 3 * w.Wavelength() * float64(i) / float64(len(x)-1)
		src[i] = w.Amplitude * math.Sin(k*x[i])
		obs[i] = w.Amplitude * math.Sin(k2*x[i])
	}
	waves := newPanel("Emitted and observed waves", "x ("+lu.label+")", "E (V/m)")
	errs := []error{
		addLine(waves, xys(x, src, lu.scale, 1), colorMuted, "emitted", true),
		addLine(waves, xys(x, obs, lu.scale, 1), shiftColor(d.Shift), "observed", false),
	}

	fu := frequencyUnit(w.FrequencyHz)
	bars := newPanel("Frequency", "", fu.label)
	chart, err := plotter.NewBarChart(plotter.Values{w.FrequencyHz * fu.scale, *d.ObservedFrequency * fu.scale}, vg.Points(40))
	errs = append(errs, err)
	if chart != nil {
		chart.Color = colorE
		bars.Add(chart)
		bars.NominalX("source", "observed")
	}

	text, err := infoPanel("Shift", []string{
		fmt.Sprintf("Source velocity: %.4g m/s", d.SourceVelocity),
		fmt.Sprintf("β = %.4g, γ = %.6f", *d.Beta, *d.Gamma),
		fmt.Sprintf("Observed: %s", formatFrequency(*d.ObservedFrequency)),
		fmt.Sprintf("Δf = %.4g Hz (%s shift)", *d.FrequencyShift, d.Shift),
		fmt.Sprintf("Δf/f = %.3e", *d.RelativeShift),
	})
	errs = append(errs, err)

	return figure{title: "Relativistic Doppler Effect", rows: 1, cols: 3, panels: []*plot.Plot{waves, bars, text}}, errors.Join(errs...)
}

func shiftColor(kind string) color.Color {
	switch domain.ShiftKind(kind) {
	case domain.BlueShift:
		return coolBlue
	case domain.RedShift:
		return warmRed
	}
	return colorTotal
}

func (r *Renderer) polarization(p usecase.Params, cfg *usecase.Configuration) (figure, error) {
	info := cfg.Physics.Polarization
	if info == nil {
		return figure{}, errors.New("configuration has no polarization section")
	}
	pol := domain.NewPolarization(p.Polarization, domain.Deg2Rad(p.PolAngleDeg), p.Wave.Amplitude)
	temporal := pol.TemporalTrace(p.Wave, r.opts.Samples)
	spatial := pol.SpatialTrace(p.Wave, r.opts.Samples)
	a := p.Wave.Amplitude

	locus := newPanel("Field vector locus", "Ex (V/m)", "Ey (V/m)")
	symmetricRange(locus, 1.2*a)
	errs := []error{
		addLine(locus, xys(temporal.Ex, temporal.Ey, 1, 1), colorE, "", false),
		addMarkers(locus, plotter.XYs{{X: temporal.Ex[0], Y: temporal.Ey[0]}}, colorB, draw.CircleGlyph{}, "t = 0"),
	}

	lu := lengthUnit(p.Wave.Wavelength())
	space := newPanel("Along z at t = 0", "z ("+lu.label+")", "E (V/m)")
	errs = append(errs,
		addLine(space, xys(spatial.Axis, spatial.Ex, lu.scale, 1), colorE, "Ex", false),
		addLine(space, xys(spatial.Axis, spatial.Ey, lu.scale, 1), colorB, "Ey", true),
	)

	tu := timeUnit(p.Wave.Period())
	tim := newPanel("At z = 0", "t ("+tu.label+")", "E (V/m)")
	errs = append(errs,
		addLine(tim, xys(temporal.Axis, temporal.Ex, tu.scale, 1), colorE, "Ex", false),
		addLine(tim, xys(temporal.Axis, temporal.Ey, tu.scale, 1), colorB, "Ey", true),
	)

	text, err := infoPanel("Stokes parameters", []string{
		fmt.Sprintf("Type: %s", info.Type),
		fmt.Sprintf("S = (%.3g, %.3g, %.3g, %.3g)", info.Stokes.S0, info.Stokes.S1, info.Stokes.S2, info.Stokes.S3),
		fmt.Sprintf("Orientation ψ = %.1f°", info.OrientationDeg),
		fmt.Sprintf("Ellipticity χ = %.1f°", info.EllipticityDeg),
		fmt.Sprintf("Axial ratio: %.3f", info.AxialRatio),
		fmt.Sprintf("Handedness: %s", info.Handedness),
	})
	errs = append(errs, err)

	title := fmt.Sprintf("Polarization: %s at %.0f°", info.Type, info.AngleDeg)
	return figure{title: title, rows: 2, cols: 2, panels: []*plot.Plot{locus, space, tim, text}}, errors.Join(errs...)
}

func (r *Renderer) dipole(p usecase.Params, cfg *usecase.Configuration) (figure, error) {
	info := cfg.Physics.Dipole
	if info == nil {
		return figure{}, errors.New("configuration has no dipole section")
	}
	theta, pattern := domain.PatternCut(p.DipoleLength, r.opts.Samples)

	var cut *plot.Plot
	var errs []error
	n := 2 * len(theta)
	loop := make(plotter.XYs, 0, n)
	if p.View == domain.DipoleViewAzimuth {
		cut = newPanel("H-plane (azimuth)", "", "")
		for i := 0; i < n; i++ {
			phi := 2 * math.Pi * float64(i) / float64(n-1)
			loop = append(loop, plotter.XY{X: math.Cos(phi), Y: math.Sin(phi)})
		}
	} else {
		cut = newPanel("E-plane (elevation)", "", "")
		for i, th := range theta {
			loop = append(loop, plotter.XY{X: pattern[i] * math.Sin(th), Y: pattern[i] * math.Cos(th)})
		}
		for i := len(theta) - 1; i >= 0; i-- {
			loop = append(loop, plotter.XY{X: -pattern[i] * math.Sin(theta[i]), Y: pattern[i] * math.Cos(theta[i])})
		}
		errs = append(errs, addLine(cut, plotter.XYs{{X: 0, Y: -0.3}, {X: 0, Y: 0.3}}, black, "dipole", false))
	}
	symmetricRange(cut, 1.15)
	errs = append(errs, addLine(cut, loop, colorB, "", false))

	cart := newPanel("Normalized pattern", "θ (°)", "|F(θ)|")
	cart.Y.Min, cart.Y.Max = 0, 1.05
	deg := make([]float64, len(theta))
	for i, th := range theta {
		deg[i] = domain.Rad2Deg(th)
	}
	errs = append(errs, addLine(cart, xys(deg, pattern, 1, 1), colorE, "", false))

	text, err := infoPanel("Antenna", []string{
		fmt.Sprintf("Length: %.2fλ (%s)", info.LengthWavelengths, formatLength(info.Length)),
		fmt.Sprintf("Current: %s", info.CurrentDistribution),
		fmt.Sprintf("Regime: %s", info.PatternRegime),
		fmt.Sprintf("Radiation resistance: %.1f Ω", info.RadiationResistance),
		fmt.Sprintf("Directivity: %.2f (%.2f dBi)", info.Directivity, info.DirectivityDBi),
	})
	errs = append(errs, err)

	title := fmt.Sprintf("Dipole Antenna: L = %.2fλ", info.LengthWavelengths)
	return figure{title: title, rows: 1, cols: 3, panels: []*plot.Plot{cut, cart, text}}, errors.Join(errs...)
}

func (r *Renderer) waveguide(p usecase.Params, cfg *usecase.Configuration) (figure, error) {
	info := cfg.Physics.Waveguide
	if info == nil {
		return figure{}, errors.New("configuration has no waveguide section")
	}
	var errs []error

	var field *plot.Plot
	if info.Evanescent {
		lu := lengthUnit(p.Wave.Wavelength())
		field = newPanel("Evanescent decay below cutoff", "z ("+lu.label+")", "|E| (V/m)")
		z, e := domain.EvanescentProfile(p.Wave, *info.AttenuationConstant, r.opts.Samples)
		errs = append(errs, addLine(field, xys(z, e, lu.scale, 1), colorB, "", false))
	} else {
		lu := lengthUnit(p.GuideWidth)
		field = newPanel(info.Mode+" |E| cross-section", "x ("+lu.label+")", "y ("+lu.label+")")
		g := domain.ModeFieldMagnitude(p.Guide, p.GuideWidth, p.GuideHeight, p.Mode, p.Wave.Amplitude, r.opts.Resolution)
		addHeatMap(field, g, lu.scale, Jet(paletteSize), false)
	}

	fu := frequencyUnit(info.CutoffFrequency)
	disp := newPanel("Dispersion β(f)", "f ("+fu.label+")", "β (rad/m)")
	curve := domain.DispersionCurve(info.CutoffFrequency, r.opts.Samples)
	pts := make(plotter.XYs, len(curve))
	betaMax := 0.0
	for i, c := range curve {
		pts[i] = plotter.XY{X: c.FrequencyHz * fu.scale, Y: c.Beta}
		betaMax = math.Max(betaMax, c.Beta)
	}
	errs = append(errs,
		addLine(disp, pts, colorE, "", false),
		addVLine(disp, info.CutoffFrequency*fu.scale, 0, betaMax, colorMuted, "cutoff"),
	)
	if info.PropagationConstant != nil {
		errs = append(errs, addMarkers(disp, plotter.XYs{{X: p.Wave.FrequencyHz * fu.scale, Y: *info.PropagationConstant}}, colorB, draw.CircleGlyph{}, "operating point"))
	}

	lines := []string{
		fmt.Sprintf("Guide: %s, %s × %s", info.Type, formatLength(info.Width), formatLength(info.Height)),
		fmt.Sprintf("Mode: %s", info.Mode),
		fmt.Sprintf("Cutoff: %s (λc = %s)", formatFrequency(info.CutoffFrequency), formatLength(info.CutoffWavelength)),
	}
	if info.Evanescent {
		lines = append(lines, fmt.Sprintf("Below cutoff: α = %.3g Np/m", *info.AttenuationConstant))
		if info.DecayLength != nil {
			lines = append(lines, fmt.Sprintf("Decay length: %s", formatLength(*info.DecayLength)))
		}
	} else {
		lines = append(lines,
			fmt.Sprintf("β = %.4g rad/m, λg = %s", *info.PropagationConstant, formatLength(*info.GuideWavelength)),
			fmt.Sprintf("vp = %.4g m/s, vg = %.4g m/s", *info.PhaseVelocity, *info.GroupVelocity),
			fmt.Sprintf("Wave impedance: %.1f Ω", *info.Impedance),
		)
	}
	text, err := infoPanel("Mode", lines)
	errs = append(errs, err)

	title := fmt.Sprintf("Waveguide: %s %s at %s", info.Type, info.Mode, formatFrequency(p.Wave.FrequencyHz))
	return figure{title: title, rows: 1, cols: 3, panels: []*plot.Plot{field, disp, text}}, errors.Join(errs...)
}

func formatLength(v float64) string {
	u := lengthUnit(v)
	return fmt.Sprintf("%.3g %s", v*u.scale, u.label)
}

func formatFrequency(v float64) string {
	u := frequencyUnit(v)
	return fmt.Sprintf("%.4g %s", v*u.scale, u.label)
}
