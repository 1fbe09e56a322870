package usecase

import (
	"math"

	"go.ngs.io/emwave-api/internal/domain"
)

// ConfigVersion is the schema version of Configuration.
const ConfigVersion = "1.0"

// Configuration is the structured physics report returned with every image.
type Configuration struct {
	Version    string  `json:"version"`
	Phenomenon string  `json:"phenomenon"`
	Physics    Physics `json:"physics"`
}

// Physics holds the wave, the constants and one phenomenon section.
// Reflection fields are flattened into the physics object.
type Physics struct {
	Wave      WaveInfo      `json:"wave"`
	Constants ConstantsInfo `json:"constants"`

	*ReflectionInfo

	Doppler      *DopplerInfo      `json:"doppler,omitempty"`
	Dipole       *DipoleInfo       `json:"dipole,omitempty"`
	Waveguide    *WaveguideInfo    `json:"waveguide,omitempty"`
	StandingWave *StandingWaveInfo `json:"standing_wave,omitempty"`
	Interference *InterferenceInfo `json:"interference,omitempty"`
	Polarization *PolarizationInfo `json:"polarization,omitempty"`
}

// WaveInfo describes the source wave.
type WaveInfo struct {
	Frequency        float64 `json:"frequency"`
	Amplitude        float64 `json:"amplitude"`
	Wavelength       float64 `json:"wavelength"`
	Period           float64 `json:"period"`
	AngularFrequency float64 `json:"angular_frequency"`
	WaveNumber       float64 `json:"wave_number"`
}

// ConstantsInfo lists the physical constants used.
type ConstantsInfo struct {
	SpeedOfLight       float64 `json:"speed_of_light"`
	VacuumPermittivity float64 `json:"vacuum_permittivity"`
	VacuumPermeability float64 `json:"vacuum_permeability"`
	VacuumImpedance    float64 `json:"vacuum_impedance"`
}

// MediumInfo describes one medium.
type MediumInfo struct {
	Name                 string  `json:"name"`
	RelativePermittivity float64 `json:"relative_permittivity"`
	RelativePermeability float64 `json:"relative_permeability"`
	Conductivity         float64 `json:"conductivity"`
	RefractiveIndex      float64 `json:"refractive_index"`
	WaveSpeed            float64 `json:"wave_speed"`
	Impedance            float64 `json:"impedance"`
}

// ReflectionInfo is the reflection/refraction section.
type ReflectionInfo struct {
	Media                   []MediumInfo `json:"media"`
	IncidentAngleDeg        float64      `json:"incident_angle_deg"`
	IncidentAngleRad        float64      `json:"incident_angle_rad"`
	TransmittedAngleDeg     *float64     `json:"transmitted_angle_deg,omitempty"`
	TransmittedAngleRad     *float64     `json:"transmitted_angle_rad,omitempty"`
	TotalInternalReflection bool         `json:"total_internal_reflection"`
	CriticalAngleDeg        *float64     `json:"critical_angle_deg,omitempty"`
	BrewsterAngleDeg        float64      `json:"brewster_angle_deg"`
	EvanescentDecay         *float64     `json:"evanescent_decay_constant,omitempty"`
	FresnelCoefficients     FresnelInfo  `json:"fresnel_coefficients"`
}

// FresnelInfo holds the Fresnel coefficients. Transmission entries are
// absent under total internal reflection.
type FresnelInfo struct {
	RTE             float64  `json:"r_te"`
	TTE             *float64 `json:"t_te,omitempty"`
	RTM             float64  `json:"r_tm"`
	TTM             *float64 `json:"t_tm,omitempty"`
	ReflectanceTE   float64  `json:"R_te"`
	TransmittanceTE *float64 `json:"T_te,omitempty"`
	ReflectanceTM   float64  `json:"R_tm"`
	TransmittanceTM *float64 `json:"T_tm,omitempty"`
}

// DopplerInfo is the Doppler section. Only SourceVelocity and Error are set
// for superluminal velocities.
type DopplerInfo struct {
	SourceVelocity     float64  `json:"source_velocity"`
	Beta               *float64 `json:"beta,omitempty"`
	Gamma              *float64 `json:"gamma,omitempty"`
	ObservedFrequency  *float64 `json:"observed_frequency,omitempty"`
	ObservedWavelength *float64 `json:"observed_wavelength,omitempty"`
	FrequencyShift     *float64 `json:"frequency_shift,omitempty"`
	RelativeShift      *float64 `json:"relative_shift,omitempty"`
	Shift              string   `json:"shift,omitempty"`
	Error              string   `json:"error,omitempty"`
}

// DipoleInfo is the dipole antenna section.
type DipoleInfo struct {
	Length              float64 `json:"length"`
	LengthWavelengths   float64 `json:"length_wavelengths"`
	CurrentDistribution string  `json:"current_distribution"`
	RadiationResistance float64 `json:"radiation_resistance"`
	Directivity         float64 `json:"directivity"`
	DirectivityDBi      float64 `json:"directivity_dbi"`
	PatternRegime       string  `json:"pattern_regime"`
	ViewType            string  `json:"view_type"`
}

// ModeIndices are the two mode indices.
type ModeIndices struct {
	M int `json:"m"`
	N int `json:"n"`
}

// WaveguideInfo is the waveguide section. Propagation entries are present
// above cutoff, attenuation entries below it.
type WaveguideInfo struct {
	Type             string      `json:"type"`
	Width            float64     `json:"width"`
	Height           float64     `json:"height"`
	Mode             string      `json:"mode"`
	ModeType         string      `json:"mode_type"`
	ModeIndices      ModeIndices `json:"mode_indices"`
	CutoffFrequency  float64     `json:"cutoff_frequency"`
	CutoffWavelength float64     `json:"cutoff_wavelength"`

	PropagationConstant *float64 `json:"propagation_constant,omitempty"`
	GuideWavelength     *float64 `json:"guide_wavelength,omitempty"`
	PhaseVelocity       *float64 `json:"phase_velocity,omitempty"`
	GroupVelocity       *float64 `json:"group_velocity,omitempty"`
	Impedance           *float64 `json:"impedance,omitempty"`

	AttenuationConstant *float64 `json:"attenuation_constant,omitempty"`
	DecayLength         *float64 `json:"decay_length,omitempty"`
	Evanescent          bool     `json:"evanescent,omitempty"`
}

// StandingWaveInfo is the standing wave section.
type StandingWaveInfo struct {
	CavityLength float64   `json:"cavity_length"`
	MaxAmplitude float64   `json:"max_amplitude"`
	NodeSpacing  float64   `json:"node_spacing"`
	Nodes        []float64 `json:"nodes"`
	Antinodes    []float64 `json:"antinodes"`
}

// InterferenceInfo is the interference section.
//
// BrightFringes and MeasuredFringeSpacing come from the intensity column at
// x = ScreenX, the far edge of the window, normalized to that column's own
// peak. They are not measured on the y = 0 row through the sources.
type InterferenceInfo struct {
	Sources               int       `json:"sources"`
	Separation            float64   `json:"separation"`
	SeparationWavelengths float64   `json:"separation_wavelengths"`
	SourcePositions       []float64 `json:"source_positions"`
	AngularFringeSpacing  *float64  `json:"angular_fringe_spacing_rad,omitempty"`
	MeasuredFringeSpacing *float64  `json:"measured_fringe_spacing_wavelengths,omitempty"`
	ScreenX               *float64  `json:"screen_x,omitempty"` // m.
	BrightFringes         int       `json:"bright_fringes"`
}

// StokesInfo holds the Stokes vector.
type StokesInfo struct {
	S0 float64 `json:"s0"`
	S1 float64 `json:"s1"`
	S2 float64 `json:"s2"`
	S3 float64 `json:"s3"`
}

// JonesInfo holds the Jones vector as real and imaginary parts.
type JonesInfo struct {
	ExRe float64 `json:"ex_re"`
	ExIm float64 `json:"ex_im"`
	EyRe float64 `json:"ey_re"`
	EyIm float64 `json:"ey_im"`
}

// PolarizationInfo is the polarization section.
type PolarizationInfo struct {
	Type           string     `json:"type"`
	AngleDeg       float64    `json:"angle_deg"`
	MajorAxis      float64    `json:"major_axis"`
	MinorAxis      float64    `json:"minor_axis"`
	Jones          JonesInfo  `json:"jones"`
	Stokes         StokesInfo `json:"stokes"`
	OrientationDeg float64    `json:"orientation_deg"`
	EllipticityDeg float64    `json:"ellipticity_deg"`
	AxialRatio     float64    `json:"axial_ratio"`
	Handedness     string     `json:"handedness"`
}

// BuildConfiguration evaluates the physics of a validated request.
func BuildConfiguration(p Params) *Configuration {
	w := p.Wave
	cfg := &Configuration{
		Version:    ConfigVersion,
		Phenomenon: string(p.Phenomenon),
		Physics: Physics{
			Wave: WaveInfo{
				Frequency:        w.FrequencyHz,
				Amplitude:        w.Amplitude,
				Wavelength:       w.Wavelength(),
				Period:           w.Period(),
				AngularFrequency: w.AngularFrequency(),
				WaveNumber:       w.WaveNumber(),
			},
			Constants: ConstantsInfo{
				SpeedOfLight:       domain.SpeedOfLight,
				VacuumPermittivity: domain.VacuumPermittivity,
				VacuumPermeability: domain.VacuumPermeability,
				VacuumImpedance:    domain.VacuumImpedance,
			},
		},
	}

	switch p.Phenomenon {
	case domain.PhenomenonReflection:
		cfg.Physics.ReflectionInfo = reflectionInfo(p)
	case domain.PhenomenonDoppler:
		cfg.Physics.Doppler = dopplerInfo(p)
	case domain.PhenomenonDipole:
		cfg.Physics.Dipole = dipoleInfo(p)
	case domain.PhenomenonWaveguide:
		cfg.Physics.Waveguide = waveguideInfo(p)
	case domain.PhenomenonStandingWave:
		cfg.Physics.StandingWave = standingWaveInfo(p)
	case domain.PhenomenonInterference:
		cfg.Physics.Interference = interferenceInfo(p)
	case domain.PhenomenonPolarization:
		cfg.Physics.Polarization = polarizationInfo(p)
	}
	return cfg
}

func mediumInfo(m domain.Medium) MediumInfo {
	mu := m.RelativePermeability
	if mu == 0 {
		mu = 1
	}
	return MediumInfo{
		Name:                 m.Name,
		RelativePermittivity: m.RelativePermittivity,
		RelativePermeability: mu,
		Conductivity:         m.Conductivity,
		RefractiveIndex:      m.RefractiveIndex(),
		WaveSpeed:            m.WaveSpeed(),
		Impedance:            m.Impedance(),
	}
}

func reflectionInfo(p Params) *ReflectionInfo {
	n1 := p.Medium1.RefractiveIndex()
	n2 := p.Medium2.RefractiveIndex()
	thetaI := domain.Deg2Rad(p.AngleDeg)
	coeffs, refr := domain.Fresnel(n1, n2, thetaI)

	info := &ReflectionInfo{
		Media:                   []MediumInfo{mediumInfo(p.Medium1), mediumInfo(p.Medium2)},
		IncidentAngleDeg:        p.AngleDeg,
		IncidentAngleRad:        thetaI,
		TotalInternalReflection: refr.TotalInternalReflection,
		BrewsterAngleDeg:        domain.Rad2Deg(domain.BrewsterAngle(n1, n2)),
		FresnelCoefficients: FresnelInfo{
			RTE:           coeffs.RTE,
			RTM:           coeffs.RTM,
			ReflectanceTE: coeffs.ReflectanceTE,
			ReflectanceTM: coeffs.ReflectanceTM,
		},
	}
	if refr.HasCriticalAngle {
		info.CriticalAngleDeg = ptr(domain.Rad2Deg(refr.CriticalAngle))
	}

	if refr.TotalInternalReflection {
		info.EvanescentDecay = ptr(domain.EvanescentDecay(p.Wave.WaveNumber(), n1, n2, thetaI))
		return info
	}

	info.TransmittedAngleDeg = ptr(domain.Rad2Deg(refr.TransmittedAngle))
	info.TransmittedAngleRad = ptr(refr.TransmittedAngle)
	f := &info.FresnelCoefficients
	f.TTE = ptr(coeffs.TTE)
	f.TTM = ptr(coeffs.TTM)
	f.TransmittanceTE = ptr(coeffs.TransmittanceTE)
	f.TransmittanceTM = ptr(coeffs.TransmittanceTM)
	return info
}

func dopplerInfo(p Params) *DopplerInfo {
	d, err := domain.RelativisticDoppler(p.Wave.FrequencyHz, p.Velocity)
	if err != nil {
		return &DopplerInfo{SourceVelocity: p.Velocity, Error: dopplerErrorText}
	}
	return &DopplerInfo{
		SourceVelocity:     d.SourceVelocity,
		Beta:               ptr(d.Beta),
		Gamma:              ptr(d.Gamma),
		ObservedFrequency:  ptr(d.ObservedFrequency),
		ObservedWavelength: ptr(d.ObservedWavelength),
		FrequencyShift:     ptr(d.FrequencyShift),
		RelativeShift:      ptr(d.RelativeShift),
		Shift:              string(d.Kind),
	}
}

// dopplerErrorText is reported for |v| ≥ c.
const dopplerErrorText = "Velocity cannot exceed speed of light"

func dipoleInfo(p Params) *DipoleInfo {
	a := domain.AnalyzeDipole(p.Wave, p.DipoleLength, p.Current)
	return &DipoleInfo{
		Length:              a.Length,
		LengthWavelengths:   a.LengthWavelengths,
		CurrentDistribution: string(a.Current),
		RadiationResistance: a.RadiationResistance,
		Directivity:         a.Directivity,
		DirectivityDBi:      a.DirectivityDBi,
		PatternRegime:       string(a.Regime),
		ViewType:            string(p.View),
	}
}

func waveguideInfo(p Params) *WaveguideInfo {
	// Dimensions are validated in Resolve, so the analysis cannot fail here.
	a, _ := domain.AnalyzeWaveguide(p.Wave, p.Guide, p.GuideWidth, p.GuideHeight, p.Mode)
	info := &WaveguideInfo{
		Type:             string(a.Guide),
		Width:            a.Width,
		Height:           a.Height,
		Mode:             a.Mode.String(),
		ModeType:         string(a.Mode.Type),
		ModeIndices:      ModeIndices{M: a.Mode.M, N: a.Mode.N},
		CutoffFrequency:  a.CutoffFrequency,
		CutoffWavelength: a.CutoffWavelength,
	}
	if a.Propagating {
		info.PropagationConstant = ptr(a.PropagationConstant)
		info.GuideWavelength = ptr(a.GuideWavelength)
		info.PhaseVelocity = ptr(a.PhaseVelocity)
		info.GroupVelocity = ptr(a.GroupVelocity)
		info.Impedance = ptr(a.Impedance)
		return info
	}
	info.AttenuationConstant = ptr(a.AttenuationConstant)
	if a.DecayLength > 0 {
		info.DecayLength = ptr(a.DecayLength)
	}
	info.Evanescent = true
	return info
}

func standingWaveInfo(p Params) *StandingWaveInfo {
	lambda := p.Wave.Wavelength()
	length := 2.5 * lambda
	nodes, antinodes := domain.StandingWaveNodes(lambda, length)
	return &StandingWaveInfo{
		CavityLength: length,
		MaxAmplitude: 2 * p.Wave.Amplitude,
		NodeSpacing:  lambda / 2,
		Nodes:        nodes,
		Antinodes:    antinodes,
	}
}

// interferenceResolution is the grid used for the fringe measurement.
const interferenceResolution = 300

func interferenceInfo(p Params) *InterferenceInfo {
	lambda := p.Wave.Wavelength()
	sep := p.SeparationWavelengths * lambda
	pos := domain.LineSources(p.Sources, sep)

	info := &InterferenceInfo{
		Sources:               p.Sources,
		Separation:            sep,
		SeparationWavelengths: p.SeparationWavelengths,
		SourcePositions:       make([]float64, len(pos)),
	}
	for i, s := range pos {
		info.SourcePositions[i] = s.Y
	}
	if p.Sources < 2 {
		return info
	}

	info.AngularFringeSpacing = ptr(domain.AngularFringeSpacing(lambda, sep))
	in := domain.SampleInterference(p.Wave, p.Sources, p.SeparationWavelengths, interferenceResolution)
	y, profile := in.ScreenProfile()
	info.ScreenX = ptr(in.Intensity.X[len(in.Intensity.X)-1])
	peaks := domain.FindPeaks(y, profile, 0.5)
	info.BrightFringes = len(peaks)
	if s := domain.MeanSpacing(peaks); s > 0 {
		info.MeasuredFringeSpacing = ptr(s / lambda)
	}
	return info
}

func polarizationInfo(p Params) *PolarizationInfo {
	pol := domain.NewPolarization(p.Polarization, domain.Deg2Rad(p.PolAngleDeg), p.Wave.Amplitude)
	jx, jy := pol.Jones()
	st := pol.Stokes()
	return &PolarizationInfo{
		Type:           string(pol.Type),
		AngleDeg:       p.PolAngleDeg,
		MajorAxis:      pol.Major,
		MinorAxis:      pol.Minor,
		Jones:          JonesInfo{ExRe: real(jx), ExIm: imag(jx), EyRe: real(jy), EyIm: imag(jy)},
		Stokes:         StokesInfo{S0: st.S0, S1: st.S1, S2: st.S2, S3: st.S3},
		OrientationDeg: st.OrientationDeg,
		EllipticityDeg: st.EllipticityDeg,
		AxialRatio:     st.AxialRatio,
		Handedness:     string(st.Handedness),
	}
}

func ptr(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
