package usecase

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/emwave-api/internal/domain"
)

func resolve(t *testing.T, req VisualizationRequest) Params {
	t.Helper()
	p, err := req.Resolve(domain.GetMedium)
	require.NoError(t, err)
	return p
}

func TestBuildConfiguration_Wave(t *testing.T) {
	cfg := BuildConfiguration(resolve(t, baseRequest("plane_wave")))

	assert.Equal(t, ConfigVersion, cfg.Version)
	assert.Equal(t, "plane_wave", cfg.Phenomenon)
	w := cfg.Physics.Wave
	assert.InDelta(t, 0.0299792458, w.Wavelength, 1e-12)
	assert.InDelta(t, 1e-10, w.Period, 1e-22)
	assert.InDelta(t, 2*math.Pi*10e9, w.AngularFrequency, 1e-3)
	assert.InDelta(t, 2*math.Pi/0.0299792458, w.WaveNumber, 1e-9)
	assert.InDelta(t, domain.SpeedOfLight, cfg.Physics.Constants.SpeedOfLight, 0)
	assert.Nil(t, cfg.Physics.ReflectionInfo)
	assert.Nil(t, cfg.Physics.Doppler)
}

func TestBuildConfiguration_AirToGlass(t *testing.T) {
	cfg := BuildConfiguration(resolve(t, baseRequest("reflection")))
	r := cfg.Physics.ReflectionInfo
	require.NotNil(t, r)

	require.Len(t, r.Media, 2)
	assert.InDelta(t, 1.5, r.Media[1].RefractiveIndex, 1e-12)
	assert.False(t, r.TotalInternalReflection)
	assert.Nil(t, r.CriticalAngleDeg, "no critical angle going into a denser medium")
	require.NotNil(t, r.TransmittedAngleDeg)
	assert.InDelta(t, 19.47, *r.TransmittedAngleDeg, 0.05)
	assert.InDelta(t, 56.3, r.BrewsterAngleDeg, 0.05)

	f := r.FresnelCoefficients
	require.NotNil(t, f.TransmittanceTE)
	require.NotNil(t, f.TransmittanceTM)
	assert.InDelta(t, 1.0, f.ReflectanceTE+*f.TransmittanceTE, 1e-12)
	assert.InDelta(t, 1.0, f.ReflectanceTM+*f.TransmittanceTM, 1e-12)
	assert.Less(t, f.RTE, 0.0, "TE reflection into a denser medium flips sign")
}

func TestBuildConfiguration_TotalInternalReflection(t *testing.T) {
	req := baseRequest("reflection")
	req.Medium1 = str("Glass")
	req.Medium2 = str("Air")
	req.Angle = f64(60)
	r := BuildConfiguration(resolve(t, req)).Physics.ReflectionInfo
	require.NotNil(t, r)

	assert.True(t, r.TotalInternalReflection)
	require.NotNil(t, r.CriticalAngleDeg)
	assert.InDelta(t, 41.82, *r.CriticalAngleDeg, 0.02)
	assert.Nil(t, r.TransmittedAngleDeg)
	assert.Nil(t, r.FresnelCoefficients.TTE)
	assert.InDelta(t, 1.0, r.FresnelCoefficients.ReflectanceTE, 0)
	require.NotNil(t, r.EvanescentDecay)
	assert.Greater(t, *r.EvanescentDecay, 0.0)
}

func TestBuildConfiguration_JSONLayout(t *testing.T) {
	raw, err := json.Marshal(BuildConfiguration(resolve(t, baseRequest("reflection"))))
	require.NoError(t, err)

	var doc struct {
		Physics map[string]json.RawMessage `json:"physics"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{"wave", "constants", "media", "incident_angle_deg", "fresnel_coefficients"} {
		assert.Contains(t, doc.Physics, key)
	}
	assert.NotContains(t, doc.Physics, "doppler")
	assert.NotContains(t, doc.Physics, "critical_angle_deg")

	var fresnel map[string]float64
	require.NoError(t, json.Unmarshal(doc.Physics["fresnel_coefficients"], &fresnel))
	for _, key := range []string{"r_te", "t_te", "r_tm", "t_tm", "R_te", "T_te", "R_tm", "T_tm"} {
		assert.Contains(t, fresnel, key)
	}
}

func TestBuildConfiguration_Doppler(t *testing.T) {
	req := baseRequest("doppler")
	req.Velocity = f64(0.1 * domain.SpeedOfLight)
	d := BuildConfiguration(resolve(t, req)).Physics.Doppler
	require.NotNil(t, d)
	require.NotNil(t, d.ObservedFrequency)
	assert.InDelta(t, 10e9*math.Sqrt(1.1/0.9), *d.ObservedFrequency, 1)
	assert.Equal(t, "blue", d.Shift)
	assert.Empty(t, d.Error)
}

func TestBuildConfiguration_DopplerSuperluminal(t *testing.T) {
	req := baseRequest("doppler")
	req.Velocity = f64(3e8)
	d := BuildConfiguration(resolve(t, req)).Physics.Doppler
	require.NotNil(t, d)
	assert.Equal(t, "Velocity cannot exceed speed of light", d.Error)
	assert.Nil(t, d.Beta)
	assert.Nil(t, d.ObservedFrequency)
}

func TestBuildConfiguration_Dipole(t *testing.T) {
	d := BuildConfiguration(resolve(t, baseRequest("dipole"))).Physics.Dipole
	require.NotNil(t, d)
	assert.InDelta(t, 73.13, d.RadiationResistance, 1e-9)
	assert.InDelta(t, 1.64, d.Directivity, 0.01)
	assert.Equal(t, "half_wave", d.PatternRegime)
	assert.InDelta(t, 0.0149896229, d.Length, 1e-9)
}

func TestBuildConfiguration_Waveguide(t *testing.T) {
	wg := BuildConfiguration(resolve(t, baseRequest("waveguide"))).Physics.Waveguide
	require.NotNil(t, wg)
	assert.InDelta(t, domain.SpeedOfLight/0.046, wg.CutoffFrequency, 1)
	assert.False(t, wg.Evanescent)
	require.NotNil(t, wg.GuideWavelength)
	assert.Greater(t, *wg.GuideWavelength, 0.0299792458)
	assert.Nil(t, wg.AttenuationConstant)

	req := baseRequest("waveguide")
	req.Frequency = f64(5e9)
	wg = BuildConfiguration(resolve(t, req)).Physics.Waveguide
	assert.True(t, wg.Evanescent)
	assert.Nil(t, wg.PropagationConstant)
	require.NotNil(t, wg.AttenuationConstant)
	assert.Greater(t, *wg.AttenuationConstant, 0.0)
}

func TestBuildConfiguration_StandingWave(t *testing.T) {
	req := baseRequest("standing_wave")
	req.Frequency = f64(domain.SpeedOfLight) // λ = 1 m.
	sw := BuildConfiguration(resolve(t, req)).Physics.StandingWave
	require.NotNil(t, sw)

	approx := cmpopts.EquateApprox(0, 1e-12)
	if diff := cmp.Diff([]float64{0.25, 0.75, 1.25, 1.75, 2.25}, sw.Nodes, approx); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 0.5, 1, 1.5, 2, 2.5}, sw.Antinodes, approx); diff != "" {
		t.Errorf("antinodes mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 0.5, sw.NodeSpacing, 1e-12)
	assert.InDelta(t, 2.0, sw.MaxAmplitude, 0)
}

func TestBuildConfiguration_Interference(t *testing.T) {
	in := BuildConfiguration(resolve(t, baseRequest("interference"))).Physics.Interference
	require.NotNil(t, in)
	lambda := 0.0299792458
	if diff := cmp.Diff([]float64{-lambda, lambda}, in.SourcePositions, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("source positions mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, in.AngularFringeSpacing)
	assert.InDelta(t, 0.5, *in.AngularFringeSpacing, 1e-12)
	assert.GreaterOrEqual(t, in.BrightFringes, 2)
	assert.NotNil(t, in.MeasuredFringeSpacing)
	require.NotNil(t, in.ScreenX)
	assert.InDelta(t, 5*lambda, *in.ScreenX, 1e-12)

	req := baseRequest("interference")
	req.Sources = intp(1)
	single := BuildConfiguration(resolve(t, req)).Physics.Interference
	assert.Nil(t, single.AngularFringeSpacing)
	assert.Nil(t, single.MeasuredFringeSpacing)
	assert.Nil(t, single.ScreenX)
}

func TestBuildConfiguration_Polarization(t *testing.T) {
	req := baseRequest("polarization")
	req.PolType = str("circular")
	pol := BuildConfiguration(resolve(t, req)).Physics.Polarization
	require.NotNil(t, pol)
	assert.Equal(t, "left", pol.Handedness)
	assert.InDelta(t, 1.0, pol.AxialRatio, 1e-12)
	assert.InDelta(t, 2.0, pol.Stokes.S0, 1e-12)
	assert.InDelta(t, 2.0, pol.Stokes.S3, 1e-12)

	req.PolType = str("linear")
	req.PolAngle = f64(45)
	pol = BuildConfiguration(resolve(t, req)).Physics.Polarization
	assert.Equal(t, "none", pol.Handedness)
	assert.InDelta(t, 45.0, pol.OrientationDeg, 1e-9)
	assert.InDelta(t, 0.0, pol.MinorAxis, 0)
}
