package usecase

import (
	"errors"
	"fmt"
	"math"

	"go.ngs.io/emwave-api/internal/domain"
)

// ErrInvalidRequest wraps every validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// Request limits.
const (
	MaxSources      = 10
	MaxSeparation   = 20.0 // wavelengths
	MaxDipoleLength = 10.0 // wavelengths
	MaxGuideSize    = 1.0  // meters
	MinFrequency    = 1e-3 // Hz
	MaxFrequency    = 1e18 // Hz
	MaxAmplitude    = 1e9  // V/m
)

// Defaults for absent optional fields.
const (
	defaultMedium1   = "Air"
	defaultMedium2   = "Glass"
	defaultAngle     = 30.0
	defaultSources   = 2
	defaultSep       = 2.0
	defaultPolType   = "linear"
	defaultDipoleLen = 0.5
	defaultCurrent   = "uniform"
	defaultView      = "3d"
	defaultGuide     = "rectangular"
	defaultWidth     = 0.023
	defaultHeight    = 0.010
	defaultMode      = "TE10"
	defaultCircMode  = "TE11"
)

// VisualizationRequest is the body posted by clients. Only phenomenon,
// frequency and amplitude are required; the remaining fields apply to one
// phenomenon each and take defaults when absent.
type VisualizationRequest struct {
	Phenomenon string   `json:"phenomenon"`
	Frequency  *float64 `json:"frequency"` // Hz.
	Amplitude  *float64 `json:"amplitude"` // V/m.

	Medium1 *string  `json:"medium1,omitempty"`
	Medium2 *string  `json:"medium2,omitempty"`
	Angle   *float64 `json:"angle,omitempty"` // Incidence in degrees.

	Sources    *int     `json:"sources,omitempty"`
	Separation *float64 `json:"separation,omitempty"` // Wavelengths.

	Velocity *float64 `json:"velocity,omitempty"` // m/s, positive approaching.

	PolType  *string  `json:"pol_type,omitempty"`
	PolAngle *float64 `json:"pol_angle,omitempty"` // Degrees.

	DipoleLength *float64 `json:"dipole_length,omitempty"` // Wavelengths.
	CurrentDist  *string  `json:"current_dist,omitempty"`
	ViewType     *string  `json:"view_type,omitempty"`

	GuideType   *string  `json:"guide_type,omitempty"`
	GuideWidth  *float64 `json:"guide_width,omitempty"`  // m.
	GuideHeight *float64 `json:"guide_height,omitempty"` // m.
	Mode        *string  `json:"mode,omitempty"`
}

// Params is a validated request with defaults applied.
type Params struct {
	Phenomenon domain.Phenomenon
	Wave       domain.Wave

	Medium1  domain.Medium
	Medium2  domain.Medium
	AngleDeg float64

	Sources               int
	SeparationWavelengths float64

	Velocity float64

	Polarization domain.PolarizationType
	PolAngleDeg  float64

	DipoleLength float64
	Current      domain.CurrentDistribution
	View         domain.DipoleView

	Guide       domain.GuideType
	GuideWidth  float64
	GuideHeight float64
	Mode        domain.Mode
}

// MediumLookup resolves a medium name.
type MediumLookup func(name string) (domain.Medium, bool)

// Validate checks the request against the built-in media.
func (r *VisualizationRequest) Validate() error {
	_, err := r.Resolve(domain.GetMedium)
	return err
}

// Resolve validates the request and applies defaults.
//
//nolint:gocyclo // One branch per request field.
func (r *VisualizationRequest) Resolve(lookup MediumLookup) (Params, error) {
	var p Params

	ph, err := domain.ParsePhenomenon(r.Phenomenon)
	if err != nil {
		return p, invalid(err)
	}
	p.Phenomenon = ph

	if r.Frequency == nil {
		return p, invalid(errors.New("frequency is required"))
	}
	if r.Amplitude == nil {
		return p, invalid(errors.New("amplitude is required"))
	}
	wave, err := domain.NewWave(*r.Frequency, *r.Amplitude)
	if err != nil {
		return p, invalid(err)
	}
	if wave.FrequencyHz < MinFrequency || wave.FrequencyHz > MaxFrequency {
		return p, invalid(fmt.Errorf("frequency must be between %g and %g Hz", MinFrequency, MaxFrequency))
	}
	if wave.Amplitude > MaxAmplitude {
		return p, invalid(fmt.Errorf("amplitude must be at most %g V/m", MaxAmplitude))
	}
	p.Wave = wave

	m1 := stringOr(r.Medium1, defaultMedium1)
	m2 := stringOr(r.Medium2, defaultMedium2)
	if p.Medium1, err = lookupMedium(lookup, m1); err != nil {
		return p, err
	}
	if p.Medium2, err = lookupMedium(lookup, m2); err != nil {
		return p, err
	}

	p.AngleDeg = floatOr(r.Angle, defaultAngle)
	if !finite(p.AngleDeg) || p.AngleDeg < 0 || p.AngleDeg > 90 {
		return p, invalid(errors.New("angle must be between 0 and 90 degrees"))
	}

	p.Sources = defaultSources
	if r.Sources != nil {
		p.Sources = *r.Sources
	}
	if p.Sources < 1 || p.Sources > MaxSources {
		return p, invalid(fmt.Errorf("sources must be between 1 and %d", MaxSources))
	}
	p.SeparationWavelengths = floatOr(r.Separation, defaultSep)
	if !finite(p.SeparationWavelengths) || p.SeparationWavelengths <= 0 || p.SeparationWavelengths > MaxSeparation {
		return p, invalid(fmt.Errorf("separation must be positive and at most %.0f wavelengths", MaxSeparation))
	}

	p.Velocity = floatOr(r.Velocity, 0)
	if !finite(p.Velocity) {
		return p, invalid(errors.New("velocity must be finite"))
	}

	if p.Polarization, err = domain.ParsePolarizationType(stringOr(r.PolType, defaultPolType)); err != nil {
		return p, invalid(err)
	}
	p.PolAngleDeg = floatOr(r.PolAngle, 0)
	if !finite(p.PolAngleDeg) || p.PolAngleDeg < 0 || p.PolAngleDeg > 180 {
		return p, invalid(errors.New("pol_angle must be between 0 and 180 degrees"))
	}

	p.DipoleLength = floatOr(r.DipoleLength, defaultDipoleLen)
	if !finite(p.DipoleLength) || p.DipoleLength <= 0 || p.DipoleLength > MaxDipoleLength {
		return p, invalid(fmt.Errorf("dipole_length must be positive and at most %.0f wavelengths", MaxDipoleLength))
	}
	if p.Current, err = domain.ParseCurrentDistribution(stringOr(r.CurrentDist, defaultCurrent)); err != nil {
		return p, invalid(err)
	}
	if p.View, err = domain.ParseDipoleView(stringOr(r.ViewType, defaultView)); err != nil {
		return p, invalid(err)
	}

	if p.Guide, err = domain.ParseGuideType(stringOr(r.GuideType, defaultGuide)); err != nil {
		return p, invalid(err)
	}
	p.GuideWidth = floatOr(r.GuideWidth, defaultWidth)
	p.GuideHeight = floatOr(r.GuideHeight, defaultHeight)
	if !finite(p.GuideWidth) || p.GuideWidth <= 0 || p.GuideWidth > MaxGuideSize {
		return p, invalid(errors.New("guide_width must be positive and at most 1 m"))
	}
	if !finite(p.GuideHeight) || p.GuideHeight <= 0 || p.GuideHeight > MaxGuideSize {
		return p, invalid(errors.New("guide_height must be positive and at most 1 m"))
	}
	mode := defaultMode
	if p.Guide == domain.GuideCircular {
		mode = defaultCircMode
	}
	if p.Mode, err = domain.ParseMode(stringOr(r.Mode, mode), p.Guide); err != nil {
		return p, invalid(err)
	}

	return p, nil
}

func lookupMedium(lookup MediumLookup, name string) (domain.Medium, error) {
	m, ok := lookup(name)
	if !ok {
		return domain.Medium{}, invalid(fmt.Errorf("unknown medium: %s", name))
	}
	return m, nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}

func stringOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func floatOr(f *float64, def float64) float64 {
	if f == nil {
		return def
	}
	return *f
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
