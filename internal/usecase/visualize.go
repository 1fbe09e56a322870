package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"go.ngs.io/emwave-api/internal/adapter/interp"
	"go.ngs.io/emwave-api/internal/adapter/store"
	"go.ngs.io/emwave-api/internal/domain"
)

// DefaultGridResolution is the side of the field grids in samples.
const DefaultGridResolution = 200

var (
	// ErrRender is returned when a figure cannot be produced.
	ErrRender = errors.New("render failed")
	// ErrNoFieldGrid is returned for phenomena without a 2-D field map.
	ErrNoFieldGrid = errors.New("phenomenon has no field grid")
	// ErrNoAnimation is returned for phenomena without time-stepped frames.
	ErrNoAnimation = errors.New("phenomenon has no animation")
)

// FigureRenderer turns a configuration into an encoded image.
type FigureRenderer interface {
	Render(p Params, cfg *Configuration) ([]byte, error)
}

// VisualizationResponse is returned by Execute.
type VisualizationResponse struct {
	Success         bool           `json:"success"`
	Image           string         `json:"image,omitempty"` // Base64 PNG.
	Config          *Configuration `json:"config,omitempty"`
	Description     string         `json:"description,omitempty"`
	DescriptionHTML string         `json:"description_html,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// ProbeResult is a field value interpolated at one point.
type ProbeResult struct {
	Phenomenon string  `json:"phenomenon"`
	Variable   string  `json:"variable"`
	Units      string  `json:"units"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Value      float64 `json:"value"`
}

// Frame is one time step of an animation.
type Frame struct {
	Index  int                  `json:"index"`
	Time   float64              `json:"time"` // s.
	X      []float64            `json:"x"`
	Series map[string][]float64 `json:"series"`
}

// PhenomenonInfo describes a supported phenomenon.
type PhenomenonInfo struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	FieldGrid bool   `json:"field_grid"`
	Animated  bool   `json:"animated"`
}

// VisualizeUseCase orchestrates request validation, physics and rendering.
type VisualizeUseCase struct {
	catalog    *MaterialCatalog
	renderer   FigureRenderer
	logger     *zap.Logger
	resolution int
}

// NewVisualizeUseCase creates a use case. A non-positive gridResolution
// selects DefaultGridResolution.
func NewVisualizeUseCase(catalog *MaterialCatalog, renderer FigureRenderer, logger *zap.Logger, gridResolution int) *VisualizeUseCase {
	if catalog == nil {
		catalog = NewMaterialCatalog(nil, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if gridResolution <= 0 {
		gridResolution = DefaultGridResolution
	}
	return &VisualizeUseCase{
		catalog:    catalog,
		renderer:   renderer,
		logger:     logger,
		resolution: gridResolution,
	}
}

// CatalogError reports why the external material catalogue failed to load.
func (uc *VisualizeUseCase) CatalogError() error {
	return uc.catalog.LoadError()
}

// Resolve validates a request against the material catalogue.
func (uc *VisualizeUseCase) Resolve(req VisualizationRequest) (Params, error) {
	return req.Resolve(uc.catalog.Lookup)
}

// Execute validates the request, evaluates the physics and renders the figure.
func (uc *VisualizeUseCase) Execute(req VisualizationRequest) (*VisualizationResponse, error) {
	p, err := uc.Resolve(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cfg := BuildConfiguration(p)

	if uc.renderer == nil {
		return nil, fmt.Errorf("%w: no renderer configured", ErrRender)
	}
	png, err := uc.renderer.Render(p, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	text, html, err := Describe(p, cfg)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("visualization rendered",
		zap.String("phenomenon", string(p.Phenomenon)),
		zap.Float64("frequency_hz", p.Wave.FrequencyHz),
		zap.Int("png_bytes", len(png)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &VisualizationResponse{
		Success:         true,
		Image:           base64.StdEncoding.EncodeToString(png),
		Config:          cfg,
		Description:     text,
		DescriptionHTML: html,
	}, nil
}

// Report returns the configuration without rendering.
func (uc *VisualizeUseCase) Report(req VisualizationRequest) (*Configuration, error) {
	p, err := uc.Resolve(req)
	if err != nil {
		return nil, err
	}
	return BuildConfiguration(p), nil
}

// FieldGrid samples the 2-D field map of reflection, interference and
// waveguide requests.
func (uc *VisualizeUseCase) FieldGrid(req VisualizationRequest) (domain.Grid, store.FieldMeta, error) {
	p, err := uc.Resolve(req)
	if err != nil {
		return domain.Grid{}, store.FieldMeta{}, err
	}
	return FieldGrid(p, uc.resolution)
}

// FieldGrid samples the field map of a resolved request.
func FieldGrid(p Params, resolution int) (domain.Grid, store.FieldMeta, error) {
	meta := store.FieldMeta{
		Phenomenon: string(p.Phenomenon),
		Frequency:  p.Wave.FrequencyHz,
	}
	switch p.Phenomenon {
	case domain.PhenomenonReflection:
		meta.Variable, meta.LongName, meta.Units = "e_field", "TE electric field", "V/m"
		g := domain.ReflectionFieldMap(p.Wave, p.Medium1.RefractiveIndex(), p.Medium2.RefractiveIndex(), domain.Deg2Rad(p.AngleDeg), resolution)
		return g, meta, nil
	case domain.PhenomenonInterference:
		meta.Variable, meta.LongName, meta.Units = "intensity", "normalized intensity", "1"
		in := domain.SampleInterference(p.Wave, p.Sources, p.SeparationWavelengths, resolution)
		return in.Intensity, meta, nil
	case domain.PhenomenonWaveguide:
		meta.Variable, meta.LongName, meta.Units = "e_magnitude", fmt.Sprintf("%s electric field magnitude", p.Mode), "V/m"
		g := domain.ModeFieldMagnitude(p.Guide, p.GuideWidth, p.GuideHeight, p.Mode, p.Wave.Amplitude, resolution)
		return g, meta, nil
	}
	return domain.Grid{}, store.FieldMeta{}, invalid(fmt.Errorf("%w: %s", ErrNoFieldGrid, p.Phenomenon))
}

// Probe interpolates the field map at (x, y) in meters.
func (uc *VisualizeUseCase) Probe(req VisualizationRequest, x, y float64) (*ProbeResult, error) {
	g, meta, err := uc.FieldGrid(req)
	if err != nil {
		return nil, err
	}
	v, err := interp.FromDomain(g).InterpolateAt(x, y)
	if err != nil {
		return nil, invalid(err)
	}
	return &ProbeResult{
		Phenomenon: meta.Phenomenon,
		Variable:   meta.Variable,
		Units:      meta.Units,
		X:          x,
		Y:          y,
		Value:      v,
	}, nil
}

// Animated reports whether Frames supports the phenomenon.
func Animated(p domain.Phenomenon) bool {
	switch p {
	case domain.PhenomenonPlaneWave, domain.PhenomenonStandingWave,
		domain.PhenomenonPolarization, domain.PhenomenonDoppler:
		return true
	}
	return false
}

// Frames emits count frames evenly spaced over one period, each sampled at
// the given number of positions. It stops early when ctx is done or emit
// fails.
func (uc *VisualizeUseCase) Frames(ctx context.Context, req VisualizationRequest, count, samples int, emit func(Frame) error) error {
	p, err := uc.Resolve(req)
	if err != nil {
		return err
	}
	if !Animated(p.Phenomenon) {
		return invalid(fmt.Errorf("%w: %s", ErrNoAnimation, p.Phenomenon))
	}
	if count < 1 {
		return invalid(errors.New("frame count must be positive"))
	}
	if samples < 2 {
		samples = 2
	}

	var doppler domain.DopplerShift
	if p.Phenomenon == domain.PhenomenonDoppler {
		if doppler, err = domain.RelativisticDoppler(p.Wave.FrequencyHz, p.Velocity); err != nil {
			return invalid(err)
		}
	}

	period := p.Wave.Period()
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := float64(i) * period / float64(count)
		f := Frame{Index: i, Time: t}

		switch p.Phenomenon {
		case domain.PhenomenonPlaneWave:
			pw := domain.SamplePlaneWaveAt(p.Wave, t, samples)
			f.X = pw.X
			f.Series = map[string][]float64{"e": pw.E, "b": pw.B}
		case domain.PhenomenonStandingWave:
			f.X = span(0, 2.5*p.Wave.Wavelength(), samples)
			f.Series = map[string][]float64{"e": domain.StandingWaveAt(p.Wave, f.X, t)}
		case domain.PhenomenonPolarization:
			f.X, f.Series = polarizationFrame(p, t, samples)
		case domain.PhenomenonDoppler:
			f.X, f.Series = dopplerFrame(p, doppler, t, samples)
		}

		if err := emit(f); err != nil {
			return err
		}
	}
	return nil
}

func span(lo, hi float64, n int) []float64 {
	x := make([]float64, n)
	floats.Span(x, lo, hi)
	return x
}

func polarizationFrame(p Params, t float64, samples int) ([]float64, map[string][]float64) {
	pol := domain.NewPolarization(p.Polarization, domain.Deg2Rad(p.PolAngleDeg), p.Wave.Amplitude)
	z := span(0, 2*p.Wave.Wavelength(), samples)
	ex := make([]float64, samples)
	ey := make([]float64, samples)
	k, w := p.Wave.WaveNumber(), p.Wave.AngularFrequency()
	for i, zi := range z {
		ex[i], ey[i] = pol.Field(k*zi - w*t)
	}
	return z, map[string][]float64{"ex": ex, "ey": ey}
}

// dopplerFrame samples the emitted wave and the wave seen by the observer
// over three source wavelengths.
func dopplerFrame(p Params, d domain.DopplerShift, t float64, samples int) ([]float64, map[string][]float64) {
	x := span(0, 3*p.Wave.Wavelength(), samples)
	src := make([]float64, samples)
	obs := make([]float64, samples)
	k, w := p.Wave.WaveNumber(), p.Wave.AngularFrequency()
	w2 := 2 * math.Pi * d.ObservedFrequency
	k2 := w2 / domain.SpeedOfLight
	for i, xi := range x {
		src[i] = p.Wave.Amplitude * math.Sin(k*xi-w*t)
		obs[i] = p.Wave.Amplitude * math.Sin(k2*xi-w2*t)
	}
	return x, map[string][]float64{"source": src, "observed": obs}
}

// ListPhenomena describes every supported phenomenon.
func (uc *VisualizeUseCase) ListPhenomena() []PhenomenonInfo {
	out := make([]PhenomenonInfo, len(domain.Phenomena))
	for i, ph := range domain.Phenomena {
		out[i] = PhenomenonInfo{
			Name:      string(ph),
			Title:     ph.Title(),
			FieldGrid: ph.HasFieldGrid(),
			Animated:  Animated(ph),
		}
	}
	return out
}

// Materials lists the available media sorted by refractive index.
func (uc *VisualizeUseCase) Materials() []MediumInfo {
	all := uc.catalog.All()
	out := make([]MediumInfo, len(all))
	for i, m := range all {
		out[i] = mediumInfo(m)
	}
	return out
}
