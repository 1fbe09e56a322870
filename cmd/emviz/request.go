package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.ngs.io/emwave-api/internal/usecase"
)

// requestFlags maps command-line flags onto a VisualizationRequest. Optional
// fields are only sent when their flag was given.
type requestFlags struct {
	file string

	frequency float64
	amplitude float64

	medium1    string
	medium2    string
	angle      float64
	sources    int
	separation float64
	velocity   float64
	polType    string
	polAngle   float64
	dipoleLen  float64
	current    string
	view       string
	guideType  string
	width      float64
	height     float64
	mode       string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.file, "request", "r", "", "JSON request file (flags override its fields)")
	fs.Float64VarP(&f.frequency, "frequency", "f", 1e9, "Source frequency in Hz")
	fs.Float64VarP(&f.amplitude, "amplitude", "a", 1, "Electric field amplitude in V/m")
	fs.StringVar(&f.medium1, "medium1", "", "Incident medium")
	fs.StringVar(&f.medium2, "medium2", "", "Transmitting medium")
	fs.Float64Var(&f.angle, "angle", 0, "Angle of incidence in degrees")
	fs.IntVar(&f.sources, "sources", 0, "Number of interfering sources")
	fs.Float64Var(&f.separation, "separation", 0, "Source separation in wavelengths")
	fs.Float64Var(&f.velocity, "velocity", 0, "Source velocity in m/s, positive approaching")
	fs.StringVar(&f.polType, "pol-type", "", "linear, circular or elliptical")
	fs.Float64Var(&f.polAngle, "pol-angle", 0, "Polarization angle in degrees")
	fs.Float64Var(&f.dipoleLen, "dipole-length", 0, "Dipole length in wavelengths")
	fs.StringVar(&f.current, "current", "", "uniform, sinusoidal or triangular")
	fs.StringVar(&f.view, "view", "", "3d, 2d_elevation or 2d_azimuth")
	fs.StringVar(&f.guideType, "guide", "", "rectangular or circular")
	fs.Float64Var(&f.width, "width", 0, "Guide width (or diameter) in m")
	fs.Float64Var(&f.height, "height", 0, "Guide height in m")
	fs.StringVar(&f.mode, "mode", "", "Waveguide mode, e.g. TE10")
}

// build assembles the request from the optional file, the positional
// phenomenon argument and the flags.
func (f *requestFlags) build(cmd *cobra.Command, args []string) (usecase.VisualizationRequest, error) {
	var req usecase.VisualizationRequest
	if f.file != "" {
		//nolint:gosec // G304: path is a user-supplied CLI argument.
		data, err := os.ReadFile(f.file)
		if err != nil {
			return req, fmt.Errorf("failed to read request: %w", err)
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("failed to parse request: %w", err)
		}
	}
	if len(args) > 0 {
		req.Phenomenon = args[0]
	}
	if req.Phenomenon == "" {
		return req, errors.New("phenomenon is required (argument or request file)")
	}

	fs := cmd.Flags()
	if req.Frequency == nil || fs.Changed("frequency") {
		req.Frequency = &f.frequency
	}
	if req.Amplitude == nil || fs.Changed("amplitude") {
		req.Amplitude = &f.amplitude
	}

	setString := func(name string, dst **string, v *string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	setFloat := func(name string, dst **float64, v *float64) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	setString("medium1", &req.Medium1, &f.medium1)
	setString("medium2", &req.Medium2, &f.medium2)
	setFloat("angle", &req.Angle, &f.angle)
	if fs.Changed("sources") {
		req.Sources = &f.sources
	}
	setFloat("separation", &req.Separation, &f.separation)
	setFloat("velocity", &req.Velocity, &f.velocity)
	setString("pol-type", &req.PolType, &f.polType)
	setFloat("pol-angle", &req.PolAngle, &f.polAngle)
	setFloat("dipole-length", &req.DipoleLength, &f.dipoleLen)
	setString("current", &req.CurrentDist, &f.current)
	setString("view", &req.ViewType, &f.view)
	setString("guide", &req.GuideType, &f.guideType)
	setFloat("width", &req.GuideWidth, &f.width)
	setFloat("height", &req.GuideHeight, &f.height)
	setString("mode", &req.Mode, &f.mode)

	return req, nil
}
