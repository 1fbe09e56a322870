package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"go.ngs.io/emwave-api/internal/domain"
	"go.ngs.io/emwave-api/internal/usecase"
)

// expectation is one textbook value checked against a server report.
type expectation struct {
	name      string
	want      float64
	tolerance float64
	got       func(cfg *usecase.Configuration) (float64, bool)
}

// checkCase is a request and the values its report must contain.
type checkCase struct {
	name    string
	request map[string]any
	expect  []expectation
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func textbookCases() []checkCase {
	return []checkCase{
		{
			name:    "1 GHz plane wave",
			request: map[string]any{"phenomenon": "plane_wave", "frequency": 1e9, "amplitude": 1.0},
			expect: []expectation{
				{"wavelength (m)", domain.SpeedOfLight / 1e9, 1e-12, func(c *usecase.Configuration) (float64, bool) {
					return c.Physics.Wave.Wavelength, true
				}},
				{"period (s)", 1e-9, 1e-21, func(c *usecase.Configuration) (float64, bool) {
					return c.Physics.Wave.Period, true
				}},
			},
		},
		{
			name: "Brewster angle, air to glass",
			request: map[string]any{"phenomenon": "reflection", "frequency": 1e9, "amplitude": 1.0,
				"medium1": "Air", "medium2": "Glass", "angle": 56.3},
			expect: []expectation{
				{"brewster angle (deg)", 56.31, 0.02, func(c *usecase.Configuration) (float64, bool) {
					if c.Physics.ReflectionInfo == nil {
						return 0, false
					}
					return c.Physics.BrewsterAngleDeg, true
				}},
				{"R_TM at Brewster", 0, 1e-4, func(c *usecase.Configuration) (float64, bool) {
					if c.Physics.ReflectionInfo == nil {
						return 0, false
					}
					return c.Physics.FresnelCoefficients.ReflectanceTM, true
				}},
			},
		},
		{
			name: "Total internal reflection, glass to air",
			request: map[string]any{"phenomenon": "reflection", "frequency": 1e9, "amplitude": 1.0,
				"medium1": "Glass", "medium2": "Air", "angle": 60.0},
			expect: []expectation{
				{"critical angle (deg)", 41.83, 0.05, func(c *usecase.Configuration) (float64, bool) {
					if c.Physics.ReflectionInfo == nil {
						return 0, false
					}
					return deref(c.Physics.CriticalAngleDeg)
				}},
				{"total internal reflection", 1, 0, func(c *usecase.Configuration) (float64, bool) {
					if c.Physics.ReflectionInfo == nil {
						return 0, false
					}
					return boolValue(c.Physics.TotalInternalReflection), true
				}},
			},
		},
		{
			name: "Doppler, source approaching at 0.6c",
			request: map[string]any{"phenomenon": "doppler", "frequency": 1e9, "amplitude": 1.0,
				"velocity": 0.6 * domain.SpeedOfLight},
			expect: []expectation{
				{"observed frequency (Hz)", 2e9, 1, func(c *usecase.Configuration) (float64, bool) {
					if c.Physics.Doppler == nil {
						return 0, false
					}
					return deref(c.Physics.Doppler.ObservedFrequency)
				}},
				{"gamma", 1.25, 1e-9, func(c *usecase.Configuration) (float64, bool) {
					if c.Physics.Doppler == nil {
						return 0, false
					}
					return deref(c.Physics.Doppler.Gamma)
				}},
			},
		},
		{
			name: "Half-wave dipole",
			request: map[string]any{"phenomenon": "dipole", "frequency": 1e9, "amplitude": 1.0,
				"dipole_length": 0.5},
			expect: []expectation{
				{"radiation resistance (ohm)", 73.13, 1e-9, func(c *usecase.Configuration) (float64, bool) {
					if c.Physics.Dipole == nil {
						return 0, false
					}
					return c.Physics.Dipole.RadiationResistance, true
				}},
				{"directivity", 1.64, 0.01, func(c *usecase.Configuration) (float64, bool) {
					if c.Physics.Dipole == nil {
						return 0, false
					}
					return c.Physics.Dipole.Directivity, true
				}},
			},
		},
		{
			name: "WR-90 waveguide TE10",
			request: map[string]any{"phenomenon": "waveguide", "frequency": 10e9, "amplitude": 1.0,
				"guide_type": "rectangular", "guide_width": 0.02286, "guide_height": 0.01016, "mode": "TE10"},
			expect: []expectation{
				{"cutoff frequency (Hz)", domain.SpeedOfLight / (2 * 0.02286), 1, func(c *usecase.Configuration) (float64, bool) {
					if c.Physics.Waveguide == nil {
						return 0, false
					}
					return c.Physics.Waveguide.CutoffFrequency, true
				}},
			},
		},
	}
}

type reportResponse struct {
	Success bool                   `json:"success"`
	Config  *usecase.Configuration `json:"config"`
	Error   string                 `json:"error"`
}

func postJSON(ctx context.Context, client *http.Client, url string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		b, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("HTTP %d (failed to read body: %w)", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return io.ReadAll(resp.Body)
}

func newCheckCmd(_ *cli) *cobra.Command {
	var (
		server  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Compare a running server's reports against textbook values",
		Example: `  emviz check --server http://localhost:8080`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: timeout}
			url := strings.TrimRight(server, "/") + "/v1/report"

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CASE\tQUANTITY\tWANT\tGOT\tRESULT")

			total, failed := 0, 0
			for _, tc := range textbookCases() {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				body, err := postJSON(ctx, client, url, tc.request)
				cancel()
				if err != nil {
					return fmt.Errorf("%s: %w", tc.name, err)
				}
				var resp reportResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					return fmt.Errorf("%s: failed to parse report: %w", tc.name, err)
				}
				if !resp.Success || resp.Config == nil {
					return fmt.Errorf("%s: server error: %s", tc.name, resp.Error)
				}

				for _, e := range tc.expect {
					total++
					got, ok := e.got(resp.Config)
					result := "PASS"
					gotText := fmt.Sprintf("%.6g", got)
					switch {
					case !ok:
						result, gotText = "FAIL", "missing"
						failed++
					case math.Abs(got-e.want) > e.tolerance:
						result = "FAIL"
						failed++
					}
					fmt.Fprintf(tw, "%s\t%s\t%.6g\t%s\t%s\n", tc.name, e.name, e.want, gotText, result)
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n%d/%d checks passed\n", total-failed, total)
			if failed > 0 {
				return errors.New("textbook check failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "Base URL of the emwave-api server")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "Per-request timeout")
	return cmd
}
